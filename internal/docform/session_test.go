package docform

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type testHeader struct {
	Number   string `validate:"required"`
	Supplier string `validate:"required"`
	Note     string
}

func TestAddLineAssignsDenseSequence(t *testing.T) {
	s := NewSession[testHeader](QuantityReceived)
	s.StartCreate(testHeader{Number: "PN-1", Supplier: "Công ty ABC"})

	for _, code := range []string{"H001", "H002", "H003"} {
		_, err := s.AddLine(LineInput{ItemCode: code, ItemName: "x", Quantity: "1", UnitPrice: "10"})
		require.NoError(t, err)
	}
	lines := s.Lines()
	require.Equal(t, []int{1, 2, 3}, []int{lines[0].Seq, lines[1].Seq, lines[2].Seq})
}

func TestAddLineRejectsIncompleteInput(t *testing.T) {
	s := NewSession[testHeader](QuantityReceived)
	s.StartCreate(testHeader{})

	cases := []LineInput{
		{ItemName: "x", Quantity: "1", UnitPrice: "10"},
		{ItemCode: "H001", Quantity: "1", UnitPrice: "10"},
		{ItemCode: "H001", ItemName: "x", UnitPrice: "10"},
		{ItemCode: "H001", ItemName: "x", Quantity: "1"},
		{ItemCode: "H001", ItemName: "x", Quantity: "abc", UnitPrice: "10"},
		{ItemCode: "H001", ItemName: "x", Quantity: "-1", UnitPrice: "10"},
		{ItemCode: "H001", ItemName: "x", Quantity: "1", UnitPrice: "10", Unit: "tấn"},
	}
	for _, input := range cases {
		_, err := s.AddLine(input)
		require.ErrorIs(t, err, ErrValidation)
	}
	require.Empty(t, s.Lines())
}

func TestRemoveLineRenumbers(t *testing.T) {
	s := NewSession[testHeader](QuantityReceived)
	s.StartCreate(testHeader{})

	ids := make([]string, 0, 3)
	for _, code := range []string{"H001", "H002", "H003"} {
		line, err := s.AddLine(LineInput{ItemCode: code, ItemName: "x", Quantity: "1", UnitPrice: "10"})
		require.NoError(t, err)
		ids = append(ids, line.ID)
	}

	s.RemoveLine(ids[0])
	lines := s.Lines()
	require.Len(t, lines, 2)
	require.Equal(t, []int{1, 2}, []int{lines[0].Seq, lines[1].Seq})
	require.Equal(t, "H002", lines[0].ItemCode)
	require.Equal(t, "H003", lines[1].ItemCode)
}

func TestQuantityRoleSelectsField(t *testing.T) {
	order := NewSession[testHeader](QuantityOrdered)
	order.StartCreate(testHeader{})
	line, err := order.AddLine(LineInput{ItemCode: "H001", ItemName: "Bột mỳ", Quantity: "100", UnitPrice: "50000"})
	require.NoError(t, err)
	require.True(t, line.OrderedQty.Equal(decimal.NewFromInt(100)))
	require.True(t, line.ReceivedQty.IsZero())

	receipt := NewSession[testHeader](QuantityReceived)
	receipt.StartCreate(testHeader{})
	line, err = receipt.AddLine(LineInput{ItemCode: "H001", ItemName: "Bột mỳ", Quantity: "90", UnitPrice: "50000"})
	require.NoError(t, err)
	require.True(t, line.ReceivedQty.Equal(decimal.NewFromInt(90)))
	require.True(t, line.OrderedQty.IsZero())
}

func TestSaveValidatesHeaderAndLines(t *testing.T) {
	s := NewSession[testHeader](QuantityReceived)
	s.StartCreate(testHeader{Number: "PN-1"})
	_, err := s.AddLine(LineInput{ItemCode: "H001", ItemName: "x", Quantity: "1", UnitPrice: "10"})
	require.NoError(t, err)

	committed := false
	err = s.Save(func(string, testHeader, []Line) error { committed = true; return nil })
	require.ErrorIs(t, err, ErrValidation)
	require.False(t, committed)
	require.Equal(t, ViewCreate, s.View())

	s.SetHeader(testHeader{Number: "PN-1", Supplier: "Công ty ABC"})
	require.NoError(t, s.Save(func(string, testHeader, []Line) error { committed = true; return nil }))
	require.True(t, committed)
	require.Equal(t, ViewList, s.View())
	require.Empty(t, s.Lines())
}

func TestSaveRequiresAtLeastOneLine(t *testing.T) {
	s := NewSession[testHeader](QuantityReceived)
	s.StartCreate(testHeader{Number: "PN-1", Supplier: "Công ty ABC"})

	err := s.Save(func(string, testHeader, []Line) error { return nil })
	require.ErrorIs(t, err, ErrValidation)
	require.Equal(t, ViewCreate, s.View())
}

func TestCancelDiscardsBuffer(t *testing.T) {
	s := NewSession[testHeader](QuantityReceived)
	s.StartEdit("id-1", testHeader{Number: "PN-1", Supplier: "NCC"}, []Line{{ID: "l1", Seq: 1}})
	require.Equal(t, ViewEdit, s.View())
	require.Equal(t, "id-1", s.EditingID())

	s.Cancel()
	require.Equal(t, ViewList, s.View())
	require.Empty(t, s.Lines())
	require.Empty(t, s.EditingID())
}

func TestDetailIsReadOnlyAndClosesToList(t *testing.T) {
	s := NewSession[testHeader](QuantityReceived)
	s.StartDetail()
	require.Equal(t, ViewDetail, s.View())

	s.Close()
	require.Equal(t, ViewList, s.View())
}

func TestTotalsAndVariance(t *testing.T) {
	lines := []Line{
		{HasOrderRef: true, OrderedQty: decimal.NewFromInt(100), ReceivedQty: decimal.NewFromInt(90), UnitPrice: decimal.NewFromInt(50000)},
		{HasOrderRef: true, OrderedQty: decimal.NewFromInt(50), ReceivedQty: decimal.NewFromInt(60), UnitPrice: decimal.NewFromInt(15000)},
	}
	require.True(t, SumOrdered(lines).Equal(decimal.NewFromInt(5750000)))
	require.True(t, SumReceived(lines).Equal(decimal.NewFromInt(5400000)))
	require.True(t, lines[0].Variance().Equal(decimal.NewFromInt(-10)))
	require.True(t, lines[1].Variance().Equal(decimal.NewFromInt(10)))
}

func TestVarianceZeroWithoutOrderReference(t *testing.T) {
	line := Line{ReceivedQty: decimal.NewFromInt(30), UnitPrice: decimal.NewFromInt(1000)}
	require.True(t, line.Variance().IsZero())
	require.True(t, line.ReceivedTotal().Equal(decimal.NewFromInt(30000)))
}
