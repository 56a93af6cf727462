// Package docform implements the create/edit workflow every document page
// shares: a transient edit buffer holding header fields and a growable line
// list, staged until the operator saves or cancels. Nothing reaches the
// record store until Save passes validation.
package docform

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrValidation indicates required input is missing or malformed. The
// triggering operation mutates nothing.
var ErrValidation = errors.New("docform: invalid input")

// View names the workflow states.
type View string

const (
	ViewList   View = "list"
	ViewCreate View = "create"
	ViewEdit   View = "edit"
	ViewDetail View = "detail"
)

// LineInput is the raw per-line entry. Quantity and price arrive as text,
// the way the entry form produces them.
type LineInput struct {
	ItemCode  string `validate:"required"`
	ItemName  string `validate:"required"`
	Unit      string
	Quantity  string `validate:"required"`
	UnitPrice string `validate:"required"`
}

// QuantityRole selects which line field the entered quantity fills. Order
// forms stage ordered quantities; receipt forms stage received quantities.
type QuantityRole int

const (
	QuantityOrdered QuantityRole = iota
	QuantityReceived
)

// Session stages one document of header type H through the List, Create,
// Edit and Detail states. A session belongs to a single workflow; it is not
// safe for concurrent use.
type Session[H any] struct {
	validate  *validator.Validate
	role      QuantityRole
	view      View
	header    H
	lines     []Line
	editingID string
}

// NewSession builds a session resting in the List state.
func NewSession[H any](role QuantityRole) *Session[H] {
	return &Session[H]{
		validate: validator.New(),
		role:     role,
		view:     ViewList,
	}
}

// View reports the current workflow state.
func (s *Session[H]) View() View { return s.view }

// Header returns the staged header fields.
func (s *Session[H]) Header() H { return s.header }

// SetHeader replaces the staged header fields.
func (s *Session[H]) SetHeader(header H) { s.header = header }

// Lines returns a copy of the staged line list.
func (s *Session[H]) Lines() []Line { return CloneLines(s.lines) }

// EditingID returns the identity of the record being edited, empty outside
// the Edit state.
func (s *Session[H]) EditingID() string { return s.editingID }

// StartCreate clears the buffer to the given defaults and enters Create.
func (s *Session[H]) StartCreate(defaults H) {
	s.header = defaults
	s.lines = nil
	s.editingID = ""
	s.view = ViewCreate
}

// StartEdit copies an existing record into the buffer and enters Edit.
func (s *Session[H]) StartEdit(id string, header H, lines []Line) {
	s.header = header
	s.lines = CloneLines(lines)
	s.editingID = id
	s.view = ViewEdit
}

// StartDetail enters the read-only Detail state.
func (s *Session[H]) StartDetail() {
	s.view = ViewDetail
}

// AddLine validates the entry and appends a line numbered after the current
// last. The buffer is untouched on failure.
func (s *Session[H]) AddLine(input LineInput) (Line, error) {
	line, err := s.buildLine(input, len(s.lines)+1)
	if err != nil {
		return Line{}, err
	}
	s.lines = append(s.lines, line)
	return line, nil
}

// RemoveLine deletes the identified line and renumbers the survivors to a
// dense 1..N range.
func (s *Session[H]) RemoveLine(lineID string) {
	kept := make([]Line, 0, len(s.lines))
	for _, l := range s.lines {
		if l.ID != lineID {
			kept = append(kept, l)
		}
	}
	s.lines = Renumber(kept)
}

// UpdateLine applies fn to the identified line. Used by reconciliation to
// record received quantities.
func (s *Session[H]) UpdateLine(lineID string, fn func(*Line)) bool {
	for i := range s.lines {
		if s.lines[i].ID == lineID {
			fn(&s.lines[i])
			return true
		}
	}
	return false
}

// SetLines replaces the whole staged line list, renumbering it.
func (s *Session[H]) SetLines(lines []Line) {
	s.lines = Renumber(lines)
}

// Save validates the staged header (via its validate tags) and requires at
// least one line, then hands the buffer to commit. On success the session
// returns to List with the buffer cleared; on any failure nothing is
// committed and the session stays where it is.
func (s *Session[H]) Save(commit func(editingID string, header H, lines []Line) error) error {
	if err := s.validate.Struct(s.header); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, describeFieldErrors(err))
	}
	if len(s.lines) == 0 {
		return fmt.Errorf("%w: at least one line is required", ErrValidation)
	}
	if err := commit(s.editingID, s.header, CloneLines(s.lines)); err != nil {
		return err
	}
	s.reset()
	return nil
}

// Cancel discards the buffer and returns to List.
func (s *Session[H]) Cancel() {
	s.reset()
}

// Close leaves the Detail state. Detail never mutates the buffer, so this
// is the only way back to List from it.
func (s *Session[H]) Close() {
	s.view = ViewList
}

func (s *Session[H]) reset() {
	var zero H
	s.header = zero
	s.lines = nil
	s.editingID = ""
	s.view = ViewList
}

func (s *Session[H]) buildLine(input LineInput, seq int) (Line, error) {
	if err := s.validate.Struct(input); err != nil {
		return Line{}, fmt.Errorf("%w: %s", ErrValidation, describeFieldErrors(err))
	}
	unit := input.Unit
	if unit == "" {
		unit = DefaultUnit
	}
	if !ValidUnit(unit) {
		return Line{}, fmt.Errorf("%w: unknown unit %q", ErrValidation, unit)
	}
	qty, err := parseQuantity("quantity", input.Quantity)
	if err != nil {
		return Line{}, err
	}
	price, err := parseQuantity("unit price", input.UnitPrice)
	if err != nil {
		return Line{}, err
	}
	line := Line{
		ID:        newLineID(),
		Seq:       seq,
		ItemCode:  input.ItemCode,
		ItemName:  input.ItemName,
		Unit:      unit,
		UnitPrice: price,
	}
	if s.role == QuantityOrdered {
		line.OrderedQty = qty
	} else {
		line.ReceivedQty = qty
	}
	return line, nil
}

func describeFieldErrors(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	msg := ""
	for _, fe := range fieldErrs {
		if msg != "" {
			msg += ", "
		}
		msg += fmt.Sprintf("%s is required", fe.Field())
	}
	return msg
}
