package masterdata

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// MasterStatus is the activation state shared by warehouses and suppliers.
type MasterStatus string

const (
	StatusActive   MasterStatus = "ACTIVE"
	StatusDisabled MasterStatus = "DISABLED"
)

// Material is a stock item master record. On-hand quantity is maintained
// here independently of goods receipts.
type Material struct {
	ID              string          `json:"id"`
	Code            string          `json:"code" validate:"required"`
	Name            string          `json:"name" validate:"required"`
	Unit            string          `json:"unit" validate:"required"`
	OnHand          decimal.Decimal `json:"on_hand"`
	InboundPrice    decimal.Decimal `json:"inbound_price"`
	OutboundPrice   decimal.Decimal `json:"outbound_price"`
	PrimarySupplier string          `json:"primary_supplier"`
	Description     string          `json:"description"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SearchFields lists the free-text searchable values of a material.
func (m Material) SearchFields() []string {
	return []string{m.Code, m.Name, m.PrimarySupplier}
}

// Warehouse is a storage location master record.
type Warehouse struct {
	ID           string       `json:"id"`
	Name         string       `json:"name" validate:"required"`
	Address      string       `json:"address" validate:"required"`
	AreaM2       float64      `json:"area_m2"`
	Manager      string       `json:"manager"`
	ManagerPhone string       `json:"manager_phone"`
	Description  string       `json:"description"`
	Status       MasterStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
}

// SearchFields lists the free-text searchable values of a warehouse.
func (w Warehouse) SearchFields() []string {
	return []string{w.Name, w.Address, w.Manager}
}

// Supplier is a vendor master record. The directory can also be replaced
// wholesale from the external feed.
type Supplier struct {
	ID            string       `json:"id"`
	Name          string       `json:"name" validate:"required"`
	Address       string       `json:"address"`
	Phone         string       `json:"phone"`
	Email         string       `json:"email" validate:"omitempty,email"`
	ContactPerson string       `json:"contact_person"`
	PaymentTerms  string       `json:"payment_terms"`
	Description   string       `json:"description"`
	Status        MasterStatus `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
}

// SearchFields lists the free-text searchable values of a supplier.
func (s Supplier) SearchFields() []string {
	return []string{s.Name, s.Address, s.Phone}
}

// ErrValidation occurs when a master record fails its field checks.
var ErrValidation = errors.New("masterdata: validation failed")
