package masterdata

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/meridian-wms/meridian/internal/docform"
	"github.com/meridian-wms/meridian/internal/listview"
	"github.com/meridian-wms/meridian/internal/notify"
	"github.com/meridian-wms/meridian/internal/store"
)

// ListFilters represents standard list page filters.
type ListFilters struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir listview.SortDir
}

// Service manages the material, warehouse and supplier masters over
// in-memory stores. The supplier store is additionally fed by Feed.
type Service struct {
	materials  *store.Store[Material]
	warehouses *store.Store[Warehouse]
	suppliers  *store.Store[Supplier]
	validate   *validator.Validate
	notifier   notify.Service
}

// NewService constructs the master data service.
func NewService(notifier notify.Service) *Service {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Service{
		materials:  store.New(func(m Material) string { return m.ID }),
		warehouses: store.New(func(w Warehouse) string { return w.ID }),
		suppliers:  store.New(func(s Supplier) string { return s.ID }),
		validate:   validator.New(),
		notifier:   notifier,
	}
}

// Suppliers exposes the supplier store for the feed refresher.
func (s *Service) Suppliers() *store.Store[Supplier] { return s.suppliers }

// Material operations.

func (s *Service) ListMaterials(ctx context.Context, filters ListFilters) ([]Material, listview.Pagination, error) {
	matched := listview.Filter(s.materials.List(), filters.Search, Material.SearchFields)
	if filters.SortBy == "name" {
		matched = listview.Sort(matched, func(a, b Material) bool { return a.Name < b.Name }, filters.SortDir)
	}
	page := listview.Paginate(matched, filters.PerPage, filters.Page)
	return page, listview.NewPagination(filters.Page, filters.PerPage, len(matched)), nil
}

func (s *Service) GetMaterial(ctx context.Context, id string) (Material, error) {
	return s.materials.Find(id)
}

func (s *Service) CreateMaterial(ctx context.Context, material Material) (Material, error) {
	if err := s.checkMaterial(material); err != nil {
		return Material{}, err
	}
	material.ID = uuid.NewString()
	material.CreatedAt = time.Now()
	if err := s.materials.Insert(material, store.Append); err != nil {
		return Material{}, err
	}
	s.notifier.Notify(ctx, notify.SeveritySuccess, "Vật tư đã được thêm thành công!")
	return material, nil
}

func (s *Service) UpdateMaterial(ctx context.Context, id string, material Material) (Material, error) {
	existing, err := s.materials.Find(id)
	if err != nil {
		return Material{}, err
	}
	if err := s.checkMaterial(material); err != nil {
		return Material{}, err
	}
	material.ID = existing.ID
	material.CreatedAt = existing.CreatedAt
	if err := s.materials.Replace(id, material); err != nil {
		return Material{}, err
	}
	s.notifier.Notify(ctx, notify.SeveritySuccess, "Vật tư đã được cập nhật!")
	return material, nil
}

func (s *Service) DeleteMaterial(ctx context.Context, id string) error {
	if err := s.materials.Remove(id); err != nil {
		return err
	}
	s.notifier.Notify(ctx, notify.SeveritySuccess, "Vật tư đã được xóa!")
	return nil
}

func (s *Service) checkMaterial(material Material) error {
	if err := s.validate.Struct(material); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if !docform.ValidUnit(material.Unit) {
		return fmt.Errorf("%w: unknown unit %q", ErrValidation, material.Unit)
	}
	if material.OnHand.IsNegative() || material.InboundPrice.IsNegative() || material.OutboundPrice.IsNegative() {
		return fmt.Errorf("%w: quantities and prices must not be negative", ErrValidation)
	}
	return nil
}

// Warehouse operations.

func (s *Service) ListWarehouses(ctx context.Context, filters ListFilters) ([]Warehouse, listview.Pagination, error) {
	matched := listview.Filter(s.warehouses.List(), filters.Search, Warehouse.SearchFields)
	if filters.SortBy == "name" {
		matched = listview.Sort(matched, func(a, b Warehouse) bool { return a.Name < b.Name }, filters.SortDir)
	}
	page := listview.Paginate(matched, filters.PerPage, filters.Page)
	return page, listview.NewPagination(filters.Page, filters.PerPage, len(matched)), nil
}

func (s *Service) GetWarehouse(ctx context.Context, id string) (Warehouse, error) {
	return s.warehouses.Find(id)
}

func (s *Service) CreateWarehouse(ctx context.Context, warehouse Warehouse) (Warehouse, error) {
	if err := s.validate.Struct(warehouse); err != nil {
		return Warehouse{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	warehouse.ID = uuid.NewString()
	warehouse.CreatedAt = time.Now()
	if warehouse.Status == "" {
		warehouse.Status = StatusActive
	}
	if err := s.warehouses.Insert(warehouse, store.Append); err != nil {
		return Warehouse{}, err
	}
	s.notifier.Notify(ctx, notify.SeveritySuccess, "Kho đã được thêm thành công!")
	return warehouse, nil
}

func (s *Service) UpdateWarehouse(ctx context.Context, id string, warehouse Warehouse) (Warehouse, error) {
	existing, err := s.warehouses.Find(id)
	if err != nil {
		return Warehouse{}, err
	}
	if err := s.validate.Struct(warehouse); err != nil {
		return Warehouse{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	warehouse.ID = existing.ID
	warehouse.CreatedAt = existing.CreatedAt
	if warehouse.Status == "" {
		warehouse.Status = existing.Status
	}
	if err := s.warehouses.Replace(id, warehouse); err != nil {
		return Warehouse{}, err
	}
	s.notifier.Notify(ctx, notify.SeveritySuccess, "Kho đã được cập nhật!")
	return warehouse, nil
}

func (s *Service) DeleteWarehouse(ctx context.Context, id string) error {
	if err := s.warehouses.Remove(id); err != nil {
		return err
	}
	s.notifier.Notify(ctx, notify.SeveritySuccess, "Kho đã được xóa!")
	return nil
}

// ToggleWarehouse flips a warehouse between active and disabled.
func (s *Service) ToggleWarehouse(ctx context.Context, id string) (Warehouse, error) {
	existing, err := s.warehouses.Find(id)
	if err != nil {
		return Warehouse{}, err
	}
	existing.Status = toggled(existing.Status)
	if err := s.warehouses.Replace(id, existing); err != nil {
		return Warehouse{}, err
	}
	return existing, nil
}

// Supplier operations.

func (s *Service) ListSuppliers(ctx context.Context, filters ListFilters) ([]Supplier, listview.Pagination, error) {
	matched := listview.Filter(s.suppliers.List(), filters.Search, Supplier.SearchFields)
	if filters.SortBy == "name" {
		matched = listview.Sort(matched, func(a, b Supplier) bool { return a.Name < b.Name }, filters.SortDir)
	}
	page := listview.Paginate(matched, filters.PerPage, filters.Page)
	return page, listview.NewPagination(filters.Page, filters.PerPage, len(matched)), nil
}

func (s *Service) GetSupplier(ctx context.Context, id string) (Supplier, error) {
	return s.suppliers.Find(id)
}

func (s *Service) CreateSupplier(ctx context.Context, supplier Supplier) (Supplier, error) {
	if err := s.validate.Struct(supplier); err != nil {
		return Supplier{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	supplier.ID = uuid.NewString()
	supplier.CreatedAt = time.Now()
	if supplier.Status == "" {
		supplier.Status = StatusActive
	}
	if err := s.suppliers.Insert(supplier, store.Append); err != nil {
		return Supplier{}, err
	}
	s.notifier.Notify(ctx, notify.SeveritySuccess, "Nhà cung cấp đã được thêm thành công!")
	return supplier, nil
}

func (s *Service) UpdateSupplier(ctx context.Context, id string, supplier Supplier) (Supplier, error) {
	existing, err := s.suppliers.Find(id)
	if err != nil {
		return Supplier{}, err
	}
	if err := s.validate.Struct(supplier); err != nil {
		return Supplier{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	supplier.ID = existing.ID
	supplier.CreatedAt = existing.CreatedAt
	if supplier.Status == "" {
		supplier.Status = existing.Status
	}
	if err := s.suppliers.Replace(id, supplier); err != nil {
		return Supplier{}, err
	}
	s.notifier.Notify(ctx, notify.SeveritySuccess, "Nhà cung cấp đã được cập nhật!")
	return supplier, nil
}

func (s *Service) DeleteSupplier(ctx context.Context, id string) error {
	if err := s.suppliers.Remove(id); err != nil {
		return err
	}
	s.notifier.Notify(ctx, notify.SeveritySuccess, "Nhà cung cấp đã được xóa!")
	return nil
}

// ToggleSupplier flips a supplier between active and disabled.
func (s *Service) ToggleSupplier(ctx context.Context, id string) (Supplier, error) {
	existing, err := s.suppliers.Find(id)
	if err != nil {
		return Supplier{}, err
	}
	existing.Status = toggled(existing.Status)
	if err := s.suppliers.Replace(id, existing); err != nil {
		return Supplier{}, err
	}
	return existing, nil
}

func toggled(status MasterStatus) MasterStatus {
	if status == StatusActive {
		return StatusDisabled
	}
	return StatusActive
}
