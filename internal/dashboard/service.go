package dashboard

import (
	"context"
	"fmt"

	"github.com/totofurniture/furnistore-backend/pkg/enums"
	pkgerrors "github.com/totofurniture/furnistore-backend/pkg/errors"
)

type furnitureCounter interface {
	CountByKind(ctx context.Context) (map[enums.FurnitureKind]int64, error)
}

type customerCounter interface {
	Count(ctx context.Context) (int64, error)
}

type orderCounter interface {
	CountByStatus(ctx context.Context, status enums.OrderStatus) (int64, error)
}

type supplierCounter interface {
	CountByStatus(ctx context.Context, status enums.SupplierStatus) (int64, error)
}

// Summary is the store overview shown on the dashboard.
type Summary struct {
	FurnitureByKind map[enums.FurnitureKind]int64 `json:"furniture_by_kind"`
	FurnitureTotal  int64                         `json:"furniture_total"`
	Customers       int64                         `json:"customers"`
	PendingOrders   int64                         `json:"pending_orders"`
	DeliveredOrders int64                         `json:"delivered_orders"`
	ActiveSuppliers int64                         `json:"active_suppliers"`
}

type Service interface {
	Summary(ctx context.Context) (*Summary, error)
}

type service struct {
	furniture furnitureCounter
	customers customerCounter
	orders    orderCounter
	suppliers supplierCounter
}

func NewService(furniture furnitureCounter, customers customerCounter, orders orderCounter, suppliers supplierCounter) (Service, error) {
	if furniture == nil || customers == nil || orders == nil || suppliers == nil {
		return nil, fmt.Errorf("dashboard counters required")
	}
	return &service{furniture: furniture, customers: customers, orders: orders, suppliers: suppliers}, nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	byKind, err := s.furniture.CountByKind(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count furniture")
	}
	out := &Summary{FurnitureByKind: make(map[enums.FurnitureKind]int64, len(enums.FurnitureKinds()))}
	for _, kind := range enums.FurnitureKinds() {
		out.FurnitureByKind[kind] = byKind[kind]
		out.FurnitureTotal += byKind[kind]
	}

	if out.Customers, err = s.customers.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count customers")
	}
	if out.PendingOrders, err = s.orders.CountByStatus(ctx, enums.OrderStatusPending); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count pending orders")
	}
	if out.DeliveredOrders, err = s.orders.CountByStatus(ctx, enums.OrderStatusDelivered); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count delivered orders")
	}
	if out.ActiveSuppliers, err = s.suppliers.CountByStatus(ctx, enums.SupplierStatusActive); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count suppliers")
	}
	return out, nil
}
