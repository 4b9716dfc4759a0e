package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totofurniture/furnistore-backend/internal/customers"
	"github.com/totofurniture/furnistore-backend/internal/furniture"
	"github.com/totofurniture/furnistore-backend/internal/orders"
	"github.com/totofurniture/furnistore-backend/internal/suppliers"
	"github.com/totofurniture/furnistore-backend/pkg/db/dbtest"
	"github.com/totofurniture/furnistore-backend/pkg/db/models"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
	pkgerrors "github.com/totofurniture/furnistore-backend/pkg/errors"
)

type failingCounter struct{}

func (failingCounter) Count(context.Context) (int64, error) {
	return 0, errors.New("connection reset")
}

func TestSummaryCountsEveryEntity(t *testing.T) {
	conn := dbtest.Open(t)
	ctx := context.Background()

	furnitureRepo := furniture.NewRepository(conn)
	_, err := furnitureRepo.Create(ctx, &models.Furniture{
		Kind: enums.FurnitureKindSofa, Name: "Sofa", Slug: "sofa-1", Price: 900,
		Sofa: &models.Sofa{SeatingCapacity: 3},
	})
	require.NoError(t, err)

	customer := &models.Customer{
		FirstName: "Hina", LastName: "Raza", RegistrationDate: time.Now().UTC(),
		Status: enums.CustomerStatusActive, CustomerType: enums.CustomerTypeFirstTime,
	}
	require.NoError(t, conn.Create(customer).Error)
	_, err = orders.NewRepository(conn).Create(ctx, &models.Order{
		CustomerID: customer.ID, OrderDate: time.Now().UTC(),
		Status: enums.OrderStatusPending, PaymentPlan: enums.PaymentPlanFullPayment, PaymentStatus: enums.PaymentStatusPending,
	})
	require.NoError(t, err)
	require.NoError(t, conn.Create(&models.Supplier{CompanyName: "Timber", Status: enums.SupplierStatusActive}).Error)

	svc, err := NewService(furnitureRepo, customers.NewRepository(conn), orders.NewRepository(conn), suppliers.NewRepository(conn))
	require.NoError(t, err)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.FurnitureByKind[enums.FurnitureKindSofa])
	assert.Equal(t, int64(0), summary.FurnitureByKind[enums.FurnitureKindBed])
	assert.Len(t, summary.FurnitureByKind, 5)
	assert.Equal(t, int64(1), summary.FurnitureTotal)
	assert.Equal(t, int64(1), summary.Customers)
	assert.Equal(t, int64(1), summary.PendingOrders)
	assert.Equal(t, int64(0), summary.DeliveredOrders)
	assert.Equal(t, int64(1), summary.ActiveSuppliers)
}

func TestSummaryWrapsFailures(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := NewService(furniture.NewRepository(conn), failingCounter{}, orders.NewRepository(conn), suppliers.NewRepository(conn))
	require.NoError(t, err)

	_, err = svc.Summary(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestNewServiceRequiresCounters(t *testing.T) {
	_, err := NewService(nil, nil, nil, nil)
	require.Error(t, err)
}
