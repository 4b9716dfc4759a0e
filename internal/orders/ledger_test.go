package orders

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totofurniture/furnistore-backend/pkg/db/models"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
)

func piece(price float64) *models.Furniture {
	return &models.Furniture{ID: uuid.New(), Kind: enums.FurnitureKindChair, Price: price}
}

func TestAddAndRemoveItemsKeepTotal(t *testing.T) {
	order := &models.Order{ID: uuid.New()}
	chair := piece(0.1)
	table := piece(0.2)

	AddItem(order, chair)
	AddItem(order, table)
	AddItem(order, chair)
	assert.Equal(t, 0.4, order.TotalAmount)
	require.Len(t, order.Items, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{order.Items[0].Position, order.Items[1].Position, order.Items[2].Position})

	removed := RemoveItem(order, chair.ID)
	require.NotNil(t, removed)
	assert.Equal(t, 0, removed.Position)
	assert.Equal(t, 0.3, order.TotalAmount)
	require.Len(t, order.Items, 2)

	assert.Nil(t, RemoveItem(order, uuid.New()))
	assert.Equal(t, 0.3, order.TotalAmount)

	next := AddItem(order, table)
	assert.Equal(t, 3, next.Position)
}

func TestTransitionStatusStampsDelivery(t *testing.T) {
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	order := &models.Order{Status: enums.OrderStatusShipped}

	TransitionStatus(order, enums.OrderStatusDelivered, now)
	require.NotNil(t, order.ActualDeliveryDate)
	assert.True(t, order.ActualDeliveryDate.Equal(now))

	TransitionStatus(order, enums.OrderStatusDelivered, now.Add(time.Hour))
	assert.True(t, order.ActualDeliveryDate.Equal(now))

	TransitionStatus(order, enums.OrderStatusReturned, now.Add(2*time.Hour))
	assert.Equal(t, enums.OrderStatusReturned, order.Status)
	assert.True(t, order.ActualDeliveryDate.Equal(now))
}

func TestApplyPaymentPartialThenCompleted(t *testing.T) {
	order := &models.Order{TotalAmount: 1000, PaymentStatus: enums.PaymentStatusPending}

	ApplyPayment(order, enums.PaymentStatusPending, 400)
	assert.Equal(t, enums.PaymentStatusPartial, order.PaymentStatus)
	assert.Equal(t, 400.0, order.AdvancePayment)
	assert.Equal(t, 600.0, order.RemainingPayment)

	ApplyPayment(order, enums.PaymentStatusPartial, 600)
	assert.Equal(t, enums.PaymentStatusCompleted, order.PaymentStatus)
	assert.Equal(t, 1000.0, order.AdvancePayment)
	assert.Equal(t, 0.0, order.RemainingPayment)
}

func TestApplyPaymentOverpaymentClampsRemaining(t *testing.T) {
	order := &models.Order{TotalAmount: 500}
	ApplyPayment(order, enums.PaymentStatusPending, 800)
	assert.Equal(t, enums.PaymentStatusCompleted, order.PaymentStatus)
	assert.Equal(t, 0.0, order.RemainingPayment)
}

func TestApplyPaymentWithoutAmountSetsRequestedStatus(t *testing.T) {
	order := &models.Order{TotalAmount: 500, AdvancePayment: 100, RemainingPayment: 400}
	ApplyPayment(order, enums.PaymentStatusDefaulted, 0)
	assert.Equal(t, enums.PaymentStatusDefaulted, order.PaymentStatus)
	assert.Equal(t, 100.0, order.AdvancePayment)
	assert.Equal(t, 400.0, order.RemainingPayment)
}

func TestPlanInstallments(t *testing.T) {
	order := &models.Order{TotalAmount: 1200, AdvancePayment: 200}
	require.NoError(t, PlanInstallments(order, 5))
	assert.Equal(t, enums.PaymentPlanInstallments, order.PaymentPlan)
	assert.Equal(t, 5, order.InstallmentMonths)
	assert.Equal(t, 200.0, order.MonthlyInstallmentAmount)
	assert.Equal(t, 1000.0, order.RemainingPayment)
}

func TestPlanInstallmentsRejectsNonPositiveMonths(t *testing.T) {
	order := &models.Order{TotalAmount: 1200, PaymentPlan: enums.PaymentPlanFullPayment}
	assert.ErrorIs(t, PlanInstallments(order, 0), ErrInvalidInstallmentMonths)
	assert.Equal(t, enums.PaymentPlanFullPayment, order.PaymentPlan)
	assert.Zero(t, order.InstallmentMonths)
}

func TestPlanInstallmentsFullyPaidKeepsAmounts(t *testing.T) {
	order := &models.Order{TotalAmount: 300, AdvancePayment: 300}
	require.NoError(t, PlanInstallments(order, 3))
	assert.Zero(t, order.MonthlyInstallmentAmount)
	assert.Zero(t, order.RemainingPayment)
	assert.Equal(t, 3, order.InstallmentMonths)
}
