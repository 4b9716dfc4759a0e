package customers

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/totofurniture/furnistore-backend/pkg/db/dbtest"
	"github.com/totofurniture/furnistore-backend/pkg/db/models"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
	pkgerrors "github.com/totofurniture/furnistore-backend/pkg/errors"
	"github.com/totofurniture/furnistore-backend/pkg/logger"
	"github.com/totofurniture/furnistore-backend/pkg/outbox"
	"github.com/totofurniture/furnistore-backend/pkg/outbox/payloads"
)

var fixedNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func strPtr(v string) *string { return &v }

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	client, conn := dbtest.Client(t)
	svc, err := NewService(ServiceParams{
		Repo:   NewRepository(conn),
		DB:     client,
		Logger: logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Now:    func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return svc, conn
}

func seedOrders(t *testing.T, conn *gorm.DB, customerID uuid.UUID, dates ...time.Time) {
	t.Helper()
	for _, d := range dates {
		order := &models.Order{
			CustomerID:    customerID,
			OrderDate:     d,
			Status:        enums.OrderStatusPending,
			PaymentPlan:   enums.PaymentPlanFullPayment,
			PaymentStatus: enums.PaymentStatusPending,
		}
		require.NoError(t, conn.Omit(clause.Associations).Create(order).Error)
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}

func TestService_CreateAppliesDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CustomerInput{FirstName: "Ayesha", LastName: "Khan"})
	require.NoError(t, err)
	assert.Equal(t, enums.CustomerStatusActive, created.Status)
	assert.Equal(t, enums.CustomerTypeFirstTime, created.CustomerType)
	assert.True(t, created.RegistrationDate.Equal(fixedNow))
	assert.Equal(t, "Ayesha Khan", created.FullName)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.RegistrationDate.Equal(fixedNow))

	updated, err := svc.Update(ctx, created.ID, CustomerInput{FirstName: "Ayesha", LastName: "Malik", CustomerType: enums.CustomerTypeRegular})
	require.NoError(t, err)
	assert.Equal(t, enums.CustomerTypeRegular, updated.CustomerType)
	assert.True(t, updated.RegistrationDate.Equal(fixedNow))

	missing, err := svc.Get(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestService_CreateRejectsInvalidInput(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CustomerInput{FirstName: "Only"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestService_UpgradeToVIPAtFiveOrders(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	four, err := svc.Create(ctx, CustomerInput{FirstName: "Four", LastName: "Orders"})
	require.NoError(t, err)
	five, err := svc.Create(ctx, CustomerInput{FirstName: "Five", LastName: "Orders"})
	require.NoError(t, err)

	day := fixedNow.AddDate(0, -1, 0)
	seedOrders(t, conn, four.ID, day, day, day, day)
	seedOrders(t, conn, five.ID, day, day, day, day, day)

	upgraded, err := svc.UpgradeToVIPIfEligible(ctx, four.ID)
	require.NoError(t, err)
	assert.False(t, upgraded)

	upgraded, err = svc.UpgradeToVIPIfEligible(ctx, five.ID)
	require.NoError(t, err)
	assert.True(t, upgraded)

	got, err := svc.Get(ctx, five.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.CustomerTypeVIP, got.CustomerType)

	upgraded, err = svc.UpgradeToVIPIfEligible(ctx, five.ID)
	require.NoError(t, err)
	assert.False(t, upgraded)

	upgraded, err = svc.UpgradeToVIPIfEligible(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, upgraded)
}

func TestService_UpgradeEligibleToVIP(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, CustomerInput{FirstName: "A", LastName: "A"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CustomerInput{FirstName: "B", LastName: "B"})
	require.NoError(t, err)
	day := fixedNow.AddDate(0, 0, -3)
	seedOrders(t, conn, a.ID, day, day, day, day, day, day)

	n, err := svc.UpgradeEligibleToVIP(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	vips, err := svc.Find(ctx, VIPs())
	require.NoError(t, err)
	require.Len(t, vips, 1)
	assert.Equal(t, a.ID, vips[0].ID)
}

func TestService_MarkInactiveCustomers(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	recent, err := svc.Create(ctx, CustomerInput{FirstName: "Recent", LastName: "Buyer"})
	require.NoError(t, err)
	stale, err := svc.Create(ctx, CustomerInput{FirstName: "Stale", LastName: "Buyer"})
	require.NoError(t, err)
	never, err := svc.Create(ctx, CustomerInput{FirstName: "Never", LastName: "Bought"})
	require.NoError(t, err)
	blocked, err := svc.Create(ctx, CustomerInput{FirstName: "Blocked", LastName: "Buyer", Status: enums.CustomerStatusBlocked})
	require.NoError(t, err)

	seedOrders(t, conn, recent.ID, fixedNow.AddDate(0, -2, 0))
	seedOrders(t, conn, stale.ID, fixedNow.AddDate(-2, 0, 0))

	n, err := svc.MarkInactiveCustomers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	expect := map[uuid.UUID]enums.CustomerStatus{
		recent.ID:  enums.CustomerStatusActive,
		stale.ID:   enums.CustomerStatusInactive,
		never.ID:   enums.CustomerStatusInactive,
		blocked.ID: enums.CustomerStatusBlocked,
	}
	for id, want := range expect {
		got, err := svc.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Status, "customer %s", got.FullName)
	}

	n, err = svc.MarkInactiveCustomers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestService_LoyaltyCountsOrders(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, CustomerInput{FirstName: "Loyal", LastName: "Customer", CustomerType: enums.CustomerTypeVIP})
	require.NoError(t, err)
	seedOrders(t, conn, c.ID, fixedNow, fixedNow)

	loyalty, err := svc.Loyalty(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), loyalty.OrderCount)
	assert.Equal(t, 40, loyalty.LoyaltyScore)

	_, err = svc.Loyalty(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestService_DeleteRemovesOrders(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, CustomerInput{FirstName: "Gone", LastName: "Soon"})
	require.NoError(t, err)
	seedOrders(t, conn, c.ID, fixedNow)

	var order models.Order
	require.NoError(t, conn.Where("customer_id = ?", c.ID).First(&order).Error)
	require.NoError(t, conn.Create(&models.LedgerEvent{
		OrderID:       order.ID,
		CustomerID:    c.ID,
		Type:          enums.LedgerEventPayment,
		PaymentStatus: enums.PaymentStatusPartial,
		Amount:        100,
	}).Error)

	require.NoError(t, svc.Delete(ctx, c.ID))

	var count int64
	require.NoError(t, conn.Model(&models.Order{}).Where("customer_id = ?", c.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, conn.Model(&models.LedgerEvent{}).Where("customer_id = ?", c.ID).Count(&count).Error)
	assert.Zero(t, count, "ledger rows go with their orders")

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestService_FindFilters(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	consent := true

	lahore, err := svc.Create(ctx, CustomerInput{
		FirstName:        "Bilal",
		LastName:         "Ahmed",
		City:             strPtr("Lahore"),
		Area:             strPtr("DHA Phase 5"),
		PrimaryPhone:     strPtr("03001234567"),
		CustomerType:     enums.CustomerTypeCorporate,
		MarketingConsent: true,
		ReferralSource:   strPtr("Facebook"),
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CustomerInput{FirstName: "Sana", LastName: "Iqbal", City: strPtr("Karachi")})
	require.NoError(t, err)
	seedOrders(t, conn, lahore.ID, fixedNow, fixedNow)

	cases := []struct {
		name   string
		filter Filter
		want   int
	}{
		{name: "full name", filter: Filter{FullNameContains: "lal ahm"}, want: 1},
		{name: "phone", filter: Filter{Phone: "03001234567"}, want: 1},
		{name: "city", filter: Filter{City: "lahore"}, want: 1},
		{name: "area", filter: Filter{AreaContains: "dha"}, want: 1},
		{name: "consent", filter: Filter{MarketingConsent: &consent}, want: 1},
		{name: "referral", filter: Filter{ReferralSource: "facebook"}, want: 1},
		{name: "no orders", filter: Filter{NoOrders: true}, want: 1},
		{name: "min orders", filter: Filter{MinOrders: intPtr(2)}, want: 1},
		{name: "min orders none", filter: Filter{MinOrders: intPtr(3)}, want: 0},
		{name: "city and type", filter: CityAndType("Lahore", enums.CustomerTypeCorporate), want: 1},
		{name: "registered window", filter: Filter{RegisteredFrom: timePtr(fixedNow.Add(-time.Hour)), RegisteredTo: timePtr(fixedNow.Add(time.Hour))}, want: 2},
		{name: "all", filter: Filter{}, want: 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := svc.Find(ctx, tc.filter)
			require.NoError(t, err)
			assert.Len(t, rows, tc.want)
		})
	}
}

func intPtr(v int) *int              { return &v }
func timePtr(v time.Time) *time.Time { return &v }

func TestService_VIPUpgradeQueuesOutboxEvent(t *testing.T) {
	client, conn := dbtest.Client(t)
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	outboxRepo := outbox.NewRepository(conn)
	svc, err := NewService(ServiceParams{
		Repo:   NewRepository(conn),
		DB:     client,
		Events: outbox.NewService(outboxRepo, logg),
		Logger: logg,
		Now:    func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	ctx := context.Background()

	c, err := svc.Create(ctx, CustomerInput{FirstName: "Zara", LastName: "Khan"})
	require.NoError(t, err)
	day := fixedNow.AddDate(0, -1, 0)
	seedOrders(t, conn, c.ID, day, day, day, day, day)

	n, err := svc.UpgradeEligibleToVIP(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	rows, err := outboxRepo.ListByAggregate(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, enums.EventCustomerVIPUpgraded, rows[0].EventType)
	assert.Equal(t, enums.AggregateCustomer, rows[0].AggregateType)

	var envelope outbox.PayloadEnvelope
	require.NoError(t, json.Unmarshal(rows[0].Payload, &envelope))
	var payload payloads.CustomerVIPUpgradedEvent
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))
	assert.EqualValues(t, 5, payload.OrderCount)
	assert.True(t, payload.UpgradedAt.Equal(fixedNow))
}
