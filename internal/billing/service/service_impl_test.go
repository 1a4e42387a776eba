package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	billingdomain "github.com/telvoralabs/telvora/internal/billing/domain"
	billingrepo "github.com/telvoralabs/telvora/internal/billing/repository"
	"github.com/telvoralabs/telvora/internal/clock"
	custdomain "github.com/telvoralabs/telvora/internal/customer/domain"
	custrepo "github.com/telvoralabs/telvora/internal/customer/repository"
	plandomain "github.com/telvoralabs/telvora/internal/plan/domain"
	subdomain "github.com/telvoralabs/telvora/internal/subscription/domain"
	subrepo "github.com/telvoralabs/telvora/internal/subscription/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type billingFixture struct {
	db    *gorm.DB
	svc   billingdomain.Service
	genID *snowflake.Node
	clock *clock.FakeClock

	customerID     snowflake.ID
	planID         snowflake.ID
	subscriptionID snowflake.ID
}

func newBillingFixture(t *testing.T) *billingFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&plandomain.ServicePlan{},
		&custdomain.Customer{},
		&subdomain.Subscription{},
		&billingdomain.Billing{},
		&billingdomain.Payment{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	f := &billingFixture{
		db:    db,
		genID: node,
		clock: fake,
	}
	f.svc = New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    fake,
		Repo:     billingrepo.Provide(),
		SubRepo:  subrepo.Provide(),
		CustRepo: custrepo.Provide(),
	})

	f.planID = node.Generate()
	require.NoError(t, db.Create(&plandomain.ServicePlan{
		ID:           f.planID,
		Name:         "Unlimited Data",
		Code:         "unlimited-data",
		Price:        49900,
		ValidityDays: 30,
		Status:       plandomain.PlanStatusActive,
	}).Error)

	f.customerID = node.Generate()
	require.NoError(t, db.Create(&custdomain.Customer{
		ID:               f.customerID,
		Name:             "Anna Larsen",
		Phone:            "+4740000001",
		Email:            "anna@example.com",
		LocationID:       node.Generate(),
		RegistrationDate: fake.Now(),
		Status:           custdomain.CustomerStatusActive,
	}).Error)

	f.subscriptionID = node.Generate()
	require.NoError(t, db.Create(&subdomain.Subscription{
		ID:         f.subscriptionID,
		CustomerID: f.customerID,
		PlanID:     f.planID,
		StartDate:  fake.Now().AddDate(0, -1, 0),
		EndDate:    fake.Now().AddDate(0, 11, 0),
		Status:     subdomain.SubscriptionStatusActive,
	}).Error)

	return f
}

func (f *billingFixture) createBilling(t *testing.T, total, discount int64) *billingdomain.BillingResponse {
	t.Helper()
	resp, err := f.svc.CreateBilling(context.Background(), billingdomain.CreateBillingRequest{
		SubscriptionID: f.subscriptionID.String(),
		PeriodStart:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		TotalAmount:    total,
		DiscountAmount: discount,
	})
	require.NoError(t, err)
	return resp
}

func TestCreateBilling_FinalAmountDerived(t *testing.T) {
	f := newBillingFixture(t)

	resp := f.createBilling(t, 49900, 5000)
	assert.Equal(t, int64(44900), resp.FinalAmount)
	assert.Equal(t, billingdomain.BillingStatusPending, resp.Status)

	// Due date defaults to issue date + 14 days.
	assert.Equal(t, f.clock.Now().AddDate(0, 0, 14), resp.DueDate)

	// No discount behaves as discount zero.
	resp = f.createBilling(t, 19900, 0)
	assert.Equal(t, int64(19900), resp.FinalAmount)
}

func TestCreateBilling_Validation(t *testing.T) {
	f := newBillingFixture(t)

	_, err := f.svc.CreateBilling(context.Background(), billingdomain.CreateBillingRequest{
		SubscriptionID: f.subscriptionID.String(),
		PeriodStart:    time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		TotalAmount:    100,
	})
	assert.ErrorIs(t, err, billingdomain.ErrInvalidPeriod)

	_, err = f.svc.CreateBilling(context.Background(), billingdomain.CreateBillingRequest{
		SubscriptionID: f.subscriptionID.String(),
		PeriodStart:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		TotalAmount:    100,
		DiscountAmount: 200,
	})
	assert.ErrorIs(t, err, billingdomain.ErrInvalidAmount)

	_, err = f.svc.CreateBilling(context.Background(), billingdomain.CreateBillingRequest{
		SubscriptionID: f.genID.Generate().String(),
		PeriodStart:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		TotalAmount:    100,
	})
	assert.ErrorIs(t, err, billingdomain.ErrInvalidSubscription)
}

func TestRecordPayment_CompletedCoveringPaymentMarksPaid(t *testing.T) {
	f := newBillingFixture(t)
	billing := f.createBilling(t, 49900, 5000)

	payment, err := f.svc.RecordPayment(context.Background(), billingdomain.RecordPaymentRequest{
		BillingID:  billing.ID,
		AmountPaid: 44900,
		Status:     "completed",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, payment.Reference)

	got, err := f.svc.GetBilling(context.Background(), billing.ID)
	require.NoError(t, err)
	assert.Equal(t, billingdomain.BillingStatusPaid, got.Status)
}

func TestRecordPayment_PendingPaymentLeavesStatus(t *testing.T) {
	f := newBillingFixture(t)
	billing := f.createBilling(t, 49900, 0)

	_, err := f.svc.RecordPayment(context.Background(), billingdomain.RecordPaymentRequest{
		BillingID:  billing.ID,
		AmountPaid: 49900,
		Status:     "pending",
	})
	require.NoError(t, err)

	got, err := f.svc.GetBilling(context.Background(), billing.ID)
	require.NoError(t, err)
	assert.Equal(t, billingdomain.BillingStatusPending, got.Status)
}

func TestCustomerBillingSummary_ThreeNoteStates(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()

	// Fully paid: billing paid, payment completed.
	paid := f.createBilling(t, 49900, 5000)
	_, err := f.svc.RecordPayment(ctx, billingdomain.RecordPaymentRequest{
		BillingID:  paid.ID,
		AmountPaid: 44900,
		Status:     "completed",
	})
	require.NoError(t, err)

	// Pending payment: billing pending, payment pending.
	pending := f.createBilling(t, 19900, 0)
	_, err = f.svc.RecordPayment(ctx, billingdomain.RecordPaymentRequest{
		BillingID:  pending.ID,
		AmountPaid: 10000,
		Status:     "pending",
	})
	require.NoError(t, err)

	// Check status: unpaid billing with no payment at all.
	unpaid := f.createBilling(t, 9900, 0)
	_, err = f.svc.UpdateBillingStatus(ctx, unpaid.ID, "unpaid")
	require.NoError(t, err)

	rows, err := f.svc.CustomerBillingSummary(ctx, f.customerID.String())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	notes := make(map[string]string, len(rows))
	for _, row := range rows {
		notes[fmt.Sprintf("%d", row.BillingID)] = row.PaymentNote
		assert.Equal(t, "Unlimited Data", row.PlanName)
	}
	assert.Equal(t, billingdomain.NoteFullyPaid, notes[paid.ID])
	assert.Equal(t, billingdomain.NotePendingPayment, notes[pending.ID])
	assert.Equal(t, billingdomain.NoteCheckStatus, notes[unpaid.ID])

	// Missing payment leaves the payment columns NULL.
	for _, row := range rows {
		if fmt.Sprintf("%d", row.BillingID) == unpaid.ID {
			assert.Nil(t, row.PaymentStatus)
			assert.Nil(t, row.AmountPaid)
			assert.Equal(t, int64(9900), row.FinalAmount)
		}
	}
}

func TestCustomerBillingSummary_UnknownCustomer(t *testing.T) {
	f := newBillingFixture(t)

	_, err := f.svc.CustomerBillingSummary(context.Background(), f.genID.Generate().String())
	assert.ErrorIs(t, err, billingdomain.ErrInvalidCustomer)
}
