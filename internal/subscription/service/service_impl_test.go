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
	"github.com/telvoralabs/telvora/internal/clock"
	custdomain "github.com/telvoralabs/telvora/internal/customer/domain"
	custrepo "github.com/telvoralabs/telvora/internal/customer/repository"
	"github.com/telvoralabs/telvora/internal/integrity"
	plandomain "github.com/telvoralabs/telvora/internal/plan/domain"
	planrepo "github.com/telvoralabs/telvora/internal/plan/repository"
	promodomain "github.com/telvoralabs/telvora/internal/promotion/domain"
	promorepo "github.com/telvoralabs/telvora/internal/promotion/repository"
	"github.com/telvoralabs/telvora/internal/subscription/domain"
	subrepo "github.com/telvoralabs/telvora/internal/subscription/repository"
	usagedomain "github.com/telvoralabs/telvora/internal/usage/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type subscriptionFixture struct {
	db    *gorm.DB
	svc   domain.Service
	genID *snowflake.Node
	clock *clock.FakeClock

	customerID snowflake.ID
	planID     snowflake.ID
}

func newSubscriptionFixture(t *testing.T) *subscriptionFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&plandomain.ServicePlan{},
		&custdomain.Customer{},
		&domain.Subscription{},
		&domain.SubscriptionPromotion{},
		&promodomain.Promotion{},
		&usagedomain.UsageRecord{},
		&billingdomain.Billing{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC))

	f := &subscriptionFixture{db: db, genID: node, clock: fake}
	f.svc = New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     fake,
		Repo:      subrepo.Provide(),
		CustRepo:  custrepo.Provide(),
		PlanRepo:  planrepo.Provide(),
		PromoRepo: promorepo.Provide(),
	})

	f.planID = node.Generate()
	require.NoError(t, db.Create(&plandomain.ServicePlan{
		ID: f.planID, Name: "Unlimited Data", Code: "unlimited-data",
		Price: 49900, ValidityDays: 30, Status: plandomain.PlanStatusActive,
	}).Error)

	f.customerID = node.Generate()
	require.NoError(t, db.Create(&custdomain.Customer{
		ID: f.customerID, Name: "Anna Larsen", Phone: "+4740000001",
		Email: "anna@example.com", LocationID: node.Generate(),
		RegistrationDate: fake.Now(), Status: custdomain.CustomerStatusActive,
	}).Error)

	return f
}

func (f *subscriptionFixture) create(t *testing.T) *domain.Response {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), domain.CreateRequest{
		CustomerID: f.customerID.String(),
		PlanID:     f.planID.String(),
		StartDate:  time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return resp
}

func (f *subscriptionFixture) promotion(t *testing.T, planID snowflake.ID, status promodomain.PromotionStatus) snowflake.ID {
	t.Helper()
	id := f.genID.Generate()
	require.NoError(t, f.db.Create(&promodomain.Promotion{
		ID: id, Name: fmt.Sprintf("Promo %d", id), DiscountValue: 5000,
		StartDate: f.clock.Now().AddDate(0, -1, 0),
		EndDate:   f.clock.Now().AddDate(0, 5, 0),
		Status:    status, PlanID: planID,
	}).Error)
	return id
}

func TestCreateSubscription(t *testing.T) {
	f := newSubscriptionFixture(t)

	resp := f.create(t)
	assert.Equal(t, domain.SubscriptionStatusActive, resp.Status)
	assert.Equal(t, f.customerID.String(), resp.CustomerID)
}

func TestCreateSubscription_PeriodMustBeOrdered(t *testing.T) {
	f := newSubscriptionFixture(t)
	ctx := context.Background()

	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	for _, end := range []time.Time{start, start.AddDate(0, 0, -1), {}} {
		_, err := f.svc.Create(ctx, domain.CreateRequest{
			CustomerID: f.customerID.String(),
			PlanID:     f.planID.String(),
			StartDate:  start,
			EndDate:    end,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
	}
}

func TestCreateSubscription_UnknownParents(t *testing.T) {
	f := newSubscriptionFixture(t)
	ctx := context.Background()
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	_, err := f.svc.Create(ctx, domain.CreateRequest{
		CustomerID: f.genID.Generate().String(),
		PlanID:     f.planID.String(),
		StartDate:  start, EndDate: end,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCustomer)

	_, err = f.svc.Create(ctx, domain.CreateRequest{
		CustomerID: f.customerID.String(),
		PlanID:     f.genID.Generate().String(),
		StartDate:  start, EndDate: end,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPlan)
}

func TestCancelSubscription(t *testing.T) {
	f := newSubscriptionFixture(t)
	ctx := context.Background()
	created := f.create(t)

	resp, err := f.svc.Cancel(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionStatusCancelled, resp.Status)

	_, err = f.svc.Cancel(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
}

func TestApplyPromotion(t *testing.T) {
	f := newSubscriptionFixture(t)
	ctx := context.Background()
	created := f.create(t)
	promoID := f.promotion(t, f.planID, promodomain.PromotionStatusActive)

	resp, err := f.svc.ApplyPromotion(ctx, domain.ApplyPromotionRequest{
		SubscriptionID: created.ID,
		PromotionID:    promoID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, f.clock.Now().UTC(), resp.AppliedDate)

	// Applying the same promotion twice is rejected.
	_, err = f.svc.ApplyPromotion(ctx, domain.ApplyPromotionRequest{
		SubscriptionID: created.ID,
		PromotionID:    promoID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrPromotionApplied)
}

func TestApplyPromotion_PlanMismatch(t *testing.T) {
	f := newSubscriptionFixture(t)
	created := f.create(t)

	otherPlan := f.genID.Generate()
	require.NoError(t, f.db.Create(&plandomain.ServicePlan{
		ID: otherPlan, Name: "Basic Talk", Code: "basic-talk",
		Price: 9900, ValidityDays: 30, Status: plandomain.PlanStatusActive,
	}).Error)
	promoID := f.promotion(t, otherPlan, promodomain.PromotionStatusActive)

	_, err := f.svc.ApplyPromotion(context.Background(), domain.ApplyPromotionRequest{
		SubscriptionID: created.ID,
		PromotionID:    promoID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrPromotionPlanMatch)
}

func TestApplyPromotion_InactivePromotion(t *testing.T) {
	f := newSubscriptionFixture(t)
	created := f.create(t)
	promoID := f.promotion(t, f.planID, promodomain.PromotionStatusExpired)

	_, err := f.svc.ApplyPromotion(context.Background(), domain.ApplyPromotionRequest{
		SubscriptionID: created.ID,
		PromotionID:    promoID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrPromotionInactive)
}

func TestDeleteSubscription_RestrictedByBilling(t *testing.T) {
	f := newSubscriptionFixture(t)
	ctx := context.Background()
	created := f.create(t)
	subID, err := snowflake.ParseString(created.ID)
	require.NoError(t, err)

	billingID := f.genID.Generate()
	require.NoError(t, f.db.Create(&billingdomain.Billing{
		ID: billingID, SubscriptionID: subID,
		PeriodStart: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		IssueDate:   f.clock.Now(), DueDate: f.clock.Now().AddDate(0, 0, 14),
		TotalAmount: 49900, Status: billingdomain.BillingStatusPending,
	}).Error)

	err = f.svc.Delete(ctx, created.ID)
	var restricted *integrity.RestrictedError
	require.ErrorAs(t, err, &restricted)
	assert.Equal(t, "billing_records", restricted.ChildTable)
}

func TestDeleteSubscription_CascadesPromotionLinks(t *testing.T) {
	f := newSubscriptionFixture(t)
	ctx := context.Background()
	created := f.create(t)
	promoID := f.promotion(t, f.planID, promodomain.PromotionStatusActive)

	_, err := f.svc.ApplyPromotion(ctx, domain.ApplyPromotionRequest{
		SubscriptionID: created.ID,
		PromotionID:    promoID.String(),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID))

	var links int64
	require.NoError(t, f.db.Model(&domain.SubscriptionPromotion{}).Count(&links).Error)
	assert.EqualValues(t, 0, links)

	// The promotion itself survives.
	var promos int64
	require.NoError(t, f.db.Model(&promodomain.Promotion{}).Count(&promos).Error)
	assert.EqualValues(t, 1, promos)

	_, err = f.svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
