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
	"github.com/telvoralabs/telvora/internal/clock"
	custdomain "github.com/telvoralabs/telvora/internal/customer/domain"
	"github.com/telvoralabs/telvora/internal/integrity"
	"github.com/telvoralabs/telvora/internal/plan/domain"
	planrepo "github.com/telvoralabs/telvora/internal/plan/repository"
	promodomain "github.com/telvoralabs/telvora/internal/promotion/domain"
	subdomain "github.com/telvoralabs/telvora/internal/subscription/domain"
	"github.com/telvoralabs/telvora/internal/usage/snapshot"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type planFixture struct {
	db    *gorm.DB
	svc   domain.Service
	genID *snowflake.Node
	clock *clock.FakeClock
}

func newPlanFixture(t *testing.T) *planFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.ServicePlan{},
		&custdomain.Customer{},
		&subdomain.Subscription{},
		&promodomain.Promotion{},
		&snapshot.UsagePlanSnapshot{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC))

	f := &planFixture{db: db, genID: node, clock: fake}
	f.svc = New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  planrepo.Provide(),
	})
	return f
}

func TestCreatePlan_SlugCodeAndDefaults(t *testing.T) {
	f := newPlanFixture(t)

	resp, err := f.svc.Create(context.Background(), domain.CreateRequest{
		Name:  "Unlimited Data Plus",
		Price: 49900,
	})
	require.NoError(t, err)
	assert.Equal(t, "unlimited-data-plus", resp.Code)
	assert.Equal(t, 30, resp.ValidityDays)
	assert.Equal(t, domain.PlanStatusActive, resp.Status)
}

func TestCreatePlan_Validation(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateRequest{Name: "   ", Price: 100})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = f.svc.Create(ctx, domain.CreateRequest{Name: "Free Plan", Price: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = f.svc.Create(ctx, domain.CreateRequest{Name: "Negative", Price: -100})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = f.svc.Create(ctx, domain.CreateRequest{Name: "Bad Allowance", Price: 100, DataLimitMB: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidAllowance)
}

func TestCreatePlan_DuplicateCode(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateRequest{Name: "Basic Talk", Price: 9900})
	require.NoError(t, err)

	// Same slug even though casing differs.
	_, err = f.svc.Create(ctx, domain.CreateRequest{Name: "BASIC talk", Price: 12900})
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)
}

func TestUpdatePlan(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateRequest{Name: "Basic Talk", Price: 9900})
	require.NoError(t, err)

	newPrice := int64(12900)
	inactive := "inactive"
	resp, err := f.svc.Update(ctx, domain.UpdateRequest{
		ID:     created.ID,
		Price:  &newPrice,
		Status: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, newPrice, resp.Price)
	assert.Equal(t, domain.PlanStatusInactive, resp.Status)

	badPrice := int64(0)
	_, err = f.svc.Update(ctx, domain.UpdateRequest{ID: created.ID, Price: &badPrice})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestDeletePlan_RestrictedBySubscription(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateRequest{Name: "Basic Talk", Price: 9900})
	require.NoError(t, err)
	planID, err := snowflake.ParseString(created.ID)
	require.NoError(t, err)

	customerID := f.genID.Generate()
	require.NoError(t, f.db.Create(&custdomain.Customer{
		ID: customerID, Name: "Anna Larsen", Phone: "+4740000001",
		Email: "anna@example.com", LocationID: f.genID.Generate(),
		RegistrationDate: f.clock.Now(), Status: custdomain.CustomerStatusActive,
	}).Error)
	subID := f.genID.Generate()
	require.NoError(t, f.db.Create(&subdomain.Subscription{
		ID: subID, CustomerID: customerID, PlanID: planID,
		StartDate: f.clock.Now(), EndDate: f.clock.Now().AddDate(1, 0, 0),
		Status: subdomain.SubscriptionStatusActive,
	}).Error)

	err = f.svc.Delete(ctx, created.ID)
	var restricted *integrity.RestrictedError
	require.ErrorAs(t, err, &restricted)
	assert.Equal(t, "subscriptions", restricted.ChildTable)

	require.NoError(t, f.db.Delete(&subdomain.Subscription{}, "id = ?", subID).Error)
	require.NoError(t, f.svc.Delete(ctx, created.ID))

	_, err = f.svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
