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
	netdomain "github.com/telvoralabs/telvora/internal/network/domain"
	netrepo "github.com/telvoralabs/telvora/internal/network/repository"
	plandomain "github.com/telvoralabs/telvora/internal/plan/domain"
	"github.com/telvoralabs/telvora/internal/reference"
	refdomain "github.com/telvoralabs/telvora/internal/reference/domain"
	subdomain "github.com/telvoralabs/telvora/internal/subscription/domain"
	subrepo "github.com/telvoralabs/telvora/internal/subscription/repository"
	"github.com/telvoralabs/telvora/internal/usage/domain"
	usagerepo "github.com/telvoralabs/telvora/internal/usage/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type usageFixture struct {
	db    *gorm.DB
	svc   domain.Service
	genID *snowflake.Node
	clock *clock.FakeClock

	subscriptionID snowflake.ID
	elementID      snowflake.ID
}

func newUsageFixture(t *testing.T) *usageFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&plandomain.ServicePlan{},
		&custdomain.Customer{},
		&subdomain.Subscription{},
		&netdomain.NetworkElement{},
		&refdomain.TimeDimension{},
		&domain.UsageRecord{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, 5, 2, 9, 30, 0, 0, time.UTC))

	f := &usageFixture{db: db, genID: node, clock: fake}
	f.svc = New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   fake,
		Repo:    usagerepo.Provide(),
		SubRepo: subrepo.Provide(),
		NetRepo: netrepo.Provide(),
		RefRepo: reference.NewRepository(db),
	})

	planID := node.Generate()
	require.NoError(t, db.Create(&plandomain.ServicePlan{
		ID: planID, Name: "Unlimited Data", Code: "unlimited-data",
		Price: 49900, ValidityDays: 30, Status: plandomain.PlanStatusActive,
	}).Error)

	customerID := node.Generate()
	require.NoError(t, db.Create(&custdomain.Customer{
		ID: customerID, Name: "Anna Larsen", Phone: "+4740000001",
		Email: "anna@example.com", LocationID: node.Generate(),
		RegistrationDate: fake.Now(), Status: custdomain.CustomerStatusActive,
	}).Error)

	f.subscriptionID = node.Generate()
	require.NoError(t, db.Create(&subdomain.Subscription{
		ID: f.subscriptionID, CustomerID: customerID, PlanID: planID,
		StartDate: fake.Now(), EndDate: fake.Now().AddDate(1, 0, 0),
		Status: subdomain.SubscriptionStatusActive,
	}).Error)

	f.elementID = node.Generate()
	require.NoError(t, db.Create(&netdomain.NetworkElement{
		ID: f.elementID, Type: netdomain.ElementTypeTower,
		Status:     netdomain.ElementStatusActive,
		LocationID: node.Generate(), EmployeeID: node.Generate(),
	}).Error)

	return f
}

func TestIngest(t *testing.T) {
	f := newUsageFixture(t)

	ts := time.Date(2025, 5, 2, 18, 45, 12, 0, time.UTC)
	resp, err := f.svc.Ingest(context.Background(), domain.IngestRequest{
		Type:             "call",
		Amount:           12,
		SubscriptionID:   f.subscriptionID.String(),
		NetworkElementID: f.elementID.String(),
		Timestamp:        ts,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.UsageTypeCall, resp.Type)
	assert.Equal(t, ts, resp.Timestamp)
	assert.Equal(t, "Friday", resp.DayOfWeek)
	assert.Equal(t, "evening", resp.PartOfDay)
}

func TestIngest_Validation(t *testing.T) {
	f := newUsageFixture(t)
	ctx := context.Background()

	valid := domain.IngestRequest{
		Type:             "data",
		Amount:           256,
		SubscriptionID:   f.subscriptionID.String(),
		NetworkElementID: f.elementID.String(),
	}

	req := valid
	req.Type = "roaming"
	_, err := f.svc.Ingest(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidType)

	req = valid
	req.Amount = 0
	_, err = f.svc.Ingest(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	req = valid
	req.SubscriptionID = f.genID.Generate().String()
	_, err = f.svc.Ingest(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidSubscription)

	req = valid
	req.NetworkElementID = f.genID.Generate().String()
	_, err = f.svc.Ingest(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidElement)
}

func TestIngest_ReusesTimeRowForSameInstant(t *testing.T) {
	f := newUsageFixture(t)
	ctx := context.Background()

	ts := time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)
	for _, usageType := range []string{"call", "sms"} {
		_, err := f.svc.Ingest(ctx, domain.IngestRequest{
			Type:             usageType,
			Amount:           1,
			SubscriptionID:   f.subscriptionID.String(),
			NetworkElementID: f.elementID.String(),
			Timestamp:        ts,
		})
		require.NoError(t, err)
	}

	var timeRows int64
	require.NoError(t, f.db.Model(&refdomain.TimeDimension{}).Count(&timeRows).Error)
	assert.EqualValues(t, 1, timeRows)

	var usageRows int64
	require.NoError(t, f.db.Model(&domain.UsageRecord{}).Count(&usageRows).Error)
	assert.EqualValues(t, 2, usageRows)
}

func TestIngest_ZeroTimestampUsesClock(t *testing.T) {
	f := newUsageFixture(t)

	resp, err := f.svc.Ingest(context.Background(), domain.IngestRequest{
		Type:             "sms",
		Amount:           3,
		SubscriptionID:   f.subscriptionID.String(),
		NetworkElementID: f.elementID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, f.clock.Now().UTC().Truncate(time.Second), resp.Timestamp)
	assert.Equal(t, "morning", resp.PartOfDay)
}

func TestList_FilterByType(t *testing.T) {
	f := newUsageFixture(t)
	ctx := context.Background()

	for _, usageType := range []string{"call", "call", "data"} {
		_, err := f.svc.Ingest(ctx, domain.IngestRequest{
			Type:             usageType,
			Amount:           10,
			SubscriptionID:   f.subscriptionID.String(),
			NetworkElementID: f.elementID.String(),
		})
		require.NoError(t, err)
		f.clock.Advance(time.Minute)
	}

	calls, err := f.svc.List(ctx, domain.ListRequest{Type: "call"})
	require.NoError(t, err)
	assert.Len(t, calls, 2)
}
