package snapshot

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
	plandomain "github.com/telvoralabs/telvora/internal/plan/domain"
	subdomain "github.com/telvoralabs/telvora/internal/subscription/domain"
	usagedomain "github.com/telvoralabs/telvora/internal/usage/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type snapshotFixture struct {
	db        *gorm.DB
	refresher *Refresher
	genID     *snowflake.Node
	clock     *clock.FakeClock

	planID snowflake.ID
	subID  snowflake.ID
}

func newSnapshotFixture(t *testing.T) *snapshotFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&plandomain.ServicePlan{},
		&custdomain.Customer{},
		&subdomain.Subscription{},
		&usagedomain.UsageRecord{},
		&UsagePlanSnapshot{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, 5, 1, 6, 0, 0, 0, time.UTC))

	f := &snapshotFixture{db: db, genID: node, clock: fake}
	f.refresher = New(Params{DB: db, Log: zap.NewNop(), GenID: node, Clock: fake})

	f.planID = node.Generate()
	require.NoError(t, db.Create(&plandomain.ServicePlan{
		ID: f.planID, Name: "Unlimited Data", Code: "unlimited-data",
		Price: 49900, ValidityDays: 30, Status: plandomain.PlanStatusActive,
	}).Error)

	customerID := node.Generate()
	require.NoError(t, db.Create(&custdomain.Customer{
		ID: customerID, Name: "Anna Larsen", Phone: "+4740000001",
		Email: "anna@example.com", LocationID: node.Generate(),
		RegistrationDate: fake.Now(), Status: custdomain.CustomerStatusActive,
	}).Error)

	f.subID = node.Generate()
	require.NoError(t, db.Create(&subdomain.Subscription{
		ID: f.subID, CustomerID: customerID, PlanID: f.planID,
		StartDate: fake.Now(), EndDate: fake.Now().AddDate(1, 0, 0),
		Status: subdomain.SubscriptionStatusActive,
	}).Error)

	return f
}

func (f *snapshotFixture) usage(t *testing.T, usageType usagedomain.UsageType, amount int64) {
	t.Helper()
	require.NoError(t, f.db.Create(&usagedomain.UsageRecord{
		ID: f.genID.Generate(), Type: usageType, Amount: amount,
		SubscriptionID:   f.subID,
		NetworkElementID: f.genID.Generate(),
		TimeID:           f.genID.Generate(),
	}).Error)
}

func TestRunOnce_AppendOnly(t *testing.T) {
	f := newSnapshotFixture(t)
	ctx := context.Background()

	f.usage(t, usagedomain.UsageTypeCall, 60)
	f.usage(t, usagedomain.UsageTypeData, 1024)

	plans, err := f.refresher.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, plans)

	f.clock.Advance(time.Hour)
	f.usage(t, usagedomain.UsageTypeSMS, 5)

	_, err = f.refresher.RunOnce(ctx)
	require.NoError(t, err)

	// Older generations stay in place.
	var total int64
	require.NoError(t, f.db.Model(&UsagePlanSnapshot{}).Count(&total).Error)
	assert.EqualValues(t, 2, total)

	var first UsagePlanSnapshot
	require.NoError(t, f.db.Order("generated_at").First(&first).Error)
	assert.EqualValues(t, 60, first.TotalCallMinutes)
	assert.EqualValues(t, 1024, first.TotalDataMB)
	assert.EqualValues(t, 0, first.TotalSMSCount)
}

func TestLatest_NewestGenerationPerPlan(t *testing.T) {
	f := newSnapshotFixture(t)
	ctx := context.Background()

	f.usage(t, usagedomain.UsageTypeCall, 60)
	_, err := f.refresher.RunOnce(ctx)
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	f.usage(t, usagedomain.UsageTypeCall, 30)
	_, err = f.refresher.RunOnce(ctx)
	require.NoError(t, err)

	rows, err := f.refresher.Latest(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, f.planID, rows[0].PlanID)
	assert.EqualValues(t, 90, rows[0].TotalCallMinutes)
	assert.Equal(t, f.clock.Now().UTC(), rows[0].GeneratedAt.UTC())
}

func TestRunOnce_PlanWithoutUsageGetsZeroRow(t *testing.T) {
	f := newSnapshotFixture(t)

	plans, err := f.refresher.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, plans)

	rows, err := f.refresher.Latest(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 0, rows[0].TotalCallMinutes)
	assert.EqualValues(t, 0, rows[0].TotalDataMB)
	assert.EqualValues(t, 0, rows[0].TotalSMSCount)
}
