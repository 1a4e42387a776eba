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
	"github.com/telvoralabs/telvora/internal/customer/domain"
	custrepo "github.com/telvoralabs/telvora/internal/customer/repository"
	"github.com/telvoralabs/telvora/internal/integrity"
	ledgerdomain "github.com/telvoralabs/telvora/internal/ledger/domain"
	plandomain "github.com/telvoralabs/telvora/internal/plan/domain"
	"github.com/telvoralabs/telvora/internal/reference"
	refdomain "github.com/telvoralabs/telvora/internal/reference/domain"
	subdomain "github.com/telvoralabs/telvora/internal/subscription/domain"
	supportdomain "github.com/telvoralabs/telvora/internal/support/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type customerFixture struct {
	db         *gorm.DB
	svc        domain.Service
	genID      *snowflake.Node
	clock      *clock.FakeClock
	locationID snowflake.ID
}

func newCustomerFixture(t *testing.T) *customerFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&refdomain.Location{},
		&domain.Customer{},
		&plandomain.ServicePlan{},
		&subdomain.Subscription{},
		&supportdomain.Ticket{},
		&ledgerdomain.Transaction{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC))

	f := &customerFixture{db: db, genID: node, clock: fake}
	f.svc = New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   fake,
		Repo:    custrepo.Provide(),
		RefRepo: reference.NewRepository(db),
	})

	f.locationID = node.Generate()
	require.NoError(t, db.Create(&refdomain.Location{
		ID:        f.locationID,
		City:      "Oslo",
		Country:   "Norway",
		CreatedAt: fake.Now(),
	}).Error)

	return f
}

func (f *customerFixture) create(t *testing.T, name, phone, email string) *domain.Response {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), domain.CreateRequest{
		Name:       name,
		Phone:      phone,
		Email:      email,
		LocationID: f.locationID.String(),
	})
	require.NoError(t, err)
	return resp
}

func TestCreateCustomer(t *testing.T) {
	f := newCustomerFixture(t)

	resp := f.create(t, "  Anna Larsen ", " +4740000001 ", "anna@example.com")
	assert.Equal(t, "Anna Larsen", resp.Name)
	assert.Equal(t, "+4740000001", resp.Phone)
	assert.Equal(t, domain.CustomerStatusActive, resp.Status)
	assert.Equal(t, f.clock.Now().UTC(), resp.RegistrationDate)
}

func TestCreateCustomer_EmailValidation(t *testing.T) {
	f := newCustomerFixture(t)

	for _, email := range []string{
		"",
		"plainaddress",
		"missing-domain@",
		"@missing-local.com",
		"no-dot-after-at@example",
		"two@@example.com",
	} {
		_, err := f.svc.Create(context.Background(), domain.CreateRequest{
			Name:       "Anna Larsen",
			Phone:      "+4740000001",
			Email:      email,
			LocationID: f.locationID.String(),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidEmail, "email %q", email)
	}
}

func TestCreateCustomer_DuplicatePhone(t *testing.T) {
	f := newCustomerFixture(t)
	f.create(t, "Anna Larsen", "+4740000001", "anna@example.com")

	_, err := f.svc.Create(context.Background(), domain.CreateRequest{
		Name:       "Erik Voss",
		Phone:      "+4740000001",
		Email:      "erik@example.com",
		LocationID: f.locationID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicatePhone)
}

func TestCreateCustomer_UnknownLocation(t *testing.T) {
	f := newCustomerFixture(t)

	_, err := f.svc.Create(context.Background(), domain.CreateRequest{
		Name:       "Anna Larsen",
		Phone:      "+4740000001",
		Email:      "anna@example.com",
		LocationID: f.genID.Generate().String(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidLocation)
}

func TestUpdateCustomer(t *testing.T) {
	f := newCustomerFixture(t)
	created := f.create(t, "Anna Larsen", "+4740000001", "anna@example.com")

	newEmail := "anna.larsen@example.com"
	inactive := "inactive"
	resp, err := f.svc.Update(context.Background(), domain.UpdateRequest{
		ID:     created.ID,
		Email:  &newEmail,
		Status: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, newEmail, resp.Email)
	assert.Equal(t, domain.CustomerStatusInactive, resp.Status)

	badEmail := "not-an-email"
	_, err = f.svc.Update(context.Background(), domain.UpdateRequest{ID: created.ID, Email: &badEmail})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	badStatus := "suspended"
	_, err = f.svc.Update(context.Background(), domain.UpdateRequest{ID: created.ID, Status: &badStatus})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestDeleteCustomer_RestrictedBySubscription(t *testing.T) {
	f := newCustomerFixture(t)
	ctx := context.Background()
	created := f.create(t, "Anna Larsen", "+4740000001", "anna@example.com")
	customerID, err := snowflake.ParseString(created.ID)
	require.NoError(t, err)

	planID := f.genID.Generate()
	require.NoError(t, f.db.Create(&plandomain.ServicePlan{
		ID: planID, Name: "Basic Talk", Code: "basic-talk", Price: 9900,
		ValidityDays: 30, Status: plandomain.PlanStatusActive,
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
	assert.Equal(t, "customers", restricted.ParentTable)
	assert.Equal(t, "subscriptions", restricted.ChildTable)

	// Once the dependent row is gone the delete goes through.
	require.NoError(t, f.db.Delete(&subdomain.Subscription{}, "id = ?", subID).Error)
	require.NoError(t, f.svc.Delete(ctx, created.ID))

	_, err = f.svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestValidEmail(t *testing.T) {
	assert.True(t, domain.ValidEmail("a@b.c"))
	assert.True(t, domain.ValidEmail("anna.larsen@sub.example.com"))
	assert.False(t, domain.ValidEmail("a@b"))
	assert.False(t, domain.ValidEmail("a.b@c@d.e"))
}
