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
	custrepo "github.com/telvoralabs/telvora/internal/customer/repository"
	netdomain "github.com/telvoralabs/telvora/internal/network/domain"
	netrepo "github.com/telvoralabs/telvora/internal/network/repository"
	"github.com/telvoralabs/telvora/internal/support/domain"
	supportrepo "github.com/telvoralabs/telvora/internal/support/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type supportFixture struct {
	db    *gorm.DB
	svc   domain.Service
	genID *snowflake.Node
	clock *clock.FakeClock

	customerID snowflake.ID
	employeeID snowflake.ID
}

func newSupportFixture(t *testing.T) *supportFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&custdomain.Customer{},
		&netdomain.Employee{},
		&domain.Ticket{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, 4, 7, 9, 0, 0, 0, time.UTC))

	f := &supportFixture{db: db, genID: node, clock: fake}
	f.svc = New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    fake,
		Repo:     supportrepo.Provide(),
		CustRepo: custrepo.Provide(),
		NetRepo:  netrepo.Provide(),
	})

	f.customerID = node.Generate()
	require.NoError(t, db.Create(&custdomain.Customer{
		ID: f.customerID, Name: "Anna Larsen", Phone: "+4740000001",
		Email: "anna@example.com", LocationID: node.Generate(),
		RegistrationDate: fake.Now(), Status: custdomain.CustomerStatusActive,
	}).Error)

	f.employeeID = node.Generate()
	require.NoError(t, db.Create(&netdomain.Employee{
		ID: f.employeeID, Name: "Jonas Berg", Email: "jonas@telvora.example",
		Role: netdomain.EmployeeRoleSupport, Status: netdomain.EmployeeStatusActive,
	}).Error)

	return f
}

func (f *supportFixture) open(t *testing.T) *domain.Response {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), domain.CreateRequest{
		Type:       "technical",
		CustomerID: f.customerID.String(),
		EmployeeID: f.employeeID.String(),
	})
	require.NoError(t, err)
	return resp
}

func TestCreateTicket(t *testing.T) {
	f := newSupportFixture(t)

	resp := f.open(t)
	assert.Equal(t, domain.TicketStatusOpen, resp.Status)
	assert.Nil(t, resp.Priority)
	assert.Nil(t, resp.ClosedAt)
}

func TestCreateTicket_Validation(t *testing.T) {
	f := newSupportFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateRequest{
		Type:       "complaint",
		CustomerID: f.customerID.String(),
		EmployeeID: f.employeeID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidType)

	urgent := "urgent"
	_, err = f.svc.Create(ctx, domain.CreateRequest{
		Type:       "billing",
		Priority:   &urgent,
		CustomerID: f.customerID.String(),
		EmployeeID: f.employeeID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)

	_, err = f.svc.Create(ctx, domain.CreateRequest{
		Type:       "billing",
		CustomerID: f.genID.Generate().String(),
		EmployeeID: f.employeeID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCustomer)

	_, err = f.svc.Create(ctx, domain.CreateRequest{
		Type:       "billing",
		CustomerID: f.customerID.String(),
		EmployeeID: f.genID.Generate().String(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidEmployee)
}

func TestUpdateStatus_CloseSetsClosedAt(t *testing.T) {
	f := newSupportFixture(t)
	ctx := context.Background()
	created := f.open(t)

	resp, err := f.svc.UpdateStatus(ctx, domain.UpdateStatusRequest{
		ID:     created.ID,
		Status: "in_progress",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, resp.Status)
	assert.Nil(t, resp.ClosedAt)

	f.clock.Advance(3 * time.Hour)
	resp, err = f.svc.UpdateStatus(ctx, domain.UpdateStatusRequest{
		ID:     created.ID,
		Status: "closed",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.ClosedAt)
	assert.Equal(t, f.clock.Now().UTC(), *resp.ClosedAt)
}

func TestUpdateStatus_TransitionRules(t *testing.T) {
	f := newSupportFixture(t)
	ctx := context.Background()
	created := f.open(t)

	_, err := f.svc.UpdateStatus(ctx, domain.UpdateStatusRequest{ID: created.ID, Status: "closed"})
	require.NoError(t, err)

	// Closed is terminal.
	for _, status := range []string{"open", "in_progress", "closed"} {
		_, err = f.svc.UpdateStatus(ctx, domain.UpdateStatusRequest{ID: created.ID, Status: status})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "to %s", status)
	}

	_, err = f.svc.UpdateStatus(ctx, domain.UpdateStatusRequest{ID: created.ID, Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestValidTransition(t *testing.T) {
	assert.True(t, domain.ValidTransition(domain.TicketStatusOpen, domain.TicketStatusInProgress))
	assert.True(t, domain.ValidTransition(domain.TicketStatusOpen, domain.TicketStatusClosed))
	assert.True(t, domain.ValidTransition(domain.TicketStatusInProgress, domain.TicketStatusClosed))
	assert.False(t, domain.ValidTransition(domain.TicketStatusInProgress, domain.TicketStatusOpen))
	assert.False(t, domain.ValidTransition(domain.TicketStatusClosed, domain.TicketStatusOpen))
}
