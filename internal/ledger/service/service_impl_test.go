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
	ledgerdomain "github.com/telvoralabs/telvora/internal/ledger/domain"
	ledgerrepo "github.com/telvoralabs/telvora/internal/ledger/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ledgerFixture struct {
	db         *gorm.DB
	svc        ledgerdomain.Service
	genID      *snowflake.Node
	customerID snowflake.ID
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&custdomain.Customer{},
		&ledgerdomain.Transaction{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))

	f := &ledgerFixture{db: db, genID: node}
	f.svc = New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    fake,
		Repo:     ledgerrepo.Provide(),
		CustRepo: custrepo.Provide(),
	})

	f.customerID = node.Generate()
	require.NoError(t, db.Create(&custdomain.Customer{
		ID:               f.customerID,
		Name:             "Erik Voss",
		Phone:            "+4740000002",
		Email:            "erik@example.com",
		LocationID:       node.Generate(),
		RegistrationDate: fake.Now(),
		Status:           custdomain.CustomerStatusActive,
	}).Error)

	return f
}

func (f *ledgerFixture) countRows(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&ledgerdomain.Transaction{}).Count(&count).Error)
	return count
}

func TestPost_ValidTransaction(t *testing.T) {
	f := newLedgerFixture(t)

	resp, err := f.svc.Post(context.Background(), ledgerdomain.PostRequest{
		CustomerID: f.customerID.String(),
		Type:       "deposit",
		Amount:     5000,
		Status:     "completed",
	})
	require.NoError(t, err)
	assert.Equal(t, ledgerdomain.TransactionTypeDeposit, resp.Type)
	assert.NotEmpty(t, resp.Reference)
	assert.EqualValues(t, 1, f.countRows(t))
}

func TestPostBatch_InvalidEntriesRolledBackValidCommitted(t *testing.T) {
	f := newLedgerFixture(t)

	resp, err := f.svc.PostBatch(context.Background(), ledgerdomain.BatchRequest{
		Entries: []ledgerdomain.PostRequest{
			{CustomerID: f.customerID.String(), Type: "deposit", Amount: 1000},
			{CustomerID: f.customerID.String(), Type: "withdraw", Amount: -50},
			{CustomerID: f.genID.Generate().String(), Type: "deposit", Amount: 200},
			{CustomerID: f.customerID.String(), Type: "transfer", Amount: 300, Status: "completed"},
			{CustomerID: f.customerID.String(), Type: "wire", Amount: 400},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Posted, 2)
	require.Len(t, resp.Rejected, 3)

	// Rejections keep their input positions.
	assert.Equal(t, 1, resp.Rejected[0].Index)
	assert.Equal(t, 2, resp.Rejected[1].Index)
	assert.Equal(t, 4, resp.Rejected[2].Index)
	assert.Equal(t, ledgerdomain.ErrInvalidAmount.Error(), resp.Rejected[0].Reason)
	assert.Equal(t, ledgerdomain.ErrInvalidCustomer.Error(), resp.Rejected[1].Reason)
	assert.Equal(t, ledgerdomain.ErrInvalidType.Error(), resp.Rejected[2].Reason)

	// Exactly the valid entries were committed.
	assert.EqualValues(t, 2, f.countRows(t))
}

func TestPostBatch_AllValidEntriesCommit(t *testing.T) {
	f := newLedgerFixture(t)

	resp, err := f.svc.PostBatch(context.Background(), ledgerdomain.BatchRequest{
		Entries: []ledgerdomain.PostRequest{
			{CustomerID: f.customerID.String(), Type: "deposit", Amount: 100},
			{CustomerID: f.customerID.String(), Type: "withdraw", Amount: 50},
		},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Posted, 2)
	assert.Empty(t, resp.Rejected)
	assert.EqualValues(t, 2, f.countRows(t))

	// Defaulted status is pending.
	assert.Equal(t, ledgerdomain.TransactionStatusPending, resp.Posted[0].Status)
}

func TestPostBatch_EmptyBatch(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.svc.PostBatch(context.Background(), ledgerdomain.BatchRequest{})
	assert.ErrorIs(t, err, ledgerdomain.ErrEmptyBatch)
}

func TestList_FilterByType(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	for _, txnType := range []string{"deposit", "deposit", "withdraw"} {
		_, err := f.svc.Post(ctx, ledgerdomain.PostRequest{
			CustomerID: f.customerID.String(),
			Type:       txnType,
			Amount:     100,
		})
		require.NoError(t, err)
	}

	deposits, err := f.svc.List(ctx, ledgerdomain.ListRequest{Type: "deposit"})
	require.NoError(t, err)
	assert.Len(t, deposits, 2)
}
