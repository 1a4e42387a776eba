package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/telvoralabs/telvora/internal/clock"
	custdomain "github.com/telvoralabs/telvora/internal/customer/domain"
	"github.com/telvoralabs/telvora/internal/ledger/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	CustRepo custdomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	custRepo custdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("ledger.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		custRepo: p.CustRepo,
	}
}

func (s *Service) Post(ctx context.Context, req domain.PostRequest) (*domain.Response, error) {
	txn, err := s.buildEntry(ctx, s.db, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, s.db, txn); err != nil {
		return nil, err
	}

	s.log.Info("transaction posted",
		zap.String("transaction_id", txn.ID.String()),
		zap.String("customer_id", txn.CustomerID.String()),
		zap.String("type", string(txn.Type)),
	)
	resp := s.toResponse(txn)
	return &resp, nil
}

// PostBatch runs one database transaction and wraps every entry in a
// named savepoint. An entry failing validation or insertion rolls back to
// its savepoint, so the commit carries exactly the entries that passed.
func (s *Service) PostBatch(ctx context.Context, req domain.BatchRequest) (*domain.BatchResponse, error) {
	if len(req.Entries) == 0 {
		return nil, domain.ErrEmptyBatch
	}

	result := &domain.BatchResponse{
		Posted:   make([]domain.Response, 0, len(req.Entries)),
		Rejected: make([]domain.BatchEntryError, 0),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i, entry := range req.Entries {
			sp := fmt.Sprintf("txn_entry_%d", i)
			if err := tx.SavePoint(sp).Error; err != nil {
				return err
			}

			txn, err := s.buildEntry(ctx, tx, entry)
			if err == nil {
				err = s.repo.Create(ctx, tx, txn)
			}
			if err != nil {
				if rbErr := tx.RollbackTo(sp).Error; rbErr != nil {
					return rbErr
				}
				result.Rejected = append(result.Rejected, domain.BatchEntryError{
					Index:  i,
					Reason: err.Error(),
				})
				continue
			}

			result.Posted = append(result.Posted, s.toResponse(txn))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("transaction batch posted",
		zap.Int("posted", len(result.Posted)),
		zap.Int("rejected", len(result.Rejected)),
	)
	return result, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	txns, err := s.repo.List(ctx, s.db, req)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(txns))
	for i := range txns {
		resp = append(resp, s.toResponse(&txns[i]))
	}
	return resp, nil
}

func (s *Service) buildEntry(ctx context.Context, db *gorm.DB, req domain.PostRequest) (*domain.Transaction, error) {
	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil {
		return nil, domain.ErrInvalidCustomer
	}
	customer, err := s.custRepo.FindByID(ctx, db, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrInvalidCustomer
	}

	txnType := domain.TransactionType(strings.TrimSpace(req.Type))
	if !domain.ValidType(txnType) {
		return nil, domain.ErrInvalidType
	}
	if req.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	status := domain.TransactionStatus(strings.TrimSpace(req.Status))
	if status == "" {
		status = domain.TransactionStatusPending
	}
	if !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	ts := req.Timestamp
	if ts.IsZero() {
		ts = s.clock.Now()
	}

	return &domain.Transaction{
		ID:         s.genID.Generate(),
		CustomerID: customerID,
		Type:       txnType,
		Amount:     req.Amount,
		Status:     status,
		Reference:  ulid.MustNew(ulid.Timestamp(ts.UTC()), rand.Reader).String(),
		Timestamp:  ts.UTC(),
	}, nil
}

func (s *Service) toResponse(t *domain.Transaction) domain.Response {
	return domain.Response{
		ID:         t.ID.String(),
		CustomerID: t.CustomerID.String(),
		Type:       t.Type,
		Amount:     t.Amount,
		Status:     t.Status,
		Reference:  t.Reference,
		Timestamp:  t.Timestamp,
	}
}
