package service

import (
	"context"
	"crypto/rand"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/telvoralabs/telvora/internal/billing/domain"
	"github.com/telvoralabs/telvora/internal/clock"
	custdomain "github.com/telvoralabs/telvora/internal/customer/domain"
	"github.com/telvoralabs/telvora/internal/integrity"
	subdomain "github.com/telvoralabs/telvora/internal/subscription/domain"
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
	SubRepo  subdomain.Repository
	CustRepo custdomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	subRepo  subdomain.Repository
	custRepo custdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("billing.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		subRepo:  p.SubRepo,
		custRepo: p.CustRepo,
	}
}

func (s *Service) CreateBilling(ctx context.Context, req domain.CreateBillingRequest) (*domain.BillingResponse, error) {
	if req.PeriodStart.IsZero() || req.PeriodEnd.IsZero() || !req.PeriodStart.Before(req.PeriodEnd) {
		return nil, domain.ErrInvalidPeriod
	}
	if req.TotalAmount < 0 || req.DiscountAmount < 0 || req.DiscountAmount > req.TotalAmount {
		return nil, domain.ErrInvalidAmount
	}

	subscriptionID, err := snowflake.ParseString(strings.TrimSpace(req.SubscriptionID))
	if err != nil {
		return nil, domain.ErrInvalidSubscription
	}
	subscription, err := s.subRepo.FindByID(ctx, s.db, subscriptionID)
	if err != nil {
		return nil, err
	}
	if subscription == nil {
		return nil, domain.ErrInvalidSubscription
	}

	now := s.clock.Now().UTC()
	issueDate := req.IssueDate
	if issueDate.IsZero() {
		issueDate = now
	}
	dueDate := req.DueDate
	if dueDate.IsZero() {
		dueDate = issueDate.AddDate(0, 0, 14)
	}

	billing := &domain.Billing{
		ID:             s.genID.Generate(),
		SubscriptionID: subscriptionID,
		PeriodStart:    req.PeriodStart.UTC(),
		PeriodEnd:      req.PeriodEnd.UTC(),
		IssueDate:      issueDate.UTC(),
		DueDate:        dueDate.UTC(),
		TotalAmount:    req.TotalAmount,
		DiscountAmount: req.DiscountAmount,
		Status:         domain.BillingStatusPending,
		CreatedAt:      now,
	}
	if err := s.repo.CreateBilling(ctx, s.db, billing); err != nil {
		return nil, err
	}

	s.log.Info("billing created",
		zap.String("billing_id", billing.ID.String()),
		zap.String("subscription_id", subscriptionID.String()),
		zap.Int64("final_amount", billing.FinalAmount()),
	)
	resp := s.toBillingResponse(billing)
	return &resp, nil
}

func (s *Service) ListBillings(ctx context.Context, req domain.ListBillingsRequest) ([]domain.BillingResponse, error) {
	billings, err := s.repo.ListBillings(ctx, s.db, req)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.BillingResponse, 0, len(billings))
	for i := range billings {
		resp = append(resp, s.toBillingResponse(&billings[i]))
	}
	return resp, nil
}

func (s *Service) GetBilling(ctx context.Context, id string) (*domain.BillingResponse, error) {
	billingID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	billing, err := s.repo.FindBillingByID(ctx, s.db, billingID)
	if err != nil {
		return nil, err
	}
	if billing == nil {
		return nil, domain.ErrNotFound
	}

	resp := s.toBillingResponse(billing)
	return &resp, nil
}

func (s *Service) UpdateBillingStatus(ctx context.Context, id, status string) (*domain.BillingResponse, error) {
	billingID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	billingStatus := domain.BillingStatus(strings.TrimSpace(status))
	if !domain.ValidBillingStatus(billingStatus) {
		return nil, domain.ErrInvalidStatus
	}

	billing, err := s.repo.FindBillingByID(ctx, s.db, billingID)
	if err != nil {
		return nil, err
	}
	if billing == nil {
		return nil, domain.ErrNotFound
	}

	if err := s.repo.UpdateBillingStatus(ctx, s.db, billingID, billingStatus); err != nil {
		return nil, err
	}

	billing.Status = billingStatus
	resp := s.toBillingResponse(billing)
	return &resp, nil
}

func (s *Service) DeleteBilling(ctx context.Context, id string) error {
	billingID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	billing, err := s.repo.FindBillingByID(ctx, s.db, billingID)
	if err != nil {
		return err
	}
	if billing == nil {
		return domain.ErrNotFound
	}

	// Restricted while payments reference the bill.
	return s.db.Transaction(func(tx *gorm.DB) error {
		return integrity.DeleteParent(ctx, tx, domain.Billing{}.TableName(), billingID)
	})
}

func (s *Service) RecordPayment(ctx context.Context, req domain.RecordPaymentRequest) (*domain.PaymentResponse, error) {
	billingID, err := snowflake.ParseString(strings.TrimSpace(req.BillingID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	if req.AmountPaid < 0 {
		return nil, domain.ErrInvalidPayment
	}

	status := domain.PaymentStatus(strings.TrimSpace(req.Status))
	if status == "" {
		status = domain.PaymentStatusPending
	}
	if !domain.ValidPaymentStatus(status) {
		return nil, domain.ErrInvalidPayment
	}

	billing, err := s.repo.FindBillingByID(ctx, s.db, billingID)
	if err != nil {
		return nil, err
	}
	if billing == nil {
		return nil, domain.ErrNotFound
	}

	now := s.clock.Now().UTC()
	payment := &domain.Payment{
		ID:          s.genID.Generate(),
		BillingID:   billingID,
		PaymentDate: now,
		AmountPaid:  req.AmountPaid,
		Status:      status,
		Reference:   ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.CreatePayment(ctx, tx, payment); err != nil {
			return err
		}
		// A completed payment covering the bill marks it paid.
		if status == domain.PaymentStatusCompleted && req.AmountPaid >= billing.FinalAmount() {
			return s.repo.UpdateBillingStatus(ctx, tx, billingID, domain.BillingStatusPaid)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("billing_id", billingID.String()),
		zap.String("reference", payment.Reference),
	)
	return &domain.PaymentResponse{
		ID:          payment.ID.String(),
		BillingID:   payment.BillingID.String(),
		PaymentDate: payment.PaymentDate,
		AmountPaid:  payment.AmountPaid,
		Status:      payment.Status,
		Reference:   payment.Reference,
	}, nil
}

func (s *Service) CustomerBillingSummary(ctx context.Context, customerID string) ([]domain.SummaryRow, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(customerID))
	if err != nil {
		return nil, domain.ErrInvalidCustomer
	}

	customer, err := s.custRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrInvalidCustomer
	}

	return s.repo.CustomerBillingSummary(ctx, s.db, id)
}

func (s *Service) toBillingResponse(b *domain.Billing) domain.BillingResponse {
	return domain.BillingResponse{
		ID:             b.ID.String(),
		SubscriptionID: b.SubscriptionID.String(),
		PeriodStart:    b.PeriodStart,
		PeriodEnd:      b.PeriodEnd,
		IssueDate:      b.IssueDate,
		DueDate:        b.DueDate,
		TotalAmount:    b.TotalAmount,
		DiscountAmount: b.DiscountAmount,
		FinalAmount:    b.FinalAmount(),
		Status:         b.Status,
		CreatedAt:      b.CreatedAt,
	}
}
