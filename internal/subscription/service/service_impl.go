package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/telvoralabs/telvora/internal/clock"
	custdomain "github.com/telvoralabs/telvora/internal/customer/domain"
	"github.com/telvoralabs/telvora/internal/integrity"
	plandomain "github.com/telvoralabs/telvora/internal/plan/domain"
	promodomain "github.com/telvoralabs/telvora/internal/promotion/domain"
	"github.com/telvoralabs/telvora/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	CustRepo  custdomain.Repository
	PlanRepo  plandomain.Repository
	PromoRepo promodomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	custRepo  custdomain.Repository
	planRepo  plandomain.Repository
	promoRepo promodomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("subscription.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		custRepo:  p.CustRepo,
		planRepo:  p.PlanRepo,
		promoRepo: p.PromoRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	if req.StartDate.IsZero() || req.EndDate.IsZero() || !req.StartDate.Before(req.EndDate) {
		return nil, domain.ErrInvalidPeriod
	}

	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil {
		return nil, domain.ErrInvalidCustomer
	}
	customer, err := s.custRepo.FindByID(ctx, s.db, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrInvalidCustomer
	}

	planID, err := snowflake.ParseString(strings.TrimSpace(req.PlanID))
	if err != nil {
		return nil, domain.ErrInvalidPlan
	}
	plan, err := s.planRepo.FindByID(ctx, s.db, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrInvalidPlan
	}

	subscription := &domain.Subscription{
		ID:         s.genID.Generate(),
		CustomerID: customerID,
		PlanID:     planID,
		StartDate:  req.StartDate.UTC(),
		EndDate:    req.EndDate.UTC(),
		Status:     domain.SubscriptionStatusActive,
		CreatedAt:  s.clock.Now().UTC(),
	}
	if err := s.repo.Create(ctx, s.db, subscription); err != nil {
		return nil, err
	}

	s.log.Info("subscription created",
		zap.String("subscription_id", subscription.ID.String()),
		zap.String("customer_id", customerID.String()),
		zap.String("plan_id", planID.String()),
	)
	resp := s.toResponse(subscription)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	subscriptions, err := s.repo.List(ctx, s.db, req)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(subscriptions))
	for i := range subscriptions {
		resp = append(resp, s.toResponse(&subscriptions[i]))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	subscriptionID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	subscription, err := s.repo.FindByID(ctx, s.db, subscriptionID)
	if err != nil {
		return nil, err
	}
	if subscription == nil {
		return nil, domain.ErrNotFound
	}

	resp := s.toResponse(subscription)
	return &resp, nil
}

func (s *Service) Cancel(ctx context.Context, id string) (*domain.Response, error) {
	subscriptionID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	subscription, err := s.repo.FindByID(ctx, s.db, subscriptionID)
	if err != nil {
		return nil, err
	}
	if subscription == nil {
		return nil, domain.ErrNotFound
	}
	if subscription.Status == domain.SubscriptionStatusCancelled {
		return nil, domain.ErrAlreadyCancelled
	}

	if err := s.repo.UpdateStatus(ctx, s.db, subscriptionID, domain.SubscriptionStatusCancelled); err != nil {
		return nil, err
	}

	subscription.Status = domain.SubscriptionStatusCancelled
	resp := s.toResponse(subscription)
	return &resp, nil
}

func (s *Service) ApplyPromotion(ctx context.Context, req domain.ApplyPromotionRequest) (*domain.AppliedPromotionResponse, error) {
	subscriptionID, err := snowflake.ParseString(strings.TrimSpace(req.SubscriptionID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	promotionID, err := snowflake.ParseString(strings.TrimSpace(req.PromotionID))
	if err != nil {
		return nil, domain.ErrInvalidPromotion
	}

	subscription, err := s.repo.FindByID(ctx, s.db, subscriptionID)
	if err != nil {
		return nil, err
	}
	if subscription == nil {
		return nil, domain.ErrNotFound
	}

	promotion, err := s.promoRepo.FindByID(ctx, s.db, promotionID)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, domain.ErrInvalidPromotion
	}
	if promotion.Status != promodomain.PromotionStatusActive {
		return nil, domain.ErrPromotionInactive
	}
	// A promotion only discounts the plan it was created for.
	if promotion.PlanID != subscription.PlanID {
		return nil, domain.ErrPromotionPlanMatch
	}

	if existing, err := s.repo.FindAppliedPromotion(ctx, s.db, subscriptionID, promotionID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrPromotionApplied
	}

	link := &domain.SubscriptionPromotion{
		SubscriptionID: subscriptionID,
		PromotionID:    promotionID,
		AppliedDate:    s.clock.Now().UTC(),
	}
	if err := s.repo.ApplyPromotion(ctx, s.db, link); err != nil {
		return nil, err
	}

	s.log.Info("promotion applied",
		zap.String("subscription_id", subscriptionID.String()),
		zap.String("promotion_id", promotionID.String()),
	)
	return &domain.AppliedPromotionResponse{
		SubscriptionID: link.SubscriptionID.String(),
		PromotionID:    link.PromotionID.String(),
		AppliedDate:    link.AppliedDate,
	}, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	subscriptionID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	subscription, err := s.repo.FindByID(ctx, s.db, subscriptionID)
	if err != nil {
		return err
	}
	if subscription == nil {
		return domain.ErrNotFound
	}

	// Blocked while billing or usage rows reference the subscription;
	// otherwise the promotion links go with it.
	return s.db.Transaction(func(tx *gorm.DB) error {
		return integrity.DeleteParent(ctx, tx, domain.Subscription{}.TableName(), subscriptionID)
	})
}

func (s *Service) toResponse(sub *domain.Subscription) domain.Response {
	return domain.Response{
		ID:         sub.ID.String(),
		CustomerID: sub.CustomerID.String(),
		PlanID:     sub.PlanID.String(),
		StartDate:  sub.StartDate,
		EndDate:    sub.EndDate,
		Status:     sub.Status,
		CreatedAt:  sub.CreatedAt,
	}
}
