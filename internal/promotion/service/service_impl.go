package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/telvoralabs/telvora/internal/clock"
	plandomain "github.com/telvoralabs/telvora/internal/plan/domain"
	"github.com/telvoralabs/telvora/internal/promotion/domain"
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
	PlanRepo plandomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	planRepo plandomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("promotion.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		planRepo: p.PlanRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.DiscountValue <= 0 {
		return nil, domain.ErrInvalidDiscount
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() || !req.StartDate.Before(req.EndDate) {
		return nil, domain.ErrInvalidPeriod
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

	promotion := &domain.Promotion{
		ID:            s.genID.Generate(),
		Name:          name,
		DiscountValue: req.DiscountValue,
		StartDate:     req.StartDate.UTC(),
		EndDate:       req.EndDate.UTC(),
		Status:        domain.PromotionStatusActive,
		PlanID:        planID,
		CreatedAt:     s.clock.Now().UTC(),
	}
	if err := s.repo.Create(ctx, s.db, promotion); err != nil {
		return nil, err
	}

	s.log.Info("promotion created",
		zap.String("promotion_id", promotion.ID.String()),
		zap.String("plan_id", planID.String()),
	)
	resp := s.toResponse(promotion)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	promotions, err := s.repo.List(ctx, s.db, req)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(promotions))
	for i := range promotions {
		resp = append(resp, s.toResponse(&promotions[i]))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	promotionID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	promotion, err := s.repo.FindByID(ctx, s.db, promotionID)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, domain.ErrNotFound
	}

	resp := s.toResponse(promotion)
	return &resp, nil
}

func (s *Service) Expire(ctx context.Context, id string) (*domain.Response, error) {
	promotionID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	promotion, err := s.repo.FindByID(ctx, s.db, promotionID)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, domain.ErrNotFound
	}
	if promotion.Status == domain.PromotionStatusExpired {
		return nil, domain.ErrAlreadyExpired
	}

	promotion.Status = domain.PromotionStatusExpired
	if err := s.repo.Update(ctx, s.db, promotion); err != nil {
		return nil, err
	}

	resp := s.toResponse(promotion)
	return &resp, nil
}

func (s *Service) toResponse(p *domain.Promotion) domain.Response {
	return domain.Response{
		ID:            p.ID.String(),
		Name:          p.Name,
		DiscountValue: p.DiscountValue,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		Status:        p.Status,
		PlanID:        p.PlanID.String(),
		CreatedAt:     p.CreatedAt,
	}
}
