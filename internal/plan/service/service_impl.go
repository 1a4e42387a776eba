package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/telvoralabs/telvora/internal/clock"
	"github.com/telvoralabs/telvora/internal/integrity"
	"github.com/telvoralabs/telvora/internal/plan/domain"
	"github.com/telvoralabs/telvora/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("plan.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.Price <= 0 {
		return nil, domain.ErrInvalidPrice
	}
	if req.DataLimitMB < 0 || req.CallLimitMinutes < 0 || req.SMSLimit < 0 {
		return nil, domain.ErrInvalidAllowance
	}

	validityDays := req.ValidityDays
	if validityDays <= 0 {
		validityDays = 30
	}

	code := slug.Make(name)
	if existing, err := s.repo.FindByCode(ctx, s.db, code); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicateCode
	}

	now := s.clock.Now().UTC()
	plan := &domain.ServicePlan{
		ID:               s.genID.Generate(),
		Name:             name,
		Code:             code,
		Price:            req.Price,
		DataLimitMB:      req.DataLimitMB,
		CallLimitMinutes: req.CallLimitMinutes,
		SMSLimit:         req.SMSLimit,
		ValidityDays:     validityDays,
		Status:           domain.PlanStatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.Metadata != nil {
		plan.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.repo.Create(ctx, s.db, plan); err != nil {
		return nil, err
	}

	s.log.Info("plan created", zap.String("plan_id", plan.ID.String()), zap.String("code", plan.Code))
	resp := s.toResponse(plan)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	plans, err := s.repo.List(ctx, s.db, req)
	if err != nil {
		return nil, err
	}

	size := req.Pagination.PageSize
	if size <= 0 {
		size = 10
	}

	items := make([]*domain.ServicePlan, 0, len(plans))
	for i := range plans {
		items = append(items, &plans[i])
	}
	pageInfo := pagination.BuildCursorPageInfo(items, int32(size), func(p *domain.ServicePlan) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{
			ID:        p.ID.String(),
			CreatedAt: p.CreatedAt.Format(time.RFC3339Nano),
		})
		return token
	})

	if len(plans) > size {
		plans = plans[:size]
	}
	resp := make([]domain.Response, 0, len(plans))
	for i := range plans {
		resp = append(resp, s.toResponse(&plans[i]))
	}

	return &domain.ListResponse{Plans: resp, PageInfo: pageInfo}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	planID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	plan, err := s.repo.FindByID(ctx, s.db, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrNotFound
	}

	resp := s.toResponse(plan)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	planID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	plan, err := s.repo.FindByID(ctx, s.db, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		plan.Name = name
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, domain.ErrInvalidPrice
		}
		plan.Price = *req.Price
	}
	if req.DataLimitMB != nil {
		if *req.DataLimitMB < 0 {
			return nil, domain.ErrInvalidAllowance
		}
		plan.DataLimitMB = *req.DataLimitMB
	}
	if req.ValidityDays != nil {
		if *req.ValidityDays <= 0 {
			return nil, domain.ErrInvalidAllowance
		}
		plan.ValidityDays = *req.ValidityDays
	}
	if req.Status != nil {
		status := domain.PlanStatus(strings.TrimSpace(*req.Status))
		if !domain.ValidStatus(status) {
			return nil, domain.ErrInvalidStatus
		}
		plan.Status = status
	}

	plan.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, plan); err != nil {
		return nil, err
	}

	resp := s.toResponse(plan)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	planID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	plan, err := s.repo.FindByID(ctx, s.db, planID)
	if err != nil {
		return err
	}
	if plan == nil {
		return domain.ErrNotFound
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		return integrity.DeleteParent(ctx, tx, domain.ServicePlan{}.TableName(), planID)
	})
}

func (s *Service) toResponse(p *domain.ServicePlan) domain.Response {
	resp := domain.Response{
		ID:               p.ID.String(),
		Name:             p.Name,
		Code:             p.Code,
		Price:            p.Price,
		DataLimitMB:      p.DataLimitMB,
		CallLimitMinutes: p.CallLimitMinutes,
		SMSLimit:         p.SMSLimit,
		ValidityDays:     p.ValidityDays,
		Status:           p.Status,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	if len(p.Metadata) > 0 {
		resp.Metadata = map[string]any(p.Metadata)
	}
	return resp
}
