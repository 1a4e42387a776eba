package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/telvoralabs/telvora/internal/clock"
	"github.com/telvoralabs/telvora/internal/customer/domain"
	"github.com/telvoralabs/telvora/internal/integrity"
	refdomain "github.com/telvoralabs/telvora/internal/reference/domain"
	"github.com/telvoralabs/telvora/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	RefRepo refdomain.Repository
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	refRepo refdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("customer.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		refRepo: p.RefRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return nil, domain.ErrInvalidPhone
	}

	email := strings.TrimSpace(req.Email)
	if !domain.ValidEmail(email) {
		return nil, domain.ErrInvalidEmail
	}

	locationID, err := snowflake.ParseString(strings.TrimSpace(req.LocationID))
	if err != nil {
		return nil, domain.ErrInvalidLocation
	}
	location, err := s.refRepo.FindLocationByID(ctx, s.db, locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrInvalidLocation
	}

	if existing, err := s.repo.FindByPhone(ctx, s.db, phone); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicatePhone
	}

	now := s.clock.Now().UTC()
	customer := &domain.Customer{
		ID:               s.genID.Generate(),
		Name:             name,
		Phone:            phone,
		Email:            email,
		LocationID:       locationID,
		RegistrationDate: now,
		Status:           domain.CustomerStatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.Metadata != nil {
		customer.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.repo.Create(ctx, s.db, customer); err != nil {
		return nil, err
	}

	s.log.Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("location_id", locationID.String()),
	)
	resp := s.toResponse(customer)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	customers, err := s.repo.List(ctx, s.db, req)
	if err != nil {
		return nil, err
	}

	size := req.Pagination.PageSize
	if size <= 0 {
		size = 10
	}

	items := make([]*domain.Customer, 0, len(customers))
	for i := range customers {
		items = append(items, &customers[i])
	}
	pageInfo := pagination.BuildCursorPageInfo(items, int32(size), func(c *domain.Customer) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{
			ID:        c.ID.String(),
			CreatedAt: c.CreatedAt.Format(time.RFC3339Nano),
		})
		return token
	})

	if len(customers) > size {
		customers = customers[:size]
	}
	resp := make([]domain.Response, 0, len(customers))
	for i := range customers {
		resp = append(resp, s.toResponse(&customers[i]))
	}

	return &domain.ListResponse{Customers: resp, PageInfo: pageInfo}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	customerID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	customer, err := s.repo.FindByID(ctx, s.db, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	resp := s.toResponse(customer)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	customerID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	customer, err := s.repo.FindByID(ctx, s.db, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		customer.Name = name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if !domain.ValidEmail(email) {
			return nil, domain.ErrInvalidEmail
		}
		customer.Email = email
	}
	if req.Status != nil {
		status := domain.CustomerStatus(strings.TrimSpace(*req.Status))
		if !domain.ValidStatus(status) {
			return nil, domain.ErrInvalidStatus
		}
		customer.Status = status
	}

	customer.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, customer); err != nil {
		return nil, err
	}

	resp := s.toResponse(customer)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	customerID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	customer, err := s.repo.FindByID(ctx, s.db, customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return domain.ErrNotFound
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		return integrity.DeleteParent(ctx, tx, domain.Customer{}.TableName(), customerID)
	})
}

func (s *Service) toResponse(c *domain.Customer) domain.Response {
	resp := domain.Response{
		ID:               c.ID.String(),
		Name:             c.Name,
		Phone:            c.Phone,
		Email:            c.Email,
		LocationID:       c.LocationID.String(),
		RegistrationDate: c.RegistrationDate,
		Status:           c.Status,
		CreatedAt:        c.CreatedAt,
	}
	if len(c.Metadata) > 0 {
		resp.Metadata = map[string]any(c.Metadata)
	}
	return resp
}
