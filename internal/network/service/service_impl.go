package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/telvoralabs/telvora/internal/clock"
	"github.com/telvoralabs/telvora/internal/network/domain"
	refdomain "github.com/telvoralabs/telvora/internal/reference/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
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
		log:     p.Log.Named("network.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		refRepo: p.RefRepo,
	}
}

func (s *Service) CreateEmployee(ctx context.Context, req domain.CreateEmployeeRequest) (*domain.EmployeeResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidEmployeeName
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmployeeEmail
	}

	role := domain.EmployeeRole(strings.TrimSpace(req.Role))
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidEmployeeRole
	}

	if existing, err := s.repo.FindEmployeeByEmail(ctx, s.db, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}

	employee := &domain.Employee{
		ID:        s.genID.Generate(),
		Name:      name,
		Email:     email,
		Role:      role,
		Status:    domain.EmployeeStatusActive,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.repo.CreateEmployee(ctx, s.db, employee); err != nil {
		return nil, err
	}

	resp := s.toEmployeeResponse(employee)
	return &resp, nil
}

func (s *Service) ListEmployees(ctx context.Context) ([]domain.EmployeeResponse, error) {
	employees, err := s.repo.ListEmployees(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.EmployeeResponse, 0, len(employees))
	for i := range employees {
		resp = append(resp, s.toEmployeeResponse(&employees[i]))
	}
	return resp, nil
}

func (s *Service) CreateElement(ctx context.Context, req domain.CreateElementRequest) (*domain.ElementResponse, error) {
	elementType := domain.ElementType(strings.TrimSpace(req.Type))
	if !domain.ValidElementType(elementType) {
		return nil, domain.ErrInvalidElementType
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

	employeeID, err := snowflake.ParseString(strings.TrimSpace(req.EmployeeID))
	if err != nil {
		return nil, domain.ErrInvalidEmployee
	}
	employee, err := s.repo.FindEmployeeByID(ctx, s.db, employeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.ErrInvalidEmployee
	}

	element := &domain.NetworkElement{
		ID:         s.genID.Generate(),
		Type:       elementType,
		Status:     domain.ElementStatusActive,
		LocationID: locationID,
		EmployeeID: employeeID,
		CreatedAt:  s.clock.Now().UTC(),
	}
	if err := s.repo.CreateElement(ctx, s.db, element); err != nil {
		return nil, err
	}

	s.log.Info("network element created",
		zap.String("element_id", element.ID.String()),
		zap.String("type", string(element.Type)),
	)
	resp := s.toElementResponse(element)
	return &resp, nil
}

func (s *Service) ListElements(ctx context.Context, req domain.ListElementsRequest) ([]domain.ElementResponse, error) {
	elements, err := s.repo.ListElements(ctx, s.db, req)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.ElementResponse, 0, len(elements))
	for i := range elements {
		resp = append(resp, s.toElementResponse(&elements[i]))
	}
	return resp, nil
}

func (s *Service) UpdateElementStatus(ctx context.Context, id, status string) (*domain.ElementResponse, error) {
	elementID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	elementStatus := domain.ElementStatus(strings.TrimSpace(status))
	if !domain.ValidElementStatus(elementStatus) {
		return nil, domain.ErrInvalidElementStatus
	}

	element, err := s.repo.FindElementByID(ctx, s.db, elementID)
	if err != nil {
		return nil, err
	}
	if element == nil {
		return nil, domain.ErrElementNotFound
	}

	element.Status = elementStatus
	if err := s.repo.UpdateElement(ctx, s.db, element); err != nil {
		return nil, err
	}

	resp := s.toElementResponse(element)
	return &resp, nil
}

func (s *Service) toEmployeeResponse(e *domain.Employee) domain.EmployeeResponse {
	return domain.EmployeeResponse{
		ID:        e.ID.String(),
		Name:      e.Name,
		Email:     e.Email,
		Role:      e.Role,
		Status:    e.Status,
		CreatedAt: e.CreatedAt,
	}
}

func (s *Service) toElementResponse(e *domain.NetworkElement) domain.ElementResponse {
	return domain.ElementResponse{
		ID:         e.ID.String(),
		Type:       e.Type,
		Status:     e.Status,
		LocationID: e.LocationID.String(),
		EmployeeID: e.EmployeeID.String(),
		CreatedAt:  e.CreatedAt,
	}
}
