package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/telvoralabs/telvora/internal/clock"
	custdomain "github.com/telvoralabs/telvora/internal/customer/domain"
	netdomain "github.com/telvoralabs/telvora/internal/network/domain"
	"github.com/telvoralabs/telvora/internal/support/domain"
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
	NetRepo  netdomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	custRepo custdomain.Repository
	netRepo  netdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("support.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		custRepo: p.CustRepo,
		netRepo:  p.NetRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	ticketType := domain.TicketType(strings.TrimSpace(req.Type))
	if !domain.ValidType(ticketType) {
		return nil, domain.ErrInvalidType
	}

	// Priority stays NULL unless the caller sets it.
	var priority *string
	if req.Priority != nil {
		p := strings.TrimSpace(*req.Priority)
		if !domain.ValidPriority(p) {
			return nil, domain.ErrInvalidPriority
		}
		priority = &p
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

	employeeID, err := snowflake.ParseString(strings.TrimSpace(req.EmployeeID))
	if err != nil {
		return nil, domain.ErrInvalidEmployee
	}
	employee, err := s.netRepo.FindEmployeeByID(ctx, s.db, employeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.ErrInvalidEmployee
	}

	ticket := &domain.Ticket{
		ID:         s.genID.Generate(),
		Type:       ticketType,
		Status:     domain.TicketStatusOpen,
		Priority:   priority,
		CustomerID: customerID,
		EmployeeID: employeeID,
		CreatedAt:  s.clock.Now().UTC(),
	}
	if err := s.repo.Create(ctx, s.db, ticket); err != nil {
		return nil, err
	}

	s.log.Info("ticket opened",
		zap.String("ticket_id", ticket.ID.String()),
		zap.String("customer_id", customerID.String()),
	)
	resp := s.toResponse(ticket)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	tickets, err := s.repo.List(ctx, s.db, req)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(tickets))
	for i := range tickets {
		resp = append(resp, s.toResponse(&tickets[i]))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	ticketID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	ticket, err := s.repo.FindByID(ctx, s.db, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, domain.ErrNotFound
	}

	resp := s.toResponse(ticket)
	return &resp, nil
}

func (s *Service) UpdateStatus(ctx context.Context, req domain.UpdateStatusRequest) (*domain.Response, error) {
	ticketID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	status := domain.TicketStatus(strings.TrimSpace(req.Status))
	if !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	ticket, err := s.repo.FindByID(ctx, s.db, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, domain.ErrNotFound
	}

	if !domain.ValidTransition(ticket.Status, status) {
		return nil, domain.ErrInvalidTransition
	}

	ticket.Status = status
	if status == domain.TicketStatusClosed {
		now := s.clock.Now().UTC()
		ticket.ClosedAt = &now
	}
	if err := s.repo.Update(ctx, s.db, ticket); err != nil {
		return nil, err
	}

	resp := s.toResponse(ticket)
	return &resp, nil
}

func (s *Service) toResponse(t *domain.Ticket) domain.Response {
	return domain.Response{
		ID:         t.ID.String(),
		Type:       t.Type,
		Status:     t.Status,
		Priority:   t.Priority,
		CustomerID: t.CustomerID.String(),
		EmployeeID: t.EmployeeID.String(),
		CreatedAt:  t.CreatedAt,
		ClosedAt:   t.ClosedAt,
	}
}
