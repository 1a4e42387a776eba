package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/telvoralabs/telvora/internal/clock"
	netdomain "github.com/telvoralabs/telvora/internal/network/domain"
	"github.com/telvoralabs/telvora/internal/ratelimit"
	refdomain "github.com/telvoralabs/telvora/internal/reference/domain"
	subdomain "github.com/telvoralabs/telvora/internal/subscription/domain"
	"github.com/telvoralabs/telvora/internal/usage/domain"
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
	SubRepo subdomain.Repository
	NetRepo netdomain.Repository
	RefRepo refdomain.Repository
	Limiter *ratelimit.UsageIngestLimiter `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	subRepo subdomain.Repository
	netRepo netdomain.Repository
	refRepo refdomain.Repository
	limiter *ratelimit.UsageIngestLimiter
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("usage.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		subRepo: p.SubRepo,
		netRepo: p.NetRepo,
		refRepo: p.RefRepo,
		limiter: p.Limiter,
	}
}

func (s *Service) Ingest(ctx context.Context, req domain.IngestRequest) (*domain.Response, error) {
	usageType := domain.UsageType(strings.TrimSpace(req.Type))
	if !domain.ValidType(usageType) {
		return nil, domain.ErrInvalidType
	}
	if req.Amount <= 0 {
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

	if allowed, err := s.limiter.AllowCustomer(ctx, subscription.CustomerID.String()); err != nil {
		// Redis being down should not drop usage events.
		s.log.Warn("rate limiter unavailable, allowing ingest", zap.Error(err))
	} else if !allowed {
		return nil, domain.ErrRateLimited
	}

	elementID, err := snowflake.ParseString(strings.TrimSpace(req.NetworkElementID))
	if err != nil {
		return nil, domain.ErrInvalidElement
	}
	element, err := s.netRepo.FindElementByID(ctx, s.db, elementID)
	if err != nil {
		return nil, err
	}
	if element == nil {
		return nil, domain.ErrInvalidElement
	}

	ts := req.Timestamp
	if ts.IsZero() {
		ts = s.clock.Now()
	}

	var record *domain.UsageRecord
	var timeRow *refdomain.TimeDimension
	err = s.db.Transaction(func(tx *gorm.DB) error {
		timeRow, err = s.refRepo.EnsureTimeRow(ctx, tx, s.genID.Generate(), ts)
		if err != nil {
			return err
		}

		record = &domain.UsageRecord{
			ID:               s.genID.Generate(),
			Type:             usageType,
			Amount:           req.Amount,
			SubscriptionID:   subscriptionID,
			NetworkElementID: elementID,
			TimeID:           timeRow.ID,
			CreatedAt:        s.clock.Now().UTC(),
		}
		return s.repo.Create(ctx, tx, record)
	})
	if err != nil {
		return nil, err
	}

	return &domain.Response{
		ID:               record.ID.String(),
		Type:             record.Type,
		Amount:           record.Amount,
		SubscriptionID:   record.SubscriptionID.String(),
		NetworkElementID: record.NetworkElementID.String(),
		Timestamp:        timeRow.Timestamp,
		DayOfWeek:        timeRow.DayOfWeek,
		PartOfDay:        string(timeRow.PartOfDay),
	}, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	records, err := s.repo.List(ctx, s.db, req)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(records))
	for i := range records {
		record := &records[i]
		resp = append(resp, domain.Response{
			ID:               record.ID.String(),
			Type:             record.Type,
			Amount:           record.Amount,
			SubscriptionID:   record.SubscriptionID.String(),
			NetworkElementID: record.NetworkElementID.String(),
			Timestamp:        record.CreatedAt,
		})
	}
	return resp, nil
}
