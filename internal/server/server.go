package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/telvoralabs/telvora/internal/billing"
	billingdomain "github.com/telvoralabs/telvora/internal/billing/domain"
	"github.com/telvoralabs/telvora/internal/clock"
	"github.com/telvoralabs/telvora/internal/config"
	"github.com/telvoralabs/telvora/internal/customer"
	custdomain "github.com/telvoralabs/telvora/internal/customer/domain"
	"github.com/telvoralabs/telvora/internal/ledger"
	ledgerdomain "github.com/telvoralabs/telvora/internal/ledger/domain"
	"github.com/telvoralabs/telvora/internal/network"
	netdomain "github.com/telvoralabs/telvora/internal/network/domain"
	"github.com/telvoralabs/telvora/internal/observability"
	obslogger "github.com/telvoralabs/telvora/internal/observability/logger"
	"github.com/telvoralabs/telvora/internal/plan"
	plandomain "github.com/telvoralabs/telvora/internal/plan/domain"
	"github.com/telvoralabs/telvora/internal/promotion"
	promodomain "github.com/telvoralabs/telvora/internal/promotion/domain"
	"github.com/telvoralabs/telvora/internal/ratelimit"
	"github.com/telvoralabs/telvora/internal/reference"
	refdomain "github.com/telvoralabs/telvora/internal/reference/domain"
	"github.com/telvoralabs/telvora/internal/reporting"
	"github.com/telvoralabs/telvora/internal/subscription"
	subdomain "github.com/telvoralabs/telvora/internal/subscription/domain"
	"github.com/telvoralabs/telvora/internal/support"
	supportdomain "github.com/telvoralabs/telvora/internal/support/domain"
	"github.com/telvoralabs/telvora/internal/usage"
	usagedomain "github.com/telvoralabs/telvora/internal/usage/domain"
	"github.com/telvoralabs/telvora/internal/usage/snapshot"
	"github.com/telvoralabs/telvora/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	config.Module,
	observability.Module,
	clock.Module,
	db.Module,
	fx.Provide(registerGin),
	reference.Module,
	plan.Module,
	customer.Module,
	network.Module,
	support.Module,
	promotion.Module,
	subscription.Module,
	ratelimit.Module,
	usage.Module,
	billing.Module,
	ledger.Module,
	reporting.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *observability.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug: obsCfg.Debug(),
	}))
	r.Use(observability.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *observability.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	genID           *snowflake.Node
	refrepo         refdomain.Repository
	planSvc         plandomain.Service
	customerSvc     custdomain.Service
	networkSvc      netdomain.Service
	supportSvc      supportdomain.Service
	promotionSvc    promodomain.Service
	subscriptionSvc subdomain.Service
	usageSvc        usagedomain.Service
	billingSvc      billingdomain.Service
	ledgerSvc       ledgerdomain.Service
	reports         *reporting.Service
	snapshots       *snapshot.Refresher
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	GenID           *snowflake.Node
	Refrepo         refdomain.Repository
	PlanSvc         plandomain.Service
	CustomerSvc     custdomain.Service
	NetworkSvc      netdomain.Service
	SupportSvc      supportdomain.Service
	PromotionSvc    promodomain.Service
	SubscriptionSvc subdomain.Service
	UsageSvc        usagedomain.Service
	BillingSvc      billingdomain.Service
	LedgerSvc       ledgerdomain.Service
	Reports         *reporting.Service
	Snapshots       *snapshot.Refresher
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		refrepo:         p.Refrepo,
		planSvc:         p.PlanSvc,
		customerSvc:     p.CustomerSvc,
		networkSvc:      p.NetworkSvc,
		supportSvc:      p.SupportSvc,
		promotionSvc:    p.PromotionSvc,
		subscriptionSvc: p.SubscriptionSvc,
		usageSvc:        p.UsageSvc,
		billingSvc:      p.BillingSvc,
		ledgerSvc:       p.LedgerSvc,
		reports:         p.Reports,
		snapshots:       p.Snapshots,
	}

	svc.registerAPIRoutes()
	svc.registerReportRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")

	v1.GET("/locations", s.ListLocations)
	v1.POST("/locations", s.CreateLocation)

	// -------- Service plans --------
	v1.GET("/plans", s.ListPlans)
	v1.POST("/plans", s.CreatePlan)
	v1.GET("/plans/:id", s.GetPlanByID)
	v1.PATCH("/plans/:id", s.UpdatePlan)
	v1.DELETE("/plans/:id", s.DeletePlan)

	// -------- Customers --------
	v1.GET("/customers", s.ListCustomers)
	v1.POST("/customers", s.CreateCustomer)
	v1.GET("/customers/:id", s.GetCustomerByID)
	v1.PATCH("/customers/:id", s.UpdateCustomer)
	v1.DELETE("/customers/:id", s.DeleteCustomer)
	v1.GET("/customers/:id/billing-summary", s.CustomerBillingSummary)

	// -------- Workforce and network --------
	v1.GET("/employees", s.ListEmployees)
	v1.POST("/employees", s.CreateEmployee)
	v1.GET("/network-elements", s.ListNetworkElements)
	v1.POST("/network-elements", s.CreateNetworkElement)
	v1.PATCH("/network-elements/:id/status", s.UpdateNetworkElementStatus)

	// -------- Support tickets --------
	v1.GET("/tickets", s.ListTickets)
	v1.POST("/tickets", s.CreateTicket)
	v1.GET("/tickets/:id", s.GetTicketByID)
	v1.PATCH("/tickets/:id/status", s.UpdateTicketStatus)

	// -------- Promotions --------
	v1.GET("/promotions", s.ListPromotions)
	v1.POST("/promotions", s.CreatePromotion)
	v1.GET("/promotions/:id", s.GetPromotionByID)
	v1.POST("/promotions/:id/expire", s.ExpirePromotion)

	// -------- Subscriptions --------
	v1.GET("/subscriptions", s.ListSubscriptions)
	v1.POST("/subscriptions", s.CreateSubscription)
	v1.GET("/subscriptions/:id", s.GetSubscriptionByID)
	v1.POST("/subscriptions/:id/cancel", s.CancelSubscription)
	v1.POST("/subscriptions/:id/promotions", s.ApplySubscriptionPromotion)
	v1.DELETE("/subscriptions/:id", s.DeleteSubscription)

	// -------- Usage --------
	v1.POST("/usage", s.IngestUsage)
	v1.GET("/usage", s.ListUsage)
	v1.POST("/usage/snapshots/refresh", s.RefreshUsageSnapshots)
	v1.GET("/usage/snapshots", s.LatestUsageSnapshots)

	// -------- Billing --------
	v1.GET("/billings", s.ListBillings)
	v1.POST("/billings", s.CreateBilling)
	v1.GET("/billings/:id", s.GetBillingByID)
	v1.PATCH("/billings/:id/status", s.UpdateBillingStatus)
	v1.DELETE("/billings/:id", s.DeleteBilling)
	v1.POST("/payments", s.RecordPayment)

	// -------- Transactions --------
	v1.GET("/transactions", s.ListTransactions)
	v1.POST("/transactions", s.PostTransaction)
	v1.POST("/transactions/batch", s.PostTransactionBatch)
}

func (s *Server) registerReportRoutes() {
	reports := s.engine.Group("/v1/reports")

	reports.GET("/customers-per-city", s.ReportCustomersPerCity)
	reports.GET("/active-elements-per-city", s.ReportActiveElementsPerCity)
	reports.GET("/tickets-per-employee", s.ReportTicketsPerEmployee)
	reports.GET("/resolution-time", s.ReportResolutionTime)
	reports.GET("/above-average-billing", s.ReportAboveAverageBilling)
	reports.GET("/days-to-pay", s.ReportDaysToPay)
	reports.GET("/revenue-per-plan", s.ReportRevenuePerPlan)
	reports.GET("/latest-bills", s.ReportLatestBills)
	reports.GET("/monthly-usage", s.ReportMonthlyUsage)
	reports.GET("/top-usage-customers", s.ReportTopUsageCustomers)
	reports.GET("/promotion-effectiveness", s.ReportPromotionEffectiveness)
	reports.GET("/transaction-totals", s.ReportTransactionTotals)
	reports.GET("/transaction-trailing-quarter", s.ReportTransactionTrailingQuarter)
	reports.GET("/top-transaction-customers", s.ReportTopTransactionCustomers)
	reports.GET("/flagged-customers", s.ReportFlaggedCustomers)
}
