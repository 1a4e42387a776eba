package reporting

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/telvoralabs/telvora/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// finalAmountExpr derives the billed amount in SQL exactly the way the
// generated column does, so reports never read a stored value.
const finalAmountExpr = "COALESCE(b.total_amount, 0) - COALESCE(b.discount_amount, 0)"

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
}

func New(p Params) *Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("reporting.service"),
		clock: p.Clock,
	}
}

// round2 rounds half away from zero to two decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// monthWindow returns [start, end) for a calendar month in UTC.
func monthWindow(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func (s *Service) CustomersPerCity(ctx context.Context) ([]CityCustomerCount, error) {
	var rows []CityCustomerCount
	err := s.db.WithContext(ctx).Raw(`
		SELECT l.city, l.country, COUNT(c.id) AS customer_count
		FROM customers c
		JOIN locations l ON l.id = c.location_id
		GROUP BY l.city, l.country
		ORDER BY customer_count DESC, l.city`).
		Scan(&rows).Error
	return rows, err
}

func (s *Service) ActiveElementsPerCity(ctx context.Context) ([]CityElementCount, error) {
	var rows []CityElementCount
	err := s.db.WithContext(ctx).Raw(`
		SELECT l.city, n.type AS element_type, COUNT(n.id) AS element_count
		FROM network_elements n
		JOIN locations l ON l.id = n.location_id
		WHERE n.status = 'active'
		GROUP BY l.city, n.type
		ORDER BY l.city, n.type`).
		Scan(&rows).Error
	return rows, err
}

func (s *Service) TicketCountsPerEmployee(ctx context.Context) ([]EmployeeTicketCount, error) {
	var rows []EmployeeTicketCount
	err := s.db.WithContext(ctx).Raw(`
		SELECT e.id AS employee_id, e.name AS employee_name, t.status, COUNT(t.id) AS ticket_count
		FROM support_tickets t
		JOIN employees e ON e.id = t.employee_id
		GROUP BY e.id, e.name, t.status
		ORDER BY e.name, t.status`).
		Scan(&rows).Error
	return rows, err
}

// AverageResolutionHours averages (closed_at - created_at) over closed
// tickets with a non-null closed_at. Tickets without closed_at are
// excluded, not treated as zero. The duration math runs in Go because
// interval arithmetic is not portable across the supported engines.
func (s *Service) AverageResolutionHours(ctx context.Context) (*ResolutionStats, error) {
	var spans []struct {
		CreatedAt time.Time
		ClosedAt  time.Time
	}
	err := s.db.WithContext(ctx).Raw(`
		SELECT created_at, closed_at
		FROM support_tickets
		WHERE status = 'closed' AND closed_at IS NOT NULL`).
		Scan(&spans).Error
	if err != nil {
		return nil, err
	}

	stats := &ResolutionStats{ClosedTickets: int64(len(spans))}
	if len(spans) == 0 {
		return stats, nil
	}

	var totalHours float64
	for _, span := range spans {
		totalHours += span.ClosedAt.Sub(span.CreatedAt).Hours()
	}
	stats.AverageResolutionHrs = round2(totalHours / float64(len(spans)))
	return stats, nil
}

// AboveAverageBillingCustomers lists customers whose mean billed amount
// strictly exceeds the global mean across all bills.
func (s *Service) AboveAverageBillingCustomers(ctx context.Context) ([]CustomerBillingAverage, error) {
	var rows []CustomerBillingAverage
	err := s.db.WithContext(ctx).Raw(`
		SELECT c.id AS customer_id, c.name AS customer_name,
			AVG(`+finalAmountExpr+`) AS avg_billed
		FROM customers c
		JOIN subscriptions s ON s.customer_id = c.id
		JOIN billing_records b ON b.subscription_id = s.id
		GROUP BY c.id, c.name
		HAVING AVG(`+finalAmountExpr+`) > (
			SELECT AVG(COALESCE(total_amount, 0) - COALESCE(discount_amount, 0))
			FROM billing_records
		)
		ORDER BY avg_billed DESC`).
		Scan(&rows).Error
	return rows, err
}

// DaysToPay reports the issue-to-payment delay for completed payments.
func (s *Service) DaysToPay(ctx context.Context) ([]PaymentDelay, error) {
	var rows []PaymentDelay
	err := s.db.WithContext(ctx).Raw(`
		SELECT b.id AS billing_id, c.name AS customer_name, b.issue_date, p.payment_date
		FROM payments p
		JOIN billing_records b ON b.id = p.billing_id
		JOIN subscriptions s ON s.id = b.subscription_id
		JOIN customers c ON c.id = s.customer_id
		WHERE p.status = 'completed'
		ORDER BY b.issue_date DESC`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].DaysToPay = int(rows[i].PaymentDate.Sub(rows[i].IssueDate).Hours() / 24)
	}
	return rows, nil
}

func (s *Service) RevenuePerPlan(ctx context.Context) ([]PlanRevenue, error) {
	var rows []PlanRevenue
	err := s.db.WithContext(ctx).Raw(`
		SELECT sp.id AS plan_id, sp.name AS plan_name,
			SUM(`+finalAmountExpr+`) AS total_revenue
		FROM billing_records b
		JOIN subscriptions s ON s.id = b.subscription_id
		JOIN service_plans sp ON sp.id = s.plan_id
		GROUP BY sp.id, sp.name
		ORDER BY total_revenue DESC
		LIMIT 5`).
		Scan(&rows).Error
	return rows, err
}

// LatestBillPerCustomer returns, per subscription, the billing rows whose
// period end equals that subscription's maximum. Ties are all returned.
func (s *Service) LatestBillPerCustomer(ctx context.Context) ([]LatestBill, error) {
	var rows []LatestBill
	err := s.db.WithContext(ctx).Raw(`
		SELECT c.id AS customer_id, c.name AS customer_name,
			b.subscription_id, b.id AS billing_id,
			b.period_start, b.period_end,
			`+finalAmountExpr+` AS final_amount,
			b.status
		FROM billing_records b
		JOIN subscriptions s ON s.id = b.subscription_id
		JOIN customers c ON c.id = s.customer_id
		WHERE b.period_end = (
			SELECT MAX(b2.period_end)
			FROM billing_records b2
			WHERE b2.subscription_id = b.subscription_id
		)
		ORDER BY c.name, b.subscription_id`).
		Scan(&rows).Error
	return rows, err
}

type usageTotalsRow struct {
	CustomerID   int64
	CustomerName string
	PlanName     string
	CallMinutes  int64
	DataMB       int64
	SMSCount     int64
}

func (s *Service) usageTotals(ctx context.Context, from, to time.Time) ([]usageTotalsRow, error) {
	var rows []usageTotalsRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT c.id AS customer_id, c.name AS customer_name, sp.name AS plan_name,
			COALESCE(SUM(CASE WHEN u.type = 'call' THEN u.amount ELSE 0 END), 0) AS call_minutes,
			COALESCE(SUM(CASE WHEN u.type = 'data' THEN u.amount ELSE 0 END), 0) AS data_mb,
			COALESCE(SUM(CASE WHEN u.type = 'sms' THEN u.amount ELSE 0 END), 0) AS sms_count
		FROM usage_records u
		JOIN time_dimension td ON td.id = u.time_id
		JOIN subscriptions s ON s.id = u.subscription_id
		JOIN customers c ON c.id = s.customer_id
		JOIN service_plans sp ON sp.id = s.plan_id
		WHERE s.status = 'active' AND td.timestamp >= ? AND td.timestamp < ?
		GROUP BY c.id, c.name, sp.name
		ORDER BY c.name, sp.name`,
		from, to,
	).Scan(&rows).Error
	return rows, err
}

// MonthlyUsage sums call minutes, data (MB converted to GB) and SMS count
// per customer and plan for active subscriptions within one calendar
// month. The MB to GB conversion divides by 1024 and rounds to two
// decimals rather than truncating.
func (s *Service) MonthlyUsage(ctx context.Context, year int, month time.Month) ([]MonthlyUsageRow, error) {
	from, to := monthWindow(year, month)
	totals, err := s.usageTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}

	rows := make([]MonthlyUsageRow, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, MonthlyUsageRow{
			CustomerID:   t.CustomerID,
			CustomerName: t.CustomerName,
			PlanName:     t.PlanName,
			CallMinutes:  t.CallMinutes,
			DataGB:       round2(float64(t.DataMB) / 1024),
			SMSCount:     t.SMSCount,
		})
	}
	return rows, nil
}

// TopUsageCustomers ranks customers by a composite score computed in two
// stages: raw per-type totals first, then score = call minutes + sms
// count + data GB with the GB figure rounded before summing. Mixing the
// unit systems before rounding would skew the composite.
func (s *Service) TopUsageCustomers(ctx context.Context, year int, month time.Month) ([]UsageScore, error) {
	from, to := monthWindow(year, month)

	// Stage 1: raw per-type totals per subscription.
	var totals []struct {
		CustomerID     int64
		CustomerName   string
		SubscriptionID int64
		Type           string
		Total          int64
	}
	err := s.db.WithContext(ctx).Raw(`
		SELECT c.id AS customer_id, c.name AS customer_name,
			u.subscription_id, u.type, SUM(u.amount) AS total
		FROM usage_records u
		JOIN time_dimension td ON td.id = u.time_id
		JOIN subscriptions s ON s.id = u.subscription_id
		JOIN customers c ON c.id = s.customer_id
		WHERE td.timestamp >= ? AND td.timestamp < ?
		GROUP BY c.id, c.name, u.subscription_id, u.type`,
		from, to,
	).Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	// Stage 2: fold per-type totals into one composite score per customer.
	byCustomer := make(map[int64]*UsageScore)
	for _, t := range totals {
		score, ok := byCustomer[t.CustomerID]
		if !ok {
			score = &UsageScore{CustomerID: t.CustomerID, CustomerName: t.CustomerName}
			byCustomer[t.CustomerID] = score
		}
		switch t.Type {
		case "call":
			score.CallMinutes += t.Total
		case "sms":
			score.SMSCount += t.Total
		case "data":
			score.DataGB += float64(t.Total) / 1024
		}
	}

	rows := make([]UsageScore, 0, len(byCustomer))
	for _, score := range byCustomer {
		score.DataGB = round2(score.DataGB)
		score.Score = float64(score.CallMinutes) + float64(score.SMSCount) + score.DataGB
		rows = append(rows, *score)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].CustomerName < rows[j].CustomerName
	})
	if len(rows) > 5 {
		rows = rows[:5]
	}
	return rows, nil
}

// PromotionEffectiveness measures, per promotion, the distinct
// subscriptions that ever applied it, the usage recorded on or after each
// pair's applied date, and the billing issued for periods starting on or
// after it, ranked by billed amount with standard RANK tie semantics.
func (s *Service) PromotionEffectiveness(ctx context.Context) ([]PromotionEffect, error) {
	var rows []PromotionEffect
	err := s.db.WithContext(ctx).Raw(`
		SELECT promo.*, RANK() OVER (ORDER BY promo.total_billed DESC) AS billed_rank
		FROM (
			SELECT p.id AS promotion_id, p.name AS promotion_name,
				(SELECT COUNT(DISTINCT sp2.subscription_id)
				 FROM subscription_promotions sp2
				 WHERE sp2.promotion_id = p.id) AS subscription_count,
				(SELECT COALESCE(SUM(CASE WHEN u.type = 'call' THEN u.amount ELSE 0 END), 0)
				 FROM subscription_promotions sp2
				 JOIN usage_records u ON u.subscription_id = sp2.subscription_id
				 JOIN time_dimension td ON td.id = u.time_id
				 WHERE sp2.promotion_id = p.id AND td.timestamp >= sp2.applied_date) AS call_minutes,
				(SELECT COALESCE(SUM(CASE WHEN u.type = 'data' THEN u.amount ELSE 0 END), 0)
				 FROM subscription_promotions sp2
				 JOIN usage_records u ON u.subscription_id = sp2.subscription_id
				 JOIN time_dimension td ON td.id = u.time_id
				 WHERE sp2.promotion_id = p.id AND td.timestamp >= sp2.applied_date) AS data_mb,
				(SELECT COALESCE(SUM(CASE WHEN u.type = 'sms' THEN u.amount ELSE 0 END), 0)
				 FROM subscription_promotions sp2
				 JOIN usage_records u ON u.subscription_id = sp2.subscription_id
				 JOIN time_dimension td ON td.id = u.time_id
				 WHERE sp2.promotion_id = p.id AND td.timestamp >= sp2.applied_date) AS sms_count,
				(SELECT COALESCE(SUM(COALESCE(b.total_amount, 0) - COALESCE(b.discount_amount, 0)), 0)
				 FROM subscription_promotions sp2
				 JOIN billing_records b ON b.subscription_id = sp2.subscription_id
				 WHERE sp2.promotion_id = p.id AND b.period_start >= sp2.applied_date) AS total_billed
			FROM promotions p
		) promo
		ORDER BY billed_rank, promo.promotion_name`).
		Scan(&rows).Error
	return rows, err
}

func (s *Service) TransactionTotalsByType(ctx context.Context) ([]TransactionTypeTotal, error) {
	var rows []TransactionTypeTotal
	err := s.db.WithContext(ctx).Raw(`
		SELECT type, COUNT(id) AS txn_count, SUM(amount) AS total_amount
		FROM transactions
		GROUP BY type
		ORDER BY total_amount DESC`).
		Scan(&rows).Error
	return rows, err
}

// TransactionTrailingQuarter aggregates by type over the trailing three
// calendar months, anchored on the clock's current month inclusive.
func (s *Service) TransactionTrailingQuarter(ctx context.Context) ([]TransactionTypeTotal, error) {
	now := s.clock.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	from := monthStart.AddDate(0, -2, 0)
	to := monthStart.AddDate(0, 1, 0)

	var rows []TransactionTypeTotal
	err := s.db.WithContext(ctx).Raw(`
		SELECT type, COUNT(id) AS txn_count, SUM(amount) AS total_amount
		FROM transactions
		WHERE timestamp >= ? AND timestamp < ?
		GROUP BY type
		ORDER BY total_amount DESC`,
		from, to,
	).Scan(&rows).Error
	return rows, err
}

func (s *Service) TopTransactionCustomers(ctx context.Context) ([]CustomerTransactionVolume, error) {
	var rows []CustomerTransactionVolume
	err := s.db.WithContext(ctx).Raw(`
		SELECT c.id AS customer_id, c.name AS customer_name,
			COUNT(t.id) AS txn_count, SUM(t.amount) AS total_amount
		FROM transactions t
		JOIN customers c ON c.id = t.customer_id
		GROUP BY c.id, c.name
		ORDER BY total_amount DESC
		LIMIT 5`).
		Scan(&rows).Error
	return rows, err
}

// FlaggedCustomers lists customers holding at least one failed ledger
// transaction and at least one support ticket. The two counts are
// independent distinct totals, not a joint count of matched pairs.
func (s *Service) FlaggedCustomers(ctx context.Context) ([]FlaggedCustomer, error) {
	var rows []FlaggedCustomer
	err := s.db.WithContext(ctx).Raw(`
		SELECT c.id AS customer_id, c.name AS customer_name,
			(SELECT COUNT(t.id) FROM transactions t
			 WHERE t.customer_id = c.id AND t.status = 'failed') AS failed_transactions,
			(SELECT COUNT(st.id) FROM support_tickets st
			 WHERE st.customer_id = c.id) AS ticket_count
		FROM customers c
		WHERE EXISTS (
			SELECT 1 FROM transactions t
			WHERE t.customer_id = c.id AND t.status = 'failed'
		)
		AND EXISTS (
			SELECT 1 FROM support_tickets st
			WHERE st.customer_id = c.id
		)
		ORDER BY failed_transactions DESC, ticket_count DESC, c.name`).
		Scan(&rows).Error
	return rows, err
}
