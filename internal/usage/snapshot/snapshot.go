// Package snapshot maintains the usage_plan_snapshots cache: an
// append-only table with one row per (plan, generation) holding all-time
// usage sums across the plan's subscriptions. Rows are never updated in
// place; readers take the newest generation per plan.
package snapshot

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/telvoralabs/telvora/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UsagePlanSnapshot is one generation of the cache for one plan.
type UsagePlanSnapshot struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	PlanID           snowflake.ID `gorm:"not null;index" json:"plan_id"`
	PlanName         string       `gorm:"type:text;not null" json:"plan_name"`
	TotalCallMinutes int64        `gorm:"not null;default:0" json:"total_call_minutes"`
	TotalDataMB      int64        `gorm:"column:total_data_mb;not null;default:0" json:"total_data_mb"`
	TotalSMSCount    int64        `gorm:"column:total_sms_count;not null;default:0" json:"total_sms_count"`
	GeneratedAt      time.Time    `gorm:"not null;index" json:"generated_at"`
}

// TableName sets the database table name.
func (UsagePlanSnapshot) TableName() string { return "usage_plan_snapshots" }

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

// Refresher appends snapshot generations and serves the latest one.
type Refresher struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) *Refresher {
	return &Refresher{
		db:    p.DB,
		log:   p.Log.Named("usage.snapshot"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

type planTotals struct {
	PlanID           snowflake.ID
	PlanName         string
	TotalCallMinutes int64
	TotalDataMB      int64
	TotalSMSCount    int64
}

// RunOnce recomputes all-time usage totals per plan and appends one new
// generation. Existing rows are never touched.
func (r *Refresher) RunOnce(ctx context.Context) (int, error) {
	var totals []planTotals
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			sp.id AS plan_id,
			sp.name AS plan_name,
			COALESCE(SUM(CASE WHEN u.type = 'call' THEN u.amount ELSE 0 END), 0) AS total_call_minutes,
			COALESCE(SUM(CASE WHEN u.type = 'data' THEN u.amount ELSE 0 END), 0) AS total_data_mb,
			COALESCE(SUM(CASE WHEN u.type = 'sms' THEN u.amount ELSE 0 END), 0) AS total_sms_count
		FROM service_plans sp
		LEFT JOIN subscriptions s ON s.plan_id = sp.id
		LEFT JOIN usage_records u ON u.subscription_id = s.id
		GROUP BY sp.id, sp.name`).
		Scan(&totals).Error
	if err != nil {
		return 0, err
	}

	generatedAt := r.clock.Now().UTC()
	err = r.db.Transaction(func(tx *gorm.DB) error {
		for _, t := range totals {
			row := UsagePlanSnapshot{
				ID:               r.genID.Generate(),
				PlanID:           t.PlanID,
				PlanName:         t.PlanName,
				TotalCallMinutes: t.TotalCallMinutes,
				TotalDataMB:      t.TotalDataMB,
				TotalSMSCount:    t.TotalSMSCount,
				GeneratedAt:      generatedAt,
			}
			insert := tx.WithContext(ctx).Exec(
				`INSERT INTO usage_plan_snapshots (id, plan_id, plan_name, total_call_minutes, total_data_mb, total_sms_count, generated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				row.ID,
				row.PlanID,
				row.PlanName,
				row.TotalCallMinutes,
				row.TotalDataMB,
				row.TotalSMSCount,
				row.GeneratedAt,
			)
			if insert.Error != nil {
				return insert.Error
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.log.Info("usage snapshot generated",
		zap.Int("plans", len(totals)),
		zap.Time("generated_at", generatedAt),
	)
	return len(totals), nil
}

// Latest returns the most recent generation per plan.
func (r *Refresher) Latest(ctx context.Context) ([]UsagePlanSnapshot, error) {
	var rows []UsagePlanSnapshot
	err := r.db.WithContext(ctx).Raw(`
		SELECT s.id, s.plan_id, s.plan_name, s.total_call_minutes, s.total_data_mb, s.total_sms_count, s.generated_at
		FROM usage_plan_snapshots s
		WHERE s.generated_at = (
			SELECT MAX(s2.generated_at)
			FROM usage_plan_snapshots s2
			WHERE s2.plan_id = s.plan_id
		)
		ORDER BY s.plan_name`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
