package repository

import (
	"context"

	"art_contest_admin/internal/domain/campaign/model"

	"github.com/jmoiron/sqlx"
)

// StatsRepository 报表查询，直接写 SQL
type StatsRepository interface {
	Stats(ctx context.Context) (*model.Stats, error)
}

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

const campaignStatsQuery = `
SELECT
	COUNT(*) AS total_campaigns,
	COUNT(*) FILTER (WHERE status = 'active') AS active_campaigns,
	COALESCE(SUM(entry_fee_amount * current_participants) FILTER (WHERE campaign_type = 'premium'), 0) AS total_revenue
FROM campaigns
WHERE deleted_at IS NULL`

const submissionCountQuery = `
SELECT COUNT(*)
FROM submissions s
JOIN campaigns c ON c.id = s.campaign_id
WHERE s.deleted_at IS NULL AND c.deleted_at IS NULL`

func (r *statsRepository) Stats(ctx context.Context) (*model.Stats, error) {
	var stats model.Stats
	if err := r.db.GetContext(ctx, &stats, campaignStatsQuery); err != nil {
		return nil, err
	}
	if err := r.db.GetContext(ctx, &stats.TotalSubmissions, submissionCountQuery); err != nil {
		return nil, err
	}
	return &stats, nil
}
