package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiva/autospecs/internal/model"
)

// ErrPlanNotFound is returned when a trip plan does not exist.
var ErrPlanNotFound = errors.New("trip plan not found")

// TripPlanRepository persists saved trip plans. The analysis snapshot
// is stored as JSONB — it is a derived record, recomputed on demand,
// so the stored copy is informational only.
type TripPlanRepository struct {
	pool *pgxpool.Pool
}

// NewTripPlanRepository creates a repository backed by the given PG pool.
func NewTripPlanRepository(pool *pgxpool.Pool) *TripPlanRepository {
	return &TripPlanRepository{pool: pool}
}

// Create inserts a trip plan and returns it with ID and timestamp set.
func (r *TripPlanRepository) Create(ctx context.Context, plan *model.TripPlan) (*model.TripPlan, error) {
	analysisJSON, err := marshalAnalysis(plan.Analysis)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO trip_plans
			(label, origin_lat, origin_lon, dest_lat, dest_lon,
			 dest_address, distance_km, duration_text, analysis)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err = r.pool.QueryRow(ctx, query,
		plan.Label,
		plan.Origin.Lat, plan.Origin.Lon,
		plan.Destination.Lat, plan.Destination.Lon,
		plan.DestinationAddress,
		plan.DistanceKm, plan.DurationText,
		analysisJSON,
	).Scan(&plan.ID, &plan.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create trip plan: %w", err)
	}

	return plan, nil
}

// Get fetches a single trip plan by ID.
func (r *TripPlanRepository) Get(ctx context.Context, id int64) (*model.TripPlan, error) {
	query := `
		SELECT id, label, origin_lat, origin_lon, dest_lat, dest_lon,
		       dest_address, distance_km, duration_text, analysis, created_at
		FROM trip_plans
		WHERE id = $1`

	plan, err := scanPlan(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("get trip plan %d: %w", id, err)
	}
	return plan, nil
}

// List returns the most recent trip plans, newest first.
func (r *TripPlanRepository) List(ctx context.Context, limit int) ([]model.TripPlan, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `
		SELECT id, label, origin_lat, origin_lon, dest_lat, dest_lon,
		       dest_address, distance_km, duration_text, analysis, created_at
		FROM trip_plans
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list trip plans: %w", err)
	}
	defer rows.Close()

	plans := make([]model.TripPlan, 0, limit)
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trip plan: %w", err)
		}
		plans = append(plans, *plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trip plans: %w", err)
	}

	return plans, nil
}

// Delete removes a trip plan. Returns ErrPlanNotFound when no row matched.
func (r *TripPlanRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM trip_plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete trip plan %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// ─── Helpers ────────────────────────────────────────────────

// rowScanner covers both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*model.TripPlan, error) {
	plan := &model.TripPlan{}
	var analysisJSON []byte

	err := row.Scan(
		&plan.ID, &plan.Label,
		&plan.Origin.Lat, &plan.Origin.Lon,
		&plan.Destination.Lat, &plan.Destination.Lon,
		&plan.DestinationAddress,
		&plan.DistanceKm, &plan.DurationText,
		&analysisJSON, &plan.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(analysisJSON) > 0 {
		analysis := &model.TripAnalysis{}
		if err := json.Unmarshal(analysisJSON, analysis); err == nil {
			plan.Analysis = analysis
		}
	}
	return plan, nil
}

func marshalAnalysis(a *model.TripAnalysis) ([]byte, error) {
	if a == nil {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal analysis: %w", err)
	}
	return b, nil
}
