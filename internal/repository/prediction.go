package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ligapro-predictor/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type PredictionRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPredictionRepository(sqlDB *sql.DB, logger zerolog.Logger) *PredictionRepository {
	return &PredictionRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// Save stores one predict invocation. An empty ID or zero CreatedAt is filled in.
func (r *PredictionRepository) Save(ctx context.Context, rec *domain.PredictionRecord) error {
	if rec.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
		rec.ID = id
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO predictions (
			id, session_id, home_code, away_code, outcome_code,
			home_goals, away_goals, total_corners, model_version, error, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, rec.HomeCode, rec.AwayCode, rec.OutcomeCode,
		rec.HomeGoals, rec.AwayGoals, rec.TotalCorners, rec.ModelVersion, rec.Error, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert prediction %s: %w", rec.ID, err)
	}

	r.logger.Debug().Str("id", rec.ID).Str("session_id", rec.SessionID).Msg("prediction journaled")
	return nil
}

// Recent lists the newest records first.
func (r *PredictionRepository) Recent(ctx context.Context, limit int) ([]domain.PredictionRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, home_code, away_code, outcome_code,
			home_goals, away_goals, total_corners, model_version, error, created_at
		FROM predictions
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.PredictionRecord{}
	for rows.Next() {
		var (
			rec          domain.PredictionRecord
			outcome      sql.NullInt64
			home, away   sql.NullFloat64
			totalCorners sql.NullFloat64
		)
		if err := rows.Scan(
			&rec.ID, &rec.SessionID, &rec.HomeCode, &rec.AwayCode, &outcome,
			&home, &away, &totalCorners, &rec.ModelVersion, &rec.Error, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		if outcome.Valid {
			v := int(outcome.Int64)
			rec.OutcomeCode = &v
		}
		rec.HomeGoals = nullFloat(home)
		rec.AwayGoals = nullFloat(away)
		rec.TotalCorners = nullFloat(totalCorners)
		result = append(result, rec)
	}
	return result, rows.Err()
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
