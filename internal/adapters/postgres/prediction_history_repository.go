package postgres_adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX - часть *pgxpool.Pool, которой пользуется репозиторий
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const createPredictionsTable = `
	CREATE TABLE IF NOT EXISTS price_predictions (
		id          UUID PRIMARY KEY,
		input       JSONB NOT NULL,
		point       DOUBLE PRECISION NOT NULL,
		is_range    BOOLEAN NOT NULL DEFAULT FALSE,
		min_price   DOUBLE PRECISION,
		max_price   DOUBLE PRECISION,
		band_low    DOUBLE PRECISION NOT NULL DEFAULT 0,
		band_high   DOUBLE PRECISION NOT NULL DEFAULT 0,
		display     TEXT NOT NULL,
		currency    TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL
	)
`

// PredictionHistoryRepository хранит выполненные оценки в PostgreSQL
type PredictionHistoryRepository struct {
	db DBTX
}

func NewPredictionHistoryRepository(db DBTX) (*PredictionHistoryRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle cannot be nil")
	}
	return &PredictionHistoryRepository{db: db}, nil
}

// EnsureSchema создает таблицу, если ее еще нет
func (r *PredictionHistoryRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createPredictionsTable); err != nil {
		return fmt.Errorf("failed to create price_predictions table: %w", err)
	}
	return nil
}

func (r *PredictionHistoryRepository) Save(ctx context.Context, estimate *domain.PriceEstimate) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":     "PredictionHistoryRepository",
		"method":        "Save",
		"prediction_id": estimate.ID.String(),
	})

	repoLogger.Debug("Saving prediction", nil)

	inputJSON, err := json.Marshal(estimate.Input)
	if err != nil {
		repoLogger.Error("Failed to marshal prediction input", err, nil)
		return fmt.Errorf("failed to marshal prediction input: %w", err)
	}

	var minPrice, maxPrice *float64
	if estimate.Result.IsRange {
		minPrice, maxPrice = &estimate.Result.Min, &estimate.Result.Max
	}

	query := `
		INSERT INTO price_predictions
			(id, input, point, is_range, min_price, max_price, band_low, band_high, display, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = r.db.Exec(ctx, query,
		estimate.ID,
		inputJSON,
		estimate.Result.Point,
		estimate.Result.IsRange,
		minPrice,
		maxPrice,
		estimate.Band.Low,
		estimate.Band.High,
		estimate.Display,
		estimate.Currency,
		estimate.CreatedAt,
	)
	if err != nil {
		repoLogger.Error("Failed to insert prediction", err, nil)
		return fmt.Errorf("failed to save prediction: %w", err)
	}

	repoLogger.Debug("Prediction saved", nil)
	return nil
}

func (r *PredictionHistoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PriceEstimate, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":     "PredictionHistoryRepository",
		"method":        "GetByID",
		"prediction_id": id.String(),
	})

	query := `
		SELECT id, input, point, is_range, min_price, max_price, band_low, band_high, display, currency, created_at
		FROM price_predictions
		WHERE id = $1
	`

	var (
		estimate           domain.PriceEstimate
		inputJSON          []byte
		minPrice, maxPrice *float64
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&estimate.ID,
		&inputJSON,
		&estimate.Result.Point,
		&estimate.Result.IsRange,
		&minPrice,
		&maxPrice,
		&estimate.Band.Low,
		&estimate.Band.High,
		&estimate.Display,
		&estimate.Currency,
		&estimate.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Warn("Prediction not found", nil)
			return nil, domain.ErrPredictionNotFound
		}
		repoLogger.Error("Failed to query prediction", err, nil)
		return nil, fmt.Errorf("failed to get prediction by id: %w", err)
	}

	if minPrice != nil {
		estimate.Result.Min = *minPrice
	}
	if maxPrice != nil {
		estimate.Result.Max = *maxPrice
	}

	dec := json.NewDecoder(bytes.NewReader(inputJSON))
	dec.UseNumber()
	if err := dec.Decode(&estimate.Input); err != nil {
		repoLogger.Error("Failed to unmarshal prediction input", err, nil)
		return nil, fmt.Errorf("failed to unmarshal prediction input: %w", err)
	}

	return &estimate, nil
}
