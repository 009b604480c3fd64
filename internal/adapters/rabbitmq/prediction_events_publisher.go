package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"price-estimator-service/internal/constants"
	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// MessagePublisher - часть *rabbitmq_producer.Publisher, нужная адаптеру
type MessagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// PredictionCompletedDTO - тело события prediction.completed
type PredictionCompletedDTO struct {
	PredictionID uuid.UUID      `json:"prediction_id"`
	Prediction   float64        `json:"prediction"`
	Low          *float64       `json:"low,omitempty"`
	High         *float64       `json:"high,omitempty"`
	Display      string         `json:"display"`
	Currency     string         `json:"currency"`
	Input        map[string]any `json:"input"`
	CreatedAt    time.Time      `json:"created_at"`
}

type PredictionEventsPublisher struct {
	producer   MessagePublisher
	routingKey string
	timeout    time.Duration
}

func NewPredictionEventsPublisher(producer MessagePublisher, routingKey string) (*PredictionEventsPublisher, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &PredictionEventsPublisher{
		producer:   producer,
		routingKey: routingKey,
		timeout:    10 * time.Second,
	}, nil
}

func (a *PredictionEventsPublisher) PublishPredictionCompleted(ctx context.Context, estimate *domain.PriceEstimate) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":     "PredictionEventsPublisher",
		"routing_key":   a.routingKey,
		"prediction_id": estimate.ID.String(),
	})

	dto := PredictionCompletedDTO{
		PredictionID: estimate.ID,
		Prediction:   estimate.Result.Point,
		Display:      estimate.Display,
		Currency:     estimate.Currency,
		Input:        estimate.Input,
		CreatedAt:    estimate.CreatedAt,
	}
	if estimate.Result.IsRange {
		low, high := estimate.Result.Min, estimate.Result.Max
		dto.Low, dto.High = &low, &high
	}

	body, err := json.Marshal(dto)
	if err != nil {
		adapterLogger.Error("Failed to marshal event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to marshal prediction event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		MessageId:    estimate.ID.String(),
		Type:         constants.EventTypePredictionCompleted,
		Headers: amqp.Table{
			"x-event-type":    constants.EventTypePredictionCompleted,
			"x-event-version": constants.EventVersionPredictionCompleted,
		},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish prediction event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish prediction %s: %w", estimate.ID, err)
	}

	adapterLogger.Debug("Prediction event published", nil)
	return nil
}
