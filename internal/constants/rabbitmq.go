package constants

// Exchange для событий сервиса
const (
	PredictionsExchange     = "price_estimator_exchange"
	PredictionsExchangeType = "direct"
)

// Ключи маршрутизации
const (
	RoutingKeyPredictionCompleted = "prediction.completed"
)

// Метаданные событий, уходят в заголовки сообщения
const (
	EventTypePredictionCompleted    = "PredictionCompletedEvent"
	EventVersionPredictionCompleted = "1.0.0"
)
