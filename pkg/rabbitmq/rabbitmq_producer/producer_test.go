package rabbitmq_producer

import (
	"errors"
	"strings"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"

	"price-estimator-service/pkg/rabbitmq/rabbitmq_common"
)

func TestPublisherConfigValidate(t *testing.T) {
	base := rabbitmq_common.Config{URL: "amqp://localhost:5672/"}

	cases := []struct {
		name    string
		cfg     PublisherConfig
		wantErr bool
	}{
		{"declared exchange", PublisherConfig{Config: base, ExchangeName: "price_estimator_exchange", ExchangeType: "direct", DeclareExchangeIfMissing: true}, false},
		{"default exchange", PublisherConfig{Config: base}, false},
		{"name without type", PublisherConfig{Config: base, ExchangeName: "x", DeclareExchangeIfMissing: true}, true},
		{"type without name", PublisherConfig{Config: base, ExchangeType: "direct", DeclareExchangeIfMissing: true}, true},
		{"bad url", PublisherConfig{Config: rabbitmq_common.Config{URL: "localhost"}}, true},
	}
	for _, tc := range cases {
		if err := tc.cfg.validate(); (err != nil) != tc.wantErr {
			t.Errorf("%s: validate() = %v, wantErr %v", tc.name, err, tc.wantErr)
		}
	}
}

func TestNewPublisher_NilManager(t *testing.T) {
	cfg := PublisherConfig{Config: rabbitmq_common.Config{URL: "amqp://localhost:5672/"}}
	if _, err := NewPublisher(cfg, nil); err == nil {
		t.Fatalf("expected error for nil connection manager")
	}
}

type failingSource struct{ calls int }

func (s *failingSource) GetChannel() (*amqp.Connection, *amqp.Channel, error) {
	s.calls++
	return nil, nil, errors.New("connection refused")
}

func TestNewPublisher_ChannelFailure(t *testing.T) {
	src := &failingSource{}
	cfg := PublisherConfig{Config: rabbitmq_common.Config{URL: "amqp://localhost:5672/"}}

	_, err := NewPublisher(cfg, src)
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("err = %v, want wrapped channel error", err)
	}
	if src.calls != 1 {
		t.Fatalf("GetChannel called %d times, want 1", src.calls)
	}
}
