package laddernotify

import (
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/padel-ladder/app/shared/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
)

// TestEnvironmentValue disables publisher metrics.
const TestEnvironmentValue = "test"

// NewNATSPublisher connects a watermill publisher to NATS. With a registry outside the test
// environment the publisher is decorated with Prometheus metrics.
func NewNATSPublisher(url string, logger *slog.Logger, registry *prometheus.Registry, environment string) (message.Publisher, error) {
	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:       url,
			Marshaler: &nats.NATSMarshaler{},
			NatsOptions: []nc.Option{
				nc.RetryOnFailedConnect(true),
				nc.Name("padel-ladder"),
			},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		logger.Error("Failed to create Watermill publisher", attr.Error(err))
		return nil, fmt.Errorf("failed to create Watermill publisher: %w", err)
	}

	return decorate(publisher, logger, registry, environment)
}

func decorate(publisher message.Publisher, logger *slog.Logger, registry *prometheus.Registry, environment string) (message.Publisher, error) {
	if registry == nil || environment == TestEnvironmentValue {
		logger.Info("Skipping publisher metrics",
			attr.String("environment", environment),
			attr.Any("registry_provided", registry != nil),
		)
		return publisher, nil
	}

	builder := metrics.NewPrometheusMetricsBuilder(registry, "ladder", "notifications")
	decorated, err := builder.DecoratePublisher(publisher)
	if err != nil {
		_ = publisher.Close()
		return nil, fmt.Errorf("failed to decorate publisher with metrics: %w", err)
	}
	return decorated, nil
}
