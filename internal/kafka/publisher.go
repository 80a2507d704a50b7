package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/complaint-registry/internal/config"
	"github.com/nguyentranbao-ct/complaint-registry/internal/models"
	"github.com/nguyentranbao-ct/complaint-registry/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
)

const headerEventName = "event-name"

// Publisher emits domain events after a mutation has been persisted.
type Publisher interface {
	Publish(ctx context.Context, event models.Event) error
	Close() error
}

type kafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	metrics  *prometheus.HistogramVec
}

// NewPublisher creates a synchronous Kafka producer, or a no-op publisher
// when Kafka is disabled.
func NewPublisher(conf *config.Config) (Publisher, error) {
	cfg := conf.Kafka
	if !cfg.Enabled {
		return &noopPublisher{}, nil
	}

	sc := sarama.NewConfig()
	sc.ClientID = "complaint-registry"
	sc.Producer.Return.Successes = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Timeout = cfg.Timeout
	sc.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("new sync producer: %w", err)
	}
	return newPublisher(producer, cfg.Topic)
}

func newPublisher(producer sarama.SyncProducer, topic string) (Publisher, error) {
	metrics, err := util.GetHistogramVec("kafka_events_published", "code", "topic")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}
	return &kafkaPublisher{
		producer: producer,
		topic:    topic,
		metrics:  metrics,
	}, nil
}

func (p *kafkaPublisher) Publish(ctx context.Context, event models.Event) error {
	start := time.Now()
	if event.OccurredAt.IsZero() {
		event.OccurredAt = start
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Key),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte(headerEventName), Value: []byte(event.Name)},
		},
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		err = fmt.Errorf("send %s event: %w", event.Name, err)
	}

	code := getCode(err)
	log.Logw(ctx, getLogLevel(code), string(event.Name),
		"code", code,
		"duration_ms", time.Since(start).Milliseconds(),
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"key", event.Key,
	)
	p.metrics.
		WithLabelValues(code.String(), p.topic).
		Observe(time.Since(start).Seconds())
	return err
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// noopPublisher is used when Kafka is disabled
type noopPublisher struct{}

func (n *noopPublisher) Publish(ctx context.Context, event models.Event) error {
	log.Debugw(ctx, "Kafka publisher is disabled, dropping event", "event", event.Name, "key", event.Key)
	return nil
}

func (n *noopPublisher) Close() error {
	return nil
}
