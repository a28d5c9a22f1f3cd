package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"

	"github.com/Ramsey-B/corpmatch/pkg/tracing"
)

// Producer publishes DuplicateEvents to the output topic
type Producer struct {
	writer *kafka.Writer
	logger ectologger.Logger
	topic  string
}

// ProducerConfig holds Kafka producer configuration
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int
	Compression  string
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg ProducerConfig, logger ectologger.Logger) *Producer {
	compression := kafka.Snappy
	switch cfg.Compression {
	case "gzip":
		compression = kafka.Gzip
	case "lz4":
		compression = kafka.Lz4
	case "zstd":
		compression = kafka.Zstd
	case "none":
		compression = 0
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:            compression,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
		logger: logger,
		topic:  cfg.Topic,
	}
}

// Close closes the producer
func (p *Producer) Close() error {
	return p.writer.Close()
}

// PublishDuplicate publishes a single duplicate-pair detection.
func (p *Producer) PublishDuplicate(ctx context.Context, evt DuplicateEvent) error {
	ctx, span := tracing.StartSpan(ctx, "kafka.Producer.PublishDuplicate")
	defer span.End()

	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(evt.Name1),
		Value: data,
		Headers: []kafka.Header{
			{Key: "name_1", Value: []byte(evt.Name1)},
			{Key: "name_2", Value: []byte(evt.Name2)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.WithContext(ctx).WithError(err).Error("Failed to publish duplicate event")
		return err
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"name_1": evt.Name1,
		"name_2": evt.Name2,
		"score":  evt.Score,
	}).Debug("Published duplicate event")

	return nil
}

// PublishDuplicates publishes a batch of duplicate-pair detections.
func (p *Producer) PublishDuplicates(ctx context.Context, events []DuplicateEvent) error {
	ctx, span := tracing.StartSpan(ctx, "kafka.Producer.PublishDuplicates")
	defer span.End()

	if len(events) == 0 {
		return nil
	}

	messages := make([]kafka.Message, len(events))
	for i, evt := range events {
		if evt.Timestamp.IsZero() {
			evt.Timestamp = time.Now().UTC()
		}

		data, err := json.Marshal(evt)
		if err != nil {
			return err
		}

		messages[i] = kafka.Message{
			Topic: p.topic,
			Key:   []byte(evt.Name1),
			Value: data,
			Headers: []kafka.Header{
				{Key: "name_1", Value: []byte(evt.Name1)},
				{Key: "name_2", Value: []byte(evt.Name2)},
				{Key: "schema_version", Value: []byte("1.0")},
			},
		}
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		p.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"batch_size": len(events),
		}).Error("Failed to publish duplicate events batch")
		return err
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"batch_size": len(events),
	}).Debug("Published duplicate events batch")

	return nil
}
