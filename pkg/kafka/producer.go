package kafka

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"github.com/OttoDev-System/intellicor-saas/pkg/config"
	"github.com/OttoDev-System/intellicor-saas/pkg/logger"
)

// Message is a single record to publish
type Message struct {
	Topic   string
	Key     string
	Value   []byte
	Headers map[string]string
}

// Producer publishes records to the event stream
type Producer interface {
	Publish(ctx context.Context, msg *Message) error
	Close()
}

// FranzProducer publishes through a franz-go client
type FranzProducer struct {
	client *kgo.Client
}

// NewProducer creates a franz-go backed producer
func NewProducer(cfg config.KafkaConfig) (*FranzProducer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(cfg.ClientID),
		kgo.ProducerLinger(5*time.Millisecond),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.RecordRetries(3),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}
	return &FranzProducer{client: client}, nil
}

// Publish produces the message synchronously
func (p *FranzProducer) Publish(ctx context.Context, msg *Message) error {
	if err := p.client.ProduceSync(ctx, toRecord(msg)).FirstErr(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", msg.Topic, err)
	}
	return nil
}

// Ping checks broker connectivity
func (p *FranzProducer) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

// Close flushes and closes the client
func (p *FranzProducer) Close() {
	p.client.Close()
}

func toRecord(msg *Message) *kgo.Record {
	rec := &kgo.Record{
		Topic: msg.Topic,
		Key:   []byte(msg.Key),
		Value: msg.Value,
	}
	for k, v := range msg.Headers {
		rec.Headers = append(rec.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}
	return rec
}

// MemoryProducer keeps published messages in memory. Used when Kafka is disabled and in tests.
type MemoryProducer struct {
	mu       sync.Mutex
	messages []*Message
	err      error
}

// NewMemoryProducer creates an in-memory producer
func NewMemoryProducer() *MemoryProducer {
	return &MemoryProducer{}
}

// FailWith makes subsequent Publish calls return err
func (p *MemoryProducer) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Publish records the message
func (p *MemoryProducer) Publish(ctx context.Context, msg *Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

// Messages returns a copy of the published messages
func (p *MemoryProducer) Messages() []*Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Message, len(p.messages))
	copy(out, p.messages)
	return out
}

// Close is a no-op
func (p *MemoryProducer) Close() {}

// LogProducer writes messages to the log instead of a broker. Used when Kafka is disabled.
type LogProducer struct {
	log *logger.Logger
}

func NewLogProducer(log *logger.Logger) *LogProducer {
	return &LogProducer{log: log.Named("events")}
}

func (p *LogProducer) Publish(ctx context.Context, msg *Message) error {
	p.log.WithContext(ctx).Debug("event",
		zap.String("topic", msg.Topic),
		zap.String("key", msg.Key),
		zap.Int("bytes", len(msg.Value)),
	)
	return nil
}

func (p *LogProducer) Close() {}
