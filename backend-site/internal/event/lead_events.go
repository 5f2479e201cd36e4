package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
	"github.com/OttoDev-System/intellicor-saas/pkg/kafka"
)

// Event types carried in the event_type field and the message header
const (
	TypeLeadCaptured      = "lead.captured"
	TypeLeadStatusChanged = "lead.status_changed"
)

// DefaultLeadsTopic is used when the config leaves the topic empty
const DefaultLeadsTopic = "intellicor.leads"

// LeadCapturedEvent is published when a quote or contact form is submitted
type LeadCapturedEvent struct {
	EventType string            `json:"event_type"`
	LeadID    string            `json:"lead_id"`
	TenantID  string            `json:"tenant_id"`
	Kind      domain.LeadKind   `json:"kind"`
	Product   domain.Product    `json:"product,omitempty"`
	Interest  domain.Interest   `json:"interest,omitempty"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	Details   map[string]string `json:"details,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Key returns the Kafka message key for partitioning
func (e *LeadCapturedEvent) Key() string {
	return e.TenantID
}

// LeadStatusChangedEvent is published after a pipeline transition
type LeadStatusChangedEvent struct {
	EventType string            `json:"event_type"`
	LeadID    string            `json:"lead_id"`
	TenantID  string            `json:"tenant_id"`
	From      domain.LeadStatus `json:"from"`
	To        domain.LeadStatus `json:"to"`
	ChangedBy string            `json:"changed_by,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Key returns the Kafka message key for partitioning
func (e *LeadStatusChangedEvent) Key() string {
	return e.TenantID
}

// LeadPublisher emits lead lifecycle events
type LeadPublisher interface {
	LeadCaptured(ctx context.Context, lead *domain.Lead) error
	LeadStatusChanged(ctx context.Context, lead *domain.Lead, transition *domain.LeadTransition) error
}

// KafkaLeadPublisher writes lead events to a single topic keyed by tenant
type KafkaLeadPublisher struct {
	producer kafka.Producer
	topic    string
}

func NewKafkaLeadPublisher(producer kafka.Producer, topic string) *KafkaLeadPublisher {
	if topic == "" {
		topic = DefaultLeadsTopic
	}
	return &KafkaLeadPublisher{producer: producer, topic: topic}
}

func (p *KafkaLeadPublisher) LeadCaptured(ctx context.Context, lead *domain.Lead) error {
	evt := &LeadCapturedEvent{
		EventType: TypeLeadCaptured,
		LeadID:    lead.ID,
		TenantID:  lead.TenantID,
		Kind:      lead.Kind,
		Product:   lead.Product,
		Interest:  lead.Interest,
		Name:      lead.Name,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Details:   lead.Details,
		Timestamp: lead.CreatedAt,
	}
	return p.publish(ctx, TypeLeadCaptured, evt.Key(), evt)
}

func (p *KafkaLeadPublisher) LeadStatusChanged(ctx context.Context, lead *domain.Lead, transition *domain.LeadTransition) error {
	evt := &LeadStatusChangedEvent{
		EventType: TypeLeadStatusChanged,
		LeadID:    lead.ID,
		TenantID:  lead.TenantID,
		From:      transition.From,
		To:        transition.To,
		ChangedBy: transition.ChangedBy,
		Timestamp: transition.Timestamp,
	}
	return p.publish(ctx, TypeLeadStatusChanged, evt.Key(), evt)
}

func (p *KafkaLeadPublisher) publish(ctx context.Context, eventType, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", eventType, err)
	}
	return p.producer.Publish(ctx, &kafka.Message{
		Topic:   p.topic,
		Key:     key,
		Value:   value,
		Headers: map[string]string{"event_type": eventType},
	})
}
