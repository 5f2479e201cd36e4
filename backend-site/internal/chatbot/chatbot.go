// Package chatbot answers landing page chat messages from a fixed keyword table.
package chatbot

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/OttoDev-System/intellicor-saas/pkg/config"
	"github.com/OttoDev-System/intellicor-saas/pkg/logger"
	"github.com/OttoDev-System/intellicor-saas/pkg/telemetry"
)

// Reply is one bot message
type Reply struct {
	Content      string   `json:"content"`
	QuickReplies []string `json:"quick_replies"`
	Key          string   `json:"key"`
}

// Matched reports whether a keyword rule produced the reply
func (r Reply) Matched() bool {
	return r.Key != DefaultKey
}

// DelayFunc returns how long to wait before answering
type DelayFunc func() time.Duration

// UniformDelay waits min plus a uniform random amount up to max
func UniformDelay(minDelay, maxDelay time.Duration) DelayFunc {
	return func() time.Duration {
		if maxDelay <= minDelay {
			return minDelay
		}
		return minDelay + rand.N(maxDelay-minDelay)
	}
}

// NoDelay answers immediately
func NoDelay() time.Duration { return 0 }

// Responder matches utterances against the keyword table
type Responder struct {
	delay   DelayFunc
	log     *logger.Logger
	metrics *telemetry.SiteMetrics
}

// Option configures a Responder
type Option func(*Responder)

func WithDelay(d DelayFunc) Option {
	return func(r *Responder) { r.delay = d }
}

func WithLogger(l *logger.Logger) Option {
	return func(r *Responder) { r.log = l }
}

func WithMetrics(m *telemetry.SiteMetrics) Option {
	return func(r *Responder) { r.metrics = m }
}

// FromConfig builds a responder with the configured latency window
func FromConfig(cfg config.ChatbotConfig, opts ...Option) *Responder {
	return New(append([]Option{WithDelay(UniformDelay(cfg.MinDelay, cfg.MaxDelay))}, opts...)...)
}

// New creates a responder. The default delay is 1s plus up to 1s.
func New(opts ...Option) *Responder {
	r := &Responder{
		delay: UniformDelay(time.Second, 2*time.Second),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Get()
	}
	if r.metrics == nil {
		r.metrics = telemetry.NopSiteMetrics()
	}
	return r
}

// Match returns the reply for an utterance without waiting
func Match(utterance string) Reply {
	text := strings.ToLower(strings.TrimSpace(utterance))
	for _, e := range entries {
		if strings.Contains(text, e.Key) {
			return newReply(e)
		}
	}
	return newReply(fallback)
}

func newReply(e Entry) Reply {
	qr := make([]string, len(e.QuickReplies))
	copy(qr, e.QuickReplies)
	return Reply{Content: e.Content, QuickReplies: qr, Key: e.Key}
}

// Respond waits the simulated latency, then answers. A cancelled ctx aborts the wait.
func (r *Responder) Respond(ctx context.Context, utterance, tenantID string) (Reply, error) {
	if d := r.delay(); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return Reply{}, ctx.Err()
		case <-timer.C:
		}
	}

	reply := Match(utterance)
	r.metrics.ChatReplies.Inc(ctx, telemetry.TenantAttr(tenantID), telemetry.ChatMatchedAttr(reply.Matched()))
	r.log.WithContext(ctx).Debug("chatbot reply",
		zap.String("tenant_id", tenantID),
		zap.String("key", reply.Key),
	)
	return reply, nil
}

// Welcome returns the greeting shown when the chat opens
func Welcome(tenantName string) Reply {
	qr := make([]string, len(welcomeQuickReplies))
	copy(qr, welcomeQuickReplies)
	return Reply{
		Content:      fmt.Sprintf(welcomeTemplate, tenantName),
		QuickReplies: qr,
		Key:          "welcome",
	}
}
