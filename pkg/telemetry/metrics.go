package telemetry

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricOpts holds options for creating metrics
type MetricOpts struct {
	Name        string
	Description string
	Unit        string
}

// Counter wraps an OTel counter
type Counter struct {
	counter metric.Int64Counter
}

// NewCounter creates a counter on the given meter
func NewCounter(meter metric.Meter, opts MetricOpts) (*Counter, error) {
	counter, err := meter.Int64Counter(
		opts.Name,
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	)
	if err != nil {
		return nil, err
	}
	return &Counter{counter: counter}, nil
}

// Inc increments the counter by 1
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// Histogram wraps an OTel histogram
type Histogram struct {
	histogram metric.Float64Histogram
}

// NewHistogram creates a histogram with explicit bucket boundaries
func NewHistogram(meter metric.Meter, opts MetricOpts, boundaries ...float64) (*Histogram, error) {
	options := []metric.Float64HistogramOption{
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	}
	if len(boundaries) > 0 {
		options = append(options, metric.WithExplicitBucketBoundaries(boundaries...))
	}
	histogram, err := meter.Float64Histogram(opts.Name, options...)
	if err != nil {
		return nil, err
	}
	return &Histogram{histogram: histogram}, nil
}

// Record records a value in the histogram
func (h *Histogram) Record(ctx context.Context, value float64, attrs ...attribute.KeyValue) {
	h.histogram.Record(ctx, value, metric.WithAttributes(attrs...))
}

// Common metric attribute keys
const (
	AttrServiceName  = "service.name"
	AttrMethod       = "http.method"
	AttrPath         = "http.route"
	AttrStatusCode   = "http.status_code"
	AttrTenant       = "tenant.subdomain"
	AttrResolution   = "tenant.resolution"
	AttrLeadKind     = "lead.kind"
	AttrLeadStatus   = "lead.status"
	AttrChatMatched  = "chat.matched"
	AttrAuthProvider = "auth.provider"
	AttrAuthResult   = "auth.result"
)

// Tenant resolution outcomes
const (
	ResolutionMatched  = "matched"
	ResolutionFallback = "fallback"
	ResolutionError    = "error"
)

func TenantAttr(subdomain string) attribute.KeyValue {
	return attribute.String(AttrTenant, subdomain)
}

func ResolutionAttr(outcome string) attribute.KeyValue {
	return attribute.String(AttrResolution, outcome)
}

func LeadKindAttr(kind string) attribute.KeyValue {
	return attribute.String(AttrLeadKind, kind)
}

func LeadStatusAttr(status string) attribute.KeyValue {
	return attribute.String(AttrLeadStatus, status)
}

func ChatMatchedAttr(matched bool) attribute.KeyValue {
	return attribute.Bool(AttrChatMatched, matched)
}

// SiteMetrics holds the instruments recorded by the site
type SiteMetrics struct {
	TenantResolutions *Counter
	LeadsCaptured     *Counter
	LeadTransitions   *Counter
	ChatReplies       *Counter
	Logins            *Counter
	RequestDuration   *Histogram
}

// NewSiteMetrics registers all site instruments on meter
func NewSiteMetrics(meter metric.Meter) (*SiteMetrics, error) {
	var (
		m   SiteMetrics
		err error
	)

	if m.TenantResolutions, err = NewCounter(meter, MetricOpts{
		Name:        "intellicor.tenant.resolutions",
		Description: "Tenant resolutions by outcome",
		Unit:        "{resolution}",
	}); err != nil {
		return nil, err
	}
	if m.LeadsCaptured, err = NewCounter(meter, MetricOpts{
		Name:        "intellicor.leads.captured",
		Description: "Quote and contact leads captured",
		Unit:        "{lead}",
	}); err != nil {
		return nil, err
	}
	if m.LeadTransitions, err = NewCounter(meter, MetricOpts{
		Name:        "intellicor.leads.transitions",
		Description: "Lead pipeline status changes",
		Unit:        "{transition}",
	}); err != nil {
		return nil, err
	}
	if m.ChatReplies, err = NewCounter(meter, MetricOpts{
		Name:        "intellicor.chat.replies",
		Description: "Chatbot replies by whether a keyword matched",
		Unit:        "{reply}",
	}); err != nil {
		return nil, err
	}
	if m.Logins, err = NewCounter(meter, MetricOpts{
		Name:        "intellicor.auth.logins",
		Description: "Login attempts by result",
		Unit:        "{attempt}",
	}); err != nil {
		return nil, err
	}
	if m.RequestDuration, err = NewHistogram(meter, MetricOpts{
		Name:        "intellicor.http.request.duration",
		Description: "HTTP request duration",
		Unit:        "ms",
	}, 1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500); err != nil {
		return nil, err
	}

	return &m, nil
}

// NopSiteMetrics returns instruments backed by the global no-op meter
func NopSiteMetrics() *SiteMetrics {
	m, _ := NewSiteMetrics(GetMeter())
	return m
}

// MetricsMiddleware records request duration per route
func (m *SiteMetrics) MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestDuration.Record(c.Request.Context(),
			float64(time.Since(start).Microseconds())/1000.0,
			attribute.String(AttrMethod, c.Request.Method),
			attribute.String(AttrPath, route),
			attribute.Int(AttrStatusCode, c.Writer.Status()),
		)
	}
}

func AuthAttrs(provider, result string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrAuthProvider, provider),
		attribute.String(AttrAuthResult, result),
	}
}
