package tenant

import (
	"context"
	"errors"
	"net"
	"strings"

	"go.uber.org/zap"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
	"github.com/OttoDev-System/intellicor-saas/pkg/config"
	"github.com/OttoDev-System/intellicor-saas/pkg/logger"
	"github.com/OttoDev-System/intellicor-saas/pkg/telemetry"
)

// RequestContext is the part of a request that selects a tenant
type RequestContext struct {
	Host string
	// Query is the "tenant" query parameter
	Query string
	// Header is the X-Tenant header
	Header string
}

// ResolverConfig controls host parsing
type ResolverConfig struct {
	RootDomain       string
	DevHosts         []string
	DefaultSubdomain string
}

// ResolverConfigFrom adapts the application tenancy settings
func ResolverConfigFrom(c config.TenancyConfig) ResolverConfig {
	return ResolverConfig{
		RootDomain:       c.RootDomain,
		DevHosts:         c.DevHosts,
		DefaultSubdomain: c.DefaultSubdomain,
	}
}

// Resolver derives the tenant for a request. It never fails: misses and lookup
// errors fall back to the registry's default tenant.
type Resolver struct {
	lookup           Lookup
	rootSuffix       string
	devHosts         map[string]struct{}
	defaultSubdomain string
	log              *logger.Logger
	metrics          *telemetry.SiteMetrics
}

// NewResolver creates a resolver. log and metrics may be nil.
func NewResolver(lookup Lookup, cfg ResolverConfig, log *logger.Logger, metrics *telemetry.SiteMetrics) *Resolver {
	if log == nil {
		log = logger.Get()
	}
	if metrics == nil {
		metrics = telemetry.NopSiteMetrics()
	}
	if cfg.DefaultSubdomain == "" {
		cfg.DefaultSubdomain = "demo"
	}

	dev := make(map[string]struct{}, len(cfg.DevHosts))
	for _, h := range cfg.DevHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			dev[h] = struct{}{}
		}
	}

	root := strings.ToLower(strings.Trim(strings.TrimSpace(cfg.RootDomain), "."))
	suffix := ""
	if root != "" {
		suffix = "." + root
	}

	return &Resolver{
		lookup:           lookup,
		rootSuffix:       suffix,
		devHosts:         dev,
		defaultSubdomain: cfg.DefaultSubdomain,
		log:              log.Named("tenant"),
		metrics:          metrics,
	}
}

// NormalizeHost strips the port and lower-cases the host
func NormalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.ToLower(strings.TrimSuffix(host, "."))
}

// IsDevHost reports whether host is a development host
func (r *Resolver) IsDevHost(host string) bool {
	_, ok := r.devHosts[NormalizeHost(host)]
	return ok
}

// Candidate returns the subdomain a request asks for, before lookup
func (r *Resolver) Candidate(rc RequestContext) string {
	host := NormalizeHost(rc.Host)

	if r.rootSuffix != "" && strings.HasSuffix(host, r.rootSuffix) {
		rest := strings.TrimSuffix(host, r.rootSuffix)
		if label, _, _ := strings.Cut(rest, "."); label != "" {
			return label
		}
		return r.defaultSubdomain
	}

	if _, ok := r.devHosts[host]; ok {
		if rc.Header != "" {
			return rc.Header
		}
		if rc.Query != "" {
			return rc.Query
		}
	}

	return r.defaultSubdomain
}

// Resolve returns the tenant for the request, falling back to the default tenant
func (r *Resolver) Resolve(ctx context.Context, rc RequestContext) *domain.Tenant {
	candidate := r.Candidate(rc)

	t, err := r.lookup.Lookup(ctx, candidate)
	if err == nil && t != nil {
		r.metrics.TenantResolutions.Inc(ctx, telemetry.TenantAttr(t.Subdomain), telemetry.ResolutionAttr(telemetry.ResolutionMatched))
		return t
	}

	fallback := r.lookup.Default()
	log := r.log.WithContext(ctx)
	if err == nil || errors.Is(err, ErrTenantNotFound) {
		log.Warn("tenant not found, using default",
			zap.String("host", rc.Host),
			zap.String("subdomain", candidate),
			zap.String("default", fallback.Subdomain),
		)
		r.metrics.TenantResolutions.Inc(ctx, telemetry.TenantAttr(fallback.Subdomain), telemetry.ResolutionAttr(telemetry.ResolutionFallback))
	} else {
		log.Error("tenant lookup failed, using default",
			zap.String("host", rc.Host),
			zap.String("subdomain", candidate),
			zap.String("default", fallback.Subdomain),
			zap.Error(err),
		)
		r.metrics.TenantResolutions.Inc(ctx, telemetry.TenantAttr(fallback.Subdomain), telemetry.ResolutionAttr(telemetry.ResolutionError))
	}
	return fallback
}
