package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/OttoDev-System/intellicor-saas/pkg/logger"
)

// AuditAction represents the type of action being audited
type AuditAction string

const (
	AuditActionCreate        AuditAction = "create"
	AuditActionUpdate        AuditAction = "update"
	AuditActionDelete        AuditAction = "delete"
	AuditActionView          AuditAction = "view"
	AuditActionLogin         AuditAction = "login"
	AuditActionLogout        AuditAction = "logout"
	AuditActionRegister      AuditAction = "register"
	AuditActionPasswordReset AuditAction = "password_reset"
	AuditActionSwitchRole    AuditAction = "switch_role"
	AuditActionQuoteRequest  AuditAction = "quote_request"
	AuditActionContact       AuditAction = "contact_request"
	AuditActionStatusChange  AuditAction = "status_change"
)

// Context keys for audit data
const (
	ContextKeyAuditResourceType = "audit_resource_type"
	ContextKeyAuditResourceID   = "audit_resource_id"
	ContextKeyAuditOldValues    = "audit_old_values"
	ContextKeyAuditNewValues    = "audit_new_values"
	ContextKeyAuditMetadata     = "audit_metadata"
	ContextKeyAuditTenant       = "audit_tenant"
	contextKeyAuditSkip         = "audit_skip"
)

// AuditEntry represents a single audit log entry
type AuditEntry struct {
	ID           string                 `json:"id"`
	Tenant       string                 `json:"tenant,omitempty"`
	UserID       *string                `json:"user_id,omitempty"`
	UserEmail    string                 `json:"user_email,omitempty"`
	UserRole     string                 `json:"user_role,omitempty"`
	Action       AuditAction            `json:"action"`
	ResourceType string                 `json:"resource_type"`
	ResourceID   *string                `json:"resource_id,omitempty"`
	Status       int                    `json:"status"`
	IPAddress    string                 `json:"ip_address,omitempty"`
	UserAgent    string                 `json:"user_agent,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	OldValues    map[string]interface{} `json:"old_values,omitempty"`
	NewValues    map[string]interface{} `json:"new_values,omitempty"`
	Changes      map[string]interface{} `json:"changes,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

// AuditStore persists batches of audit entries
type AuditStore interface {
	SaveAuditEntries(ctx context.Context, entries []*AuditEntry) error
}

// AuditConfig holds configuration for the audit middleware
type AuditConfig struct {
	Store         AuditStore
	BufferSize    int
	FlushInterval time.Duration
	BatchSize     int
	SkipPaths     []string
	// SkipMethods defaults to GET, HEAD, OPTIONS
	SkipMethods       []string
	ActionMapper      func(method, path string) AuditAction
	ResourceExtractor func(path string) (resourceType string, resourceID string)
	// EnableRequestBody captures the JSON body with sensitive fields masked
	EnableRequestBody bool
	MaxBodySize       int
	SensitiveFields   []string
}

// DefaultAuditConfig returns default configuration
func DefaultAuditConfig(store AuditStore) *AuditConfig {
	return &AuditConfig{
		Store:             store,
		BufferSize:        1000,
		FlushInterval:     5 * time.Second,
		BatchSize:         100,
		SkipPaths:         []string{"/health", "/ready", "/api/v1/chat/*"},
		SkipMethods:       []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		ActionMapper:      defaultActionMapper,
		ResourceExtractor: defaultResourceExtractor,
		MaxBodySize:       10 * 1024,
		SensitiveFields:   []string{"password", "confirm_password", "token", "secret"},
	}
}

// AuditLogger buffers audit entries and flushes them in batches from a background worker
type AuditLogger struct {
	config    *AuditConfig
	buffer    chan *AuditEntry
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger(config *AuditConfig) *AuditLogger {
	if config.BufferSize <= 0 {
		config.BufferSize = 1000
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = 5 * time.Second
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}

	ctx, cancel := context.WithCancel(context.Background())

	al := &AuditLogger{
		config: config,
		buffer: make(chan *AuditEntry, config.BufferSize),
		ctx:    ctx,
		cancel: cancel,
	}

	al.wg.Add(1)
	go al.worker()

	return al
}

// Log adds an audit entry to the buffer without blocking. Entries are dropped when the buffer is full.
func (al *AuditLogger) Log(entry *AuditEntry) {
	select {
	case al.buffer <- entry:
	default:
		logger.Warn("audit buffer full, dropping entry")
	}
}

// Close stops the worker after flushing buffered entries
func (al *AuditLogger) Close() error {
	al.closeOnce.Do(func() {
		close(al.buffer)
		al.wg.Wait()
		al.cancel()
	})
	return nil
}

func (al *AuditLogger) worker() {
	defer al.wg.Done()

	ticker := time.NewTicker(al.config.FlushInterval)
	defer ticker.Stop()

	batch := make([]*AuditEntry, 0, al.config.BatchSize)

	for {
		select {
		case entry, ok := <-al.buffer:
			if !ok {
				al.flush(batch)
				return
			}
			batch = append(batch, entry)
			if len(batch) >= al.config.BatchSize {
				al.flush(batch)
				batch = make([]*AuditEntry, 0, al.config.BatchSize)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				al.flush(batch)
				batch = make([]*AuditEntry, 0, al.config.BatchSize)
			}
		}
	}
}

func (al *AuditLogger) flush(entries []*AuditEntry) {
	if len(entries) == 0 || al.config.Store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(al.ctx, 30*time.Second)
	defer cancel()

	if err := al.config.Store.SaveAuditEntries(ctx, entries); err != nil {
		logger.Error("failed to save audit entries", zap.Error(err), zap.Int("count", len(entries)))
	}
}

// BatchSender is satisfied by *pgxpool.Pool
type BatchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// PostgresAuditStore writes audit entries to the audit_logs table
type PostgresAuditStore struct {
	db BatchSender
}

// NewPostgresAuditStore creates a PostgreSQL audit store
func NewPostgresAuditStore(db BatchSender) *PostgresAuditStore {
	return &PostgresAuditStore{db: db}
}

const insertAuditQuery = `
	INSERT INTO audit_logs (
		id, tenant, user_id, user_email, user_role,
		action, resource_type, resource_id, status,
		ip_address, user_agent, request_id,
		old_values, new_values, changes, metadata, created_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9,
		$10, $11, $12,
		$13, $14, $15, $16, $17
	)
`

// SaveAuditEntries inserts all entries in one batch round trip
func (s *PostgresAuditStore) SaveAuditEntries(ctx context.Context, entries []*AuditEntry) error {
	batch := &pgx.Batch{}
	for _, entry := range entries {
		metadata := jsonOrNil(entry.Metadata)
		if metadata == nil {
			metadata = []byte("{}")
		}
		batch.Queue(insertAuditQuery,
			entry.ID, entry.Tenant, entry.UserID, entry.UserEmail, entry.UserRole,
			string(entry.Action), entry.ResourceType, entry.ResourceID, entry.Status,
			entry.IPAddress, entry.UserAgent, entry.RequestID,
			jsonOrNil(entry.OldValues), jsonOrNil(entry.NewValues), jsonOrNil(entry.Changes), metadata, entry.CreatedAt,
		)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for range entries {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func jsonOrNil(m map[string]interface{}) []byte {
	if m == nil {
		return nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return b
}

// LogAuditStore writes audit entries to the structured logger. Used when no database is configured.
type LogAuditStore struct{}

// SaveAuditEntries logs each entry
func (LogAuditStore) SaveAuditEntries(_ context.Context, entries []*AuditEntry) error {
	for _, e := range entries {
		logger.Get().Info("audit",
			zap.String("action", string(e.Action)),
			zap.String("resource_type", e.ResourceType),
			zap.String("tenant", e.Tenant),
			zap.String("user_email", e.UserEmail),
			zap.Int("status", e.Status),
		)
	}
	return nil
}

// AuditMiddleware creates a new audit logging middleware
func AuditMiddleware(al *AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		config := al.config

		for _, path := range config.SkipPaths {
			if matchPath(c.Request.URL.Path, path) {
				c.Next()
				return
			}
		}

		for _, method := range config.SkipMethods {
			if c.Request.Method == method {
				c.Next()
				return
			}
		}

		var requestBody map[string]interface{}
		if config.EnableRequestBody && c.Request.Body != nil {
			bodyBytes, err := io.ReadAll(io.LimitReader(c.Request.Body, int64(config.MaxBodySize)))
			if err == nil && len(bodyBytes) > 0 {
				c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
				_ = json.Unmarshal(bodyBytes, &requestBody)
				requestBody = maskSensitiveFields(requestBody, config.SensitiveFields)
			}
		}

		startTime := time.Now()

		c.Next()

		if skip, exists := c.Get(contextKeyAuditSkip); exists && skip.(bool) {
			return
		}

		entry := &AuditEntry{
			ID:        uuid.New().String(),
			Status:    c.Writer.Status(),
			CreatedAt: startTime,
		}

		if userID, ok := GetUserID(c); ok && userID != "" {
			entry.UserID = &userID
		}
		if email, ok := GetEmail(c); ok {
			entry.UserEmail = email
		}
		if role, ok := GetRole(c); ok {
			entry.UserRole = role
		}
		if tenant, ok := getString(c, ContextKeyAuditTenant); ok {
			entry.Tenant = tenant
		}

		if config.ActionMapper != nil {
			entry.Action = config.ActionMapper(c.Request.Method, c.Request.URL.Path)
		}
		if config.ResourceExtractor != nil {
			resourceType, resourceID := config.ResourceExtractor(c.Request.URL.Path)
			entry.ResourceType = resourceType
			if resourceID != "" {
				entry.ResourceID = &resourceID
			}
		}

		if rt, ok := getString(c, ContextKeyAuditResourceType); ok {
			entry.ResourceType = rt
		}
		if rid, ok := getString(c, ContextKeyAuditResourceID); ok && rid != "" {
			entry.ResourceID = &rid
		}
		if v, exists := c.Get(ContextKeyAuditOldValues); exists {
			entry.OldValues, _ = v.(map[string]interface{})
		}
		if v, exists := c.Get(ContextKeyAuditNewValues); exists {
			entry.NewValues, _ = v.(map[string]interface{})
		}
		if v, exists := c.Get(ContextKeyAuditMetadata); exists {
			entry.Metadata, _ = v.(map[string]interface{})
		}

		if entry.OldValues != nil && entry.NewValues != nil {
			entry.Changes = computeChanges(entry.OldValues, entry.NewValues)
		}
		if requestBody != nil && entry.NewValues == nil {
			entry.NewValues = requestBody
		}

		entry.IPAddress = getClientIP(c)
		entry.UserAgent = c.GetHeader("User-Agent")
		entry.RequestID = c.GetHeader(RequestIDHeader)
		if entry.RequestID == "" {
			entry.RequestID, _ = getString(c, ContextKeyRequestID)
		}

		al.Log(entry)
	}
}

func matchPath(path, pattern string) bool {
	if strings.HasSuffix(pattern, "/*") {
		return strings.HasPrefix(path, strings.TrimSuffix(pattern, "*"))
	}
	return path == pattern
}

func defaultActionMapper(method, path string) AuditAction {
	p := strings.ToLower(path)

	switch {
	case strings.HasSuffix(p, "/login"):
		return AuditActionLogin
	case strings.HasSuffix(p, "/logout"):
		return AuditActionLogout
	case strings.HasSuffix(p, "/register"):
		return AuditActionRegister
	case strings.HasSuffix(p, "/forgot-password"):
		return AuditActionPasswordReset
	case strings.HasSuffix(p, "/switch-role"):
		return AuditActionSwitchRole
	case strings.HasSuffix(p, "/quote"):
		return AuditActionQuoteRequest
	case strings.HasSuffix(p, "/contact"):
		return AuditActionContact
	case strings.HasSuffix(p, "/status"):
		return AuditActionStatusChange
	}

	switch method {
	case http.MethodPost:
		return AuditActionCreate
	case http.MethodPut, http.MethodPatch:
		return AuditActionUpdate
	case http.MethodDelete:
		return AuditActionDelete
	default:
		return AuditActionView
	}
}

// defaultResourceExtractor maps /api/v1/leads/<id>/status to ("lead", "<id>")
func defaultResourceExtractor(path string) (resourceType string, resourceID string) {
	parts := strings.Split(strings.Trim(path, "/"), "/")

	startIdx := -1
	for i, part := range parts {
		if part == "api" || (len(part) > 1 && part[0] == 'v' && isNumeric(part[1:])) {
			continue
		}
		startIdx = i
		break
	}

	if startIdx < 0 || parts[startIdx] == "" {
		return "unknown", ""
	}

	resourceType = strings.TrimSuffix(parts[startIdx], "s")

	if startIdx+1 < len(parts) && isValidID(parts[startIdx+1]) {
		resourceID = parts[startIdx+1]
	}

	return resourceType, resourceID
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func isValidID(s string) bool {
	if _, err := uuid.Parse(s); err == nil {
		return true
	}
	return isNumeric(s)
}

func getClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	if xri := c.GetHeader("X-Real-IP"); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return ip
}

func maskSensitiveFields(data map[string]interface{}, sensitiveFields []string) map[string]interface{} {
	if data == nil {
		return nil
	}

	result := make(map[string]interface{}, len(data))
	for k, v := range data {
		lowKey := strings.ToLower(k)
		masked := false
		for _, sf := range sensitiveFields {
			if strings.Contains(lowKey, strings.ToLower(sf)) {
				result[k] = "[REDACTED]"
				masked = true
				break
			}
		}
		if masked {
			continue
		}
		if nested, ok := v.(map[string]interface{}); ok {
			result[k] = maskSensitiveFields(nested, sensitiveFields)
		} else {
			result[k] = v
		}
	}
	return result
}

func computeChanges(oldVals, newVals map[string]interface{}) map[string]interface{} {
	changes := make(map[string]interface{})

	for k, newV := range newVals {
		oldV, exists := oldVals[k]
		if !exists || !jsonEqual(oldV, newV) {
			changes[k] = map[string]interface{}{"old": oldV, "new": newV}
		}
	}

	for k, oldV := range oldVals {
		if _, exists := newVals[k]; !exists {
			changes[k] = map[string]interface{}{"old": oldV, "new": nil}
		}
	}

	return changes
}

func jsonEqual(a, b interface{}) bool {
	aJSON, err1 := json.Marshal(a)
	bJSON, err2 := json.Marshal(b)
	if err1 != nil || err2 != nil {
		return false
	}
	return string(aJSON) == string(bJSON)
}

// SetAuditResourceType sets the resource type for audit logging
func SetAuditResourceType(c *gin.Context, resourceType string) {
	c.Set(ContextKeyAuditResourceType, resourceType)
}

// SetAuditResourceID sets the resource ID for audit logging
func SetAuditResourceID(c *gin.Context, resourceID string) {
	c.Set(ContextKeyAuditResourceID, resourceID)
}

// SetAuditOldValues sets the values before an update
func SetAuditOldValues(c *gin.Context, oldValues map[string]interface{}) {
	c.Set(ContextKeyAuditOldValues, oldValues)
}

// SetAuditNewValues sets the values after a create or update
func SetAuditNewValues(c *gin.Context, newValues map[string]interface{}) {
	c.Set(ContextKeyAuditNewValues, newValues)
}

// SetAuditMetadata sets additional metadata for audit logging
func SetAuditMetadata(c *gin.Context, metadata map[string]interface{}) {
	c.Set(ContextKeyAuditMetadata, metadata)
}

// SetAuditTenant records the brokerage the request was served for
func SetAuditTenant(c *gin.Context, subdomain string) {
	c.Set(ContextKeyAuditTenant, subdomain)
}

// SkipAudit marks the current request to skip audit logging
func SkipAudit(c *gin.Context) {
	c.Set(contextKeyAuditSkip, true)
}
