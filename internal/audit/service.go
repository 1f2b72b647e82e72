package audit

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/schooney/backend-portal/internal/common"
	dbgen "github.com/schooney/backend-portal/internal/db/gen"
	"github.com/schooney/backend-portal/internal/obs"
)

// Store defines the database operations required for auditing.
type Store interface {
	InsertAuditLog(ctx context.Context, arg dbgen.InsertAuditLogParams) (dbgen.AuditLog, error)
	ListAuditLogsByGuardian(ctx context.Context, arg dbgen.ListAuditLogsByGuardianParams) ([]dbgen.AuditLog, error)
}

// Service persists audit logs for critical guardian-facing flows such as
// checkout, credit application and password changes.
type Service struct {
	Store        Store
	Enabled      bool
	SamplingRate float64
}

// requestDetail is the JSON payload stored alongside every entry.
type requestDetail struct {
	Method    string          `json:"method"`
	Path      string          `json:"path"`
	Route     string          `json:"route,omitempty"`
	Status    int             `json:"status"`
	IP        string          `json:"ip,omitempty"`
	UserAgent string          `json:"user_agent,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
	Query     string          `json:"query,omitempty"`
	Extra     json.RawMessage `json:"extra,omitempty"`
}

// Record persists an audit log entry when auditing is enabled. The guardian
// ID may be empty for unauthenticated actions such as failed logins.
func (s Service) Record(ctx context.Context, guardianID, action, entityType, entityID string, req *http.Request, status int, extra []byte) error {
	if !s.Enabled {
		return nil
	}
	if s.SamplingRate > 0 && s.SamplingRate < 1 {
		if rand.Float64() > s.SamplingRate {
			return nil
		}
	}
	if req == nil {
		return errors.New("audit: request is required")
	}
	if s.Store == nil {
		return errors.New("audit: store not configured")
	}

	route := obs.RoutePatternFromContext(req.Context())
	finalStatus := status
	if finalStatus == 0 {
		finalStatus = http.StatusOK
	}
	detail := requestDetail{
		Method:    req.Method,
		Path:      req.URL.Path,
		Route:     route,
		Status:    finalStatus,
		IP:        common.ClientIP(req),
		UserAgent: req.Header.Get("User-Agent"),
		RequestID: req.Header.Get("X-Request-ID"),
		Query:     req.URL.RawQuery,
		Extra:     extra,
	}
	payload, err := json.Marshal(detail)
	if err != nil {
		return err
	}

	_, err = s.Store.InsertAuditLog(ctx, dbgen.InsertAuditLogParams{
		GuardianID: toNullUUID(guardianID),
		Action:     buildAction(action, req.Method, route, req.URL.Path),
		EntityType: buildEntityType(entityType, route, req.URL.Path),
		EntityID:   toNullUUID(entityID),
		Detail:     payload,
	})
	return err
}

func buildAction(action, method, route, path string) string {
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		return trimmed
	}
	target := route
	if target == "" {
		target = path
	}
	if target == "" {
		target = "/"
	}
	return strings.ToUpper(strings.TrimSpace(method)) + " " + target
}

func buildEntityType(entityType, route, path string) string {
	if trimmed := strings.TrimSpace(entityType); trimmed != "" {
		return trimmed
	}
	target := route
	if target == "" {
		target = path
	}
	segments := strings.Split(strings.Trim(target, "/"), "/")
	if len(segments) >= 3 && segments[0] == "api" && segments[1] == "v1" {
		return strings.Join(segments[2:], ".")
	}
	joined := strings.ReplaceAll(strings.Trim(target, "/"), "/", ".")
	if joined == "" {
		return "unknown"
	}
	return joined
}

func toNullUUID(value string) pgtype.UUID {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}
}
