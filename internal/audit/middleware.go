package audit

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/schooney/backend-portal/internal/common"
)

// HTTPRecorder records HTTP requests after they have been handled.
type HTTPRecorder struct {
	Service *Service
	OnError func(error)
}

// HTTPConfig customises how the audit entry is produced for a route.
type HTTPConfig struct {
	Action        string
	EntityType    string
	EntityIDParam string
	ExtraFunc     func(*http.Request, int) map[string]any
}

// Middleware returns a chi-compatible middleware that records audit entries.
func (r HTTPRecorder) Middleware(cfg HTTPConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if r.Service == nil || !r.Service.Enabled {
				next.ServeHTTP(w, req)
				return
			}

			recorder := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(recorder, req)

			guardianID, _ := common.GuardianID(req.Context())

			entityID := ""
			if cfg.EntityIDParam != "" {
				entityID = chi.URLParam(req, cfg.EntityIDParam)
			}

			var extra []byte
			if cfg.ExtraFunc != nil {
				if payload := cfg.ExtraFunc(req, recorder.Status()); payload != nil {
					if data, err := json.Marshal(payload); err == nil {
						extra = data
					}
				}
			}

			if err := r.Service.Record(req.Context(), guardianID, cfg.Action, cfg.EntityType, entityID, req, recorder.Status(), extra); err != nil && r.OnError != nil {
				r.OnError(err)
			}
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Status() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	return s.ResponseWriter.Write(b)
}
