package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/brunocorregedoria/reforma2/internal/models"
	"github.com/brunocorregedoria/reforma2/internal/websocket"
)

const auditContextKey contextKey = "audit"

// maxAuditBody caps how much of a request body is buffered for the audit row
const maxAuditBody = 1 << 20

// AuditRecord collects per-request audit state. Handlers stash the previous
// entity state here before mutating it so the log row carries both sides;
// Authenticate notes the acting user, since it runs inside this middleware
// and its context never propagates back out.
type AuditRecord struct {
	OldValue interface{}
	userID   *uint
}

// StashOldValue records the entity state prior to mutation for the audit row
func StashOldValue(r *http.Request, value interface{}) {
	if rec, ok := r.Context().Value(auditContextKey).(*AuditRecord); ok {
		rec.OldValue = value
	}
}

// statusRecorder captures the response status and body so the audit row can
// reference the written entity.
type statusRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// AuditLog records successful requests against the named entity as
// append-only log rows and broadcasts writes to the activity feed. A row is
// written only when the request resolved to a concrete entity and an
// authenticated user. Persisting the row happens off the request path; a
// failed insert never affects the response.
func AuditLog(db *gorm.DB, entity string, hub *websocket.Hub) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Only updates carry the request body into the log row, and this
			// runs before authentication, so the capture is capped and the
			// remainder left on the stream for the handler.
			var requestBody []byte
			if r.Body != nil && (r.Method == http.MethodPut || r.Method == http.MethodPatch) {
				requestBody, _ = io.ReadAll(io.LimitReader(r.Body, maxAuditBody+1))
				r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(requestBody), r.Body))
				if len(requestBody) > maxAuditBody {
					requestBody = nil
				}
			}

			rec := &AuditRecord{}
			ctx := context.WithValue(r.Context(), auditContextKey, rec)
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r.WithContext(ctx))

			if recorder.status < 200 || recorder.status >= 300 {
				return
			}

			action := actionForMethod(r.Method)
			if action == "" {
				return
			}

			entityID := resolveEntityID(r, recorder.body.Bytes())
			if entityID == 0 || rec.userID == nil {
				return
			}

			entry := models.Log{
				Entity:    entity,
				EntityID:  entityID,
				Action:    action,
				UserID:    rec.userID,
				Timestamp: time.Now().UTC(),
				OldValue:  marshalValue(rec.OldValue),
				NewValue:  newValueFor(action, requestBody, recorder.body.Bytes()),
			}

			go func() {
				if err := db.Create(&entry).Error; err != nil {
					log.Printf("Failed to write audit log for %s: %v", entity, err)
					return
				}
				if hub != nil && action != models.ActionRead {
					hub.BroadcastLog(&entry)
				}
			}()
		})
	}
}

// actionForMethod maps the HTTP verb to the audit action
func actionForMethod(method string) string {
	switch method {
	case http.MethodPost:
		return models.ActionCreate
	case http.MethodPut, http.MethodPatch:
		return models.ActionUpdate
	case http.MethodDelete:
		return models.ActionDelete
	case http.MethodGet:
		return models.ActionRead
	default:
		return ""
	}
}

// resolveEntityID takes the id from the route when present, otherwise from
// the id field of the response body, including one level of nesting.
func resolveEntityID(r *http.Request, responseBody []byte) uint {
	if raw, ok := mux.Vars(r)["id"]; ok {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return uint(id)
		}
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(responseBody, &payload); err != nil {
		return 0
	}
	if id := extractID(payload); id != 0 {
		return id
	}
	for _, v := range payload {
		if nested, ok := v.(map[string]interface{}); ok {
			if id := extractID(nested); id != 0 {
				return id
			}
		}
	}
	return 0
}

func extractID(payload map[string]interface{}) uint {
	if raw, ok := payload["id"].(float64); ok && raw > 0 {
		return uint(raw)
	}
	return 0
}

// newValueFor picks the request body for writes so the row reflects what was
// asked, falling back to the response for creates where the body carries the
// generated id.
func newValueFor(action string, requestBody, responseBody []byte) datatypes.JSON {
	switch action {
	case models.ActionCreate:
		if json.Valid(responseBody) {
			return datatypes.JSON(responseBody)
		}
		return nil
	case models.ActionUpdate:
		if json.Valid(requestBody) {
			return datatypes.JSON(requestBody)
		}
		return nil
	default:
		return nil
	}
}

// marshalValue encodes the stashed old value, nil when absent
func marshalValue(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
