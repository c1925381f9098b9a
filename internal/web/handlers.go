package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/hpungsan/twine/internal/config"
	"github.com/hpungsan/twine/internal/db"
	"github.com/hpungsan/twine/internal/errors"
	"github.com/hpungsan/twine/internal/ops"
)

// healthMessage is returned by GET / for non-browser clients.
const healthMessage = "String Analyzer API is running"

// defaultMaxBody applies when max_value_chars is unlimited.
const defaultMaxBody = 1 << 20

// Handlers contains HTTP route handlers for the API.
type Handlers struct {
	store    *db.Store
	cfg      *config.Config
	log      *zap.SugaredLogger
	renderer *Renderer
}

// HandleIndex handles GET / — API doc page for browsers, JSON health otherwise.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if !strings.Contains(r.Header.Get("Accept"), "text/html") {
		renderJSON(w, http.StatusOK, map[string]string{"message": healthMessage})
		return
	}

	count, err := h.store.Count(r.Context())
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}
	if err := h.renderer.renderIndex(w, count); err != nil {
		renderError(w, r, h.log, errors.NewInternal(err))
	}
}

// HandleCreate handles POST /strings — analyze and store a value.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	value, err := h.decodeValue(w, r)
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}

	view, err := ops.Create(r.Context(), h.store, h.cfg, ops.CreateInput{Value: value})
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}
	renderJSON(w, http.StatusCreated, view)
}

// HandleGet handles GET /strings/{value...} — exact lookup.
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	view, err := ops.Fetch(r.Context(), h.store, r.PathValue("value"))
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}
	renderJSON(w, http.StatusOK, view)
}

// HandleList handles GET /strings — structured filters.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	out, err := ops.List(r.Context(), h.store, r.URL.Query())
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// HandleInterpret handles GET /strings/filter-by-natural-language?query=...
func (h *Handlers) HandleInterpret(w http.ResponseWriter, r *http.Request) {
	out, err := ops.Interpret(r.Context(), h.store, r.URL.Query().Get("query"))
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// HandleDelete handles DELETE /strings/{value...}.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if _, err := ops.Delete(r.Context(), h.store, r.PathValue("value")); err != nil {
		renderError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeValue reads {"value": "..."} from the body. A missing or null
// value is INVALID_REQUEST; any other non-string is INVALID_TYPE.
func (h *Handlers) decodeValue(w http.ResponseWriter, r *http.Request) (string, error) {
	limit := h.maxBodyBytes()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return "", errors.NewBodyTooLarge(limit)
		}
		return "", errors.NewInvalidRequest("failed to read request body")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return "", errors.NewInvalidRequest("request body must be a JSON object")
	}

	raw, ok := fields["value"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", errors.NewInvalidRequest(`missing "value" field`)
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", errors.NewInvalidType("value", "string")
	}
	return value, nil
}

// maxBodyBytes allows a fully \u-escaped value plus envelope overhead.
func (h *Handlers) maxBodyBytes() int64 {
	if h.cfg == nil || h.cfg.MaxValueChars <= 0 {
		return defaultMaxBody
	}
	return int64(h.cfg.MaxValueChars)*6 + 1024
}
