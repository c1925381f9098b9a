package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/hpungsan/twine/internal/errors"
)

// IndexPageData is the template data for the landing page.
type IndexPageData struct {
	Title   string
	Version string
	Count   int
	Doc     template.HTML
}

// Renderer holds the parsed landing page and its pre-rendered API doc.
type Renderer struct {
	index   *template.Template
	doc     template.HTML
	version string
}

// NewRenderer parses index.html from templateFS and renders apiDoc markdown once.
func NewRenderer(templateFS fs.FS, apiDoc []byte, version string) (*Renderer, error) {
	funcMap := template.FuncMap{
		"formatCount": formatCount,
	}

	index, err := template.New("index.html").Funcs(funcMap).ParseFS(templateFS, "index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Renderer{
		index:   index,
		doc:     renderMarkdown(apiDoc),
		version: version,
	}, nil
}

// renderIndex renders the HTML landing page.
func (r *Renderer) renderIndex(w http.ResponseWriter, count int) error {
	var buf bytes.Buffer
	err := r.index.Execute(&buf, IndexPageData{
		Title:   "String Analyzer API",
		Version: r.version,
		Count:   count,
		Doc:     r.doc,
	})
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
	return nil
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Status    int    `json:"status"`
	Parameter string `json:"parameter,omitempty"`
}

// renderError writes err as a JSON error envelope. Internal errors are
// logged with their cause and reported generically.
func renderError(w http.ResponseWriter, r *http.Request, log *zap.SugaredLogger, err error) {
	tErr := errors.As(err)

	detail := errorDetail{
		Code:    string(tErr.Code),
		Message: tErr.Message,
		Status:  tErr.Status,
	}
	if p, ok := tErr.Details["parameter"].(string); ok {
		detail.Parameter = p
	}

	if tErr.Code == errors.ErrInternal {
		log.Errorw("internal error",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestIDFrom(r.Context()),
			"error", tErr.Details["internal_error"],
		)
		detail.Message = "internal server error"
	}

	renderJSON(w, tErr.Status, errorBody{Error: detail})
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(data)
}

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md []byte) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert(md, &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(string(md)))
	}
	return template.HTML(buf.String())
}

// formatCount formats an integer with comma thousands separators.
func formatCount(n int) string {
	if n < 0 {
		return "-" + formatCount(-n)
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
