package mcp

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/hpungsan/twine/internal/config"
	"github.com/hpungsan/twine/internal/db"
	"github.com/hpungsan/twine/internal/errors"
	"github.com/hpungsan/twine/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	store *db.Store
	cfg   *config.Config
	log   *zap.SugaredLogger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store *db.Store, cfg *config.Config, log *zap.SugaredLogger) *Handlers {
	return &Handlers{store: store, cfg: cfg, log: log}
}

// Request types for each tool

// ValueRequest represents the arguments for string_analyze, string_get and string_delete.
type ValueRequest struct {
	Value string `json:"value"`
}

// ListRequest represents the arguments for string_list.
type ListRequest struct {
	IsPalindrome      *bool   `json:"is_palindrome,omitempty"`
	MinLength         *int    `json:"min_length,omitempty"`
	MaxLength         *int    `json:"max_length,omitempty"`
	WordCount         *int    `json:"word_count,omitempty"`
	ContainsCharacter *string `json:"contains_character,omitempty"`
}

// params renders the typed arguments as the query parameters ops.List parses.
func (r ListRequest) params() url.Values {
	v := url.Values{}
	if r.IsPalindrome != nil {
		v.Set("is_palindrome", strconv.FormatBool(*r.IsPalindrome))
	}
	if r.MinLength != nil {
		v.Set("min_length", strconv.Itoa(*r.MinLength))
	}
	if r.MaxLength != nil {
		v.Set("max_length", strconv.Itoa(*r.MaxLength))
	}
	if r.WordCount != nil {
		v.Set("word_count", strconv.Itoa(*r.WordCount))
	}
	if r.ContainsCharacter != nil {
		v.Set("contains_character", *r.ContainsCharacter)
	}
	return v
}

// QueryRequest represents the arguments for string_query.
type QueryRequest struct {
	Query string `json:"query"`
}

// ExportRequest represents the arguments for string_export.
type ExportRequest struct {
	Path string `json:"path,omitempty"`
}

// ImportRequest represents the arguments for string_import.
type ImportRequest struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
}

// HandleAnalyze handles the string_analyze tool call.
func (h *Handlers) HandleAnalyze(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ValueRequest](req)
	if err != nil {
		return h.errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Create(ctx, h.store, h.cfg, ops.CreateInput{Value: input.Value})
	if err != nil {
		return h.errorResult(err), nil
	}

	return successResult(result)
}

// HandleGet handles the string_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ValueRequest](req)
	if err != nil {
		return h.errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Value == "" {
		return h.errorResult(errors.NewInvalidRequest(`missing "value" field`)), nil
	}

	result, err := ops.Fetch(ctx, h.store, input.Value)
	if err != nil {
		return h.errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the string_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return h.errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(ctx, h.store, input.params())
	if err != nil {
		return h.errorResult(err), nil
	}

	return successResult(result)
}

// HandleQuery handles the string_query tool call.
func (h *Handlers) HandleQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[QueryRequest](req)
	if err != nil {
		return h.errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Interpret(ctx, h.store, input.Query)
	if err != nil {
		return h.errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the string_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ValueRequest](req)
	if err != nil {
		return h.errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Value == "" {
		return h.errorResult(errors.NewInvalidRequest(`missing "value" field`)), nil
	}

	result, err := ops.Delete(ctx, h.store, input.Value)
	if err != nil {
		return h.errorResult(err), nil
	}

	return successResult(result)
}

// HandleExport handles the string_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return h.errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.store, h.cfg, ops.ExportInput{Path: input.Path})
	if err != nil {
		return h.errorResult(err), nil
	}

	return successResult(result)
}

// HandleImport handles the string_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return h.errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Import(ctx, h.store, h.cfg, ops.ImportInput{
		Path: input.Path,
		Mode: ops.ImportMode(input.Mode),
	})
	if err != nil {
		return h.errorResult(err), nil
	}

	return successResult(result)
}

// errorResult creates an MCP error result from an error.
func (h *Handlers) errorResult(err error) *mcp.CallToolResult {
	tErr := errors.As(err)

	errorObj := map[string]any{
		"code":    tErr.Code,
		"message": tErr.Message,
		"status":  tErr.Status,
	}
	if tErr.Code == errors.ErrInternal {
		// Details carry file paths and SQL errors; log them, never return them.
		h.log.Errorw("internal error", "details", tErr.Details)
	} else if len(tErr.Details) > 0 {
		errorObj["details"] = tErr.Details
	}

	content, _ := json.Marshal(map[string]any{"error": errorObj})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
