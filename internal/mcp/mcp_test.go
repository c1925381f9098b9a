package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hpungsan/twine/internal/config"
	"github.com/hpungsan/twine/internal/db"
	"github.com/hpungsan/twine/internal/errors"
)

// testSetup creates a temporary database and config for testing.
func testSetup(t *testing.T) (*db.Store, *config.Config, func()) {
	t.Helper()

	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true // Allow temp dirs in tests

	cleanup := func() {
		database.Close()
	}

	return db.NewStore(database), cfg, cleanup
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func newTestHandlers(t *testing.T) (*Handlers, func()) {
	t.Helper()
	store, cfg, cleanup := testSetup(t)
	return NewHandlers(store, cfg, zap.NewNop().Sugar()), cleanup
}

func analyze(t *testing.T, h *Handlers, values ...string) {
	t.Helper()
	for _, v := range values {
		result, err := h.HandleAnalyze(context.Background(), makeRequest(map[string]any{"value": v}))
		if err != nil {
			t.Fatalf("analyze %q returned error: %v", v, err)
		}
		if result.IsError {
			t.Fatalf("analyze %q failed: %v", v, extractErrorMessage(result))
		}
	}
}

// TestHandleAnalyze tests the string_analyze handler.
func TestHandleAnalyze(t *testing.T) {
	h, cleanup := newTestHandlers(t)
	defer cleanup()
	h.cfg.MaxValueChars = 10

	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{
			name:      "analyze valid value",
			args:      map[string]any{"value": "racecar"},
			wantError: false,
		},
		{
			name:      "analyze duplicate",
			args:      map[string]any{"value": "racecar"},
			wantError: true,
			errorCode: "ALREADY_EXISTS",
		},
		{
			name:      "analyze without value",
			args:      map[string]any{},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name:      "analyze empty value",
			args:      map[string]any{"value": ""},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name:      "analyze non-string value",
			args:      map[string]any{"value": 42},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name:      "analyze oversized value",
			args:      map[string]any{"value": "this is far too long"},
			wantError: true,
			errorCode: "VALUE_TOO_LARGE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleAnalyze(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				if tt.errorCode != "" {
					assertErrorCode(t, result, tt.errorCode)
				}
			} else if result.IsError {
				t.Errorf("expected success, got error: %v", extractErrorMessage(result))
			}
		})
	}
}

func TestHandleAnalyze_Properties(t *testing.T) {
	h, cleanup := newTestHandlers(t)
	defer cleanup()

	result, err := h.HandleAnalyze(context.Background(), makeRequest(map[string]any{"value": "Hello World"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	output := parseOutput(t, result)
	props := output["properties"].(map[string]any)

	if props["length"] != float64(11) {
		t.Errorf("length = %v, want 11", props["length"])
	}
	if props["is_palindrome"] != false {
		t.Errorf("is_palindrome = %v, want false", props["is_palindrome"])
	}
	if props["word_count"] != float64(2) {
		t.Errorf("word_count = %v, want 2", props["word_count"])
	}
	if output["id"] != props["sha256_hash"] {
		t.Errorf("id = %v, want sha256_hash %v", output["id"], props["sha256_hash"])
	}
	freq := props["character_frequency_map"].(map[string]any)
	if freq["l"] != float64(3) {
		t.Errorf("frequency of l = %v, want 3", freq["l"])
	}
}

// TestHandleGet tests the string_get handler.
func TestHandleGet(t *testing.T) {
	h, cleanup := newTestHandlers(t)
	defer cleanup()
	analyze(t, h, "noon")

	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		result, err := h.HandleGet(ctx, makeRequest(map[string]any{"value": "noon"}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		output := parseOutput(t, result)
		if output["value"] != "noon" {
			t.Errorf("value = %v, want noon", output["value"])
		}
	})

	t.Run("case sensitive", func(t *testing.T) {
		result, _ := h.HandleGet(ctx, makeRequest(map[string]any{"value": "Noon"}))
		assertErrorCode(t, result, "NOT_FOUND")
	})

	t.Run("missing value", func(t *testing.T) {
		result, _ := h.HandleGet(ctx, makeRequest(map[string]any{}))
		assertErrorCode(t, result, "INVALID_REQUEST")
	})
}

// TestHandleList tests the string_list handler.
func TestHandleList(t *testing.T) {
	h, cleanup := newTestHandlers(t)
	defer cleanup()
	analyze(t, h, "racecar", "hello world", "Level", "a", "zebra crossing")

	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		wantCount int
		errorCode string
	}{
		{
			name:      "no filters",
			args:      map[string]any{},
			wantCount: 5,
		},
		{
			name:      "palindromes",
			args:      map[string]any{"is_palindrome": true},
			wantCount: 3,
		},
		{
			name:      "non-palindromes",
			args:      map[string]any{"is_palindrome": false},
			wantCount: 2,
		},
		{
			name:      "length range",
			args:      map[string]any{"min_length": 5, "max_length": 7},
			wantCount: 2,
		},
		{
			name:      "word count",
			args:      map[string]any{"word_count": 2},
			wantCount: 2,
		},
		{
			name:      "contains character case-insensitive",
			args:      map[string]any{"contains_character": "Z"},
			wantCount: 1,
		},
		{
			name:      "combined",
			args:      map[string]any{"is_palindrome": true, "word_count": 1, "min_length": 2},
			wantCount: 2,
		},
		{
			name:      "conflicting range",
			args:      map[string]any{"min_length": 10, "max_length": 2},
			errorCode: "CONFLICTING_FILTERS",
		},
		{
			name:      "multi-character contains",
			args:      map[string]any{"contains_character": "ab"},
			errorCode: "INVALID_REQUEST",
		},
		{
			name:      "fractional length",
			args:      map[string]any{"min_length": 2.5},
			errorCode: "INVALID_REQUEST",
		},
		{
			name:      "wrong type",
			args:      map[string]any{"is_palindrome": "yes"},
			errorCode: "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleList(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.errorCode != "" {
				assertErrorCode(t, result, tt.errorCode)
				return
			}

			output := parseOutput(t, result)
			if output["count"] != float64(tt.wantCount) {
				t.Errorf("count = %v, want %d", output["count"], tt.wantCount)
			}
			data := output["data"].([]any)
			if len(data) != tt.wantCount {
				t.Errorf("len(data) = %d, want %d", len(data), tt.wantCount)
			}
			if _, ok := output["filters_applied"].(map[string]any); !ok {
				t.Errorf("filters_applied missing: %v", output)
			}
		})
	}
}

func TestHandleList_FiltersEchoed(t *testing.T) {
	h, cleanup := newTestHandlers(t)
	defer cleanup()

	result, _ := h.HandleList(context.Background(), makeRequest(map[string]any{
		"is_palindrome": true,
		"min_length":    3,
	}))
	output := parseOutput(t, result)

	filters := output["filters_applied"].(map[string]any)
	if filters["is_palindrome"] != true {
		t.Errorf("is_palindrome = %v, want true", filters["is_palindrome"])
	}
	if filters["min_length"] != float64(3) {
		t.Errorf("min_length = %v, want 3", filters["min_length"])
	}
	if _, ok := filters["max_length"]; ok {
		t.Errorf("max_length should be omitted, got %v", filters["max_length"])
	}
}

// TestHandleQuery tests the string_query handler.
func TestHandleQuery(t *testing.T) {
	h, cleanup := newTestHandlers(t)
	defer cleanup()
	analyze(t, h, "racecar", "hello world", "Level", "a", "zebra crossing")

	ctx := context.Background()

	t.Run("single word palindromes", func(t *testing.T) {
		result, err := h.HandleQuery(ctx, makeRequest(map[string]any{"query": "all single word palindromic strings"}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		output := parseOutput(t, result)
		if output["count"] != float64(3) {
			t.Errorf("count = %v, want 3", output["count"])
		}

		interp := output["interpreted_query"].(map[string]any)
		if interp["original"] != "all single word palindromic strings" {
			t.Errorf("original = %v", interp["original"])
		}
		parsed := interp["parsed_filters"].(map[string]any)
		if parsed["word_count"] != float64(1) || parsed["is_palindrome"] != true {
			t.Errorf("parsed_filters = %v", parsed)
		}
	})

	t.Run("unrecognized phrase lists everything", func(t *testing.T) {
		result, _ := h.HandleQuery(ctx, makeRequest(map[string]any{"query": "show me something"}))
		output := parseOutput(t, result)
		if output["count"] != float64(5) {
			t.Errorf("count = %v, want 5", output["count"])
		}
	})

	t.Run("whitespace query lists everything", func(t *testing.T) {
		result, _ := h.HandleQuery(ctx, makeRequest(map[string]any{"query": "  "}))
		output := parseOutput(t, result)
		if output["count"] != float64(5) {
			t.Errorf("count = %v, want 5", output["count"])
		}
	})

	t.Run("empty query", func(t *testing.T) {
		result, _ := h.HandleQuery(ctx, makeRequest(map[string]any{"query": ""}))
		assertErrorCode(t, result, "INVALID_REQUEST")
	})
}

// TestHandleDelete tests the string_delete handler.
func TestHandleDelete(t *testing.T) {
	h, cleanup := newTestHandlers(t)
	defer cleanup()
	analyze(t, h, "noon")

	ctx := context.Background()

	result, err := h.HandleDelete(ctx, makeRequest(map[string]any{"value": "noon"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	output := parseOutput(t, result)
	if output["deleted"] != true {
		t.Errorf("deleted = %v, want true", output["deleted"])
	}

	result, _ = h.HandleGet(ctx, makeRequest(map[string]any{"value": "noon"}))
	assertErrorCode(t, result, "NOT_FOUND")

	result, _ = h.HandleDelete(ctx, makeRequest(map[string]any{"value": "noon"}))
	assertErrorCode(t, result, "NOT_FOUND")

	result, _ = h.HandleDelete(ctx, makeRequest(map[string]any{}))
	assertErrorCode(t, result, "INVALID_REQUEST")
}

// TestHandleExportImport round-trips through a compressed export.
func TestHandleExportImport(t *testing.T) {
	h, cleanup := newTestHandlers(t)
	defer cleanup()
	analyze(t, h, "racecar", "hello world")

	ctx := context.Background()

	exportPath := filepath.Join(t.TempDir(), "export.jsonl.zst")
	exportResult, err := h.HandleExport(ctx, makeRequest(map[string]any{"path": exportPath}))
	if err != nil {
		t.Fatalf("export handler returned error: %v", err)
	}
	output := parseOutput(t, exportResult)
	if output["count"] != float64(2) {
		t.Errorf("export count = %v, want 2", output["count"])
	}
	if output["compressed"] != true {
		t.Errorf("compressed = %v, want true", output["compressed"])
	}
	if _, err := os.Stat(exportPath); os.IsNotExist(err) {
		t.Fatal("export file not created")
	}

	h2, cleanup2 := newTestHandlers(t)
	defer cleanup2()

	importResult, err := h2.HandleImport(ctx, makeRequest(map[string]any{"path": exportPath}))
	if err != nil {
		t.Fatalf("import handler returned error: %v", err)
	}
	output = parseOutput(t, importResult)
	if output["imported"] != float64(2) {
		t.Errorf("imported = %v, want 2", output["imported"])
	}

	fetchResult, _ := h2.HandleGet(ctx, makeRequest(map[string]any{"value": "hello world"}))
	if fetchResult.IsError {
		t.Error("imported string not found")
	}

	// Importing again collides; skip mode reports duplicates without failing.
	importResult, _ = h2.HandleImport(ctx, makeRequest(map[string]any{"path": exportPath, "mode": "skip"}))
	output = parseOutput(t, importResult)
	if output["imported"] != float64(0) || output["skipped"] != float64(2) {
		t.Errorf("skip import = %v, want imported 0 skipped 2", output)
	}
}

func TestHandleImport_Validation(t *testing.T) {
	h, cleanup := newTestHandlers(t)
	defer cleanup()

	ctx := context.Background()

	result, _ := h.HandleImport(ctx, makeRequest(map[string]any{}))
	assertErrorCode(t, result, "INVALID_REQUEST")

	result, _ = h.HandleImport(ctx, makeRequest(map[string]any{"path": "/tmp/x.jsonl", "mode": "replace"}))
	assertErrorCode(t, result, "INVALID_REQUEST")

	missing := filepath.Join(t.TempDir(), "missing.jsonl")
	result, _ = h.HandleImport(ctx, makeRequest(map[string]any{"path": missing}))
	assertErrorCode(t, result, "FILE_NOT_FOUND")
}

func TestHandleExport_BadExtension(t *testing.T) {
	h, cleanup := newTestHandlers(t)
	defer cleanup()

	path := filepath.Join(t.TempDir(), "export.txt")
	result, _ := h.HandleExport(context.Background(), makeRequest(map[string]any{"path": path}))
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestServerRegistration(t *testing.T) {
	store, cfg, cleanup := testSetup(t)
	defer cleanup()

	s := NewServer(store, cfg, zap.NewNop().Sugar(), "test")
	tools := s.ListTools()
	if tools == nil {
		t.Fatal("expected tools to be registered, got nil")
	}

	expectedTools := []string{
		"string_analyze",
		"string_get",
		"string_list",
		"string_query",
		"string_delete",
		"string_export",
		"string_import",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("registered tool count = %d, want %d", len(tools), len(expectedTools))
	}

	for _, name := range expectedTools {
		if _, ok := tools[name]; !ok {
			t.Errorf("missing registered tool: %s", name)
		}
	}
}

func TestServerRegistration_WithDisabledTools(t *testing.T) {
	store, cfg, cleanup := testSetup(t)
	defer cleanup()

	cfg.DisabledTools = []string{"string_export", "string_import", "string_import"}
	s := NewServer(store, cfg, zap.NewNop().Sugar(), "test")
	tools := s.ListTools()

	if len(tools) != 5 {
		t.Errorf("registered tool count = %d, want 5", len(tools))
	}
	for _, name := range []string{"string_export", "string_import"} {
		if _, ok := tools[name]; ok {
			t.Errorf("disabled tool %q should not be registered", name)
		}
	}
	if _, ok := tools["string_analyze"]; !ok {
		t.Error("core tool string_analyze should be registered")
	}
}

func TestServerRegistration_DisabledType(t *testing.T) {
	store, cfg, cleanup := testSetup(t)
	defer cleanup()

	cfg.DisabledTypes = []string{"string"}
	s := NewServer(store, cfg, zap.NewNop().Sugar(), "test")

	if tools := s.ListTools(); len(tools) != 0 {
		t.Errorf("registered tool count = %d, want 0 (type disabled)", len(tools))
	}
}

func TestServerRegistration_WarnsOnUnknownNames(t *testing.T) {
	store, cfg, cleanup := testSetup(t)
	defer cleanup()

	core, logs := observer.New(zapcore.WarnLevel)
	cfg.DisabledTools = []string{"fake_tool"}
	cfg.DisabledTypes = []string{"widget"}
	NewServer(store, cfg, zap.New(core).Sugar(), "test")

	if n := logs.FilterMessage("unknown tools in disabled_tools").Len(); n != 1 {
		t.Errorf("tool warnings = %d, want 1", n)
	}
	if n := logs.FilterMessage("unknown types in disabled_types").Len(); n != 1 {
		t.Errorf("type warnings = %d, want 1", n)
	}
}

func TestValidateDisabledTools(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		wantLen int
	}{
		{
			name:    "all valid",
			input:   []string{"string_export", "string_delete"},
			wantLen: 0,
		},
		{
			name:    "one unknown",
			input:   []string{"string_export", "fake_tool"},
			wantLen: 1,
		},
		{
			name:    "all unknown",
			input:   []string{"foo", "bar", "baz"},
			wantLen: 3,
		},
		{
			name:    "empty list",
			input:   []string{},
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unknown := ValidateDisabledTools(tt.input)
			if len(unknown) != tt.wantLen {
				t.Errorf("ValidateDisabledTools() returned %d unknown, want %d", len(unknown), tt.wantLen)
			}
		})
	}
}

func TestValidateDisabledTypes(t *testing.T) {
	if unknown := ValidateDisabledTypes([]string{"string"}); len(unknown) != 0 {
		t.Errorf("unknown = %v, want none", unknown)
	}
	if unknown := ValidateDisabledTypes([]string{"string", "widget"}); len(unknown) != 1 || unknown[0] != "widget" {
		t.Errorf("unknown = %v, want [widget]", unknown)
	}
}

func TestGetTypeForTool(t *testing.T) {
	tests := map[string]string{
		"string_get":    "string",
		"string_import": "string",
		"noprefix":      "",
		"_leading":      "",
	}
	for tool, want := range tests {
		if got := GetTypeForTool(tool); got != want {
			t.Errorf("GetTypeForTool(%q) = %q, want %q", tool, got, want)
		}
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()

	if len(names) != 7 {
		t.Errorf("AllToolNames() returned %d names, want 7", len(names))
	}

	unknown := ValidateDisabledTools(names)
	if len(unknown) != 0 {
		t.Errorf("AllToolNames() returned invalid names: %v", unknown)
	}
	if got := ExpandTypesToTools([]string{"string"}); len(got) != 7 {
		t.Errorf("ExpandTypesToTools(string) returned %d names, want 7", len(got))
	}
}

func TestErrorResult_InternalDoesNotExposeDetails(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	h := &Handlers{log: zap.New(core).Sugar()}

	r := h.errorResult(errors.NewInternal(fmt.Errorf("sql error: open /tmp/secret.db: permission denied")))
	if !r.IsError {
		t.Fatal("expected IsError=true")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(r.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	errObj := payload["error"].(map[string]any)

	if errObj["code"] != string(errors.ErrInternal) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrInternal)
	}
	if _, ok := errObj["details"]; ok {
		t.Fatal("expected INTERNAL errors to omit details")
	}
	if logs.FilterMessage("internal error").Len() != 1 {
		t.Error("expected the internal error to be logged")
	}
}

func TestErrorResult_WrappedErrorKeepsCode(t *testing.T) {
	h := &Handlers{log: zap.NewNop().Sugar()}
	r := h.errorResult(fmt.Errorf("lookup: %w", errors.NewNotFound("abc")))
	assertErrorCode(t, r, string(errors.ErrNotFound))
}

func TestErrorResult_PlainErrorIsInternal(t *testing.T) {
	h := &Handlers{log: zap.NewNop().Sugar()}
	r := h.errorResult(fmt.Errorf("boom"))
	assertErrorCode(t, r, string(errors.ErrInternal))
}

func TestErrorResult_NonInternalIncludesDetails(t *testing.T) {
	h := &Handlers{log: zap.NewNop().Sugar()}
	r := h.errorResult(errors.NewNotFound("abc"))
	if !r.IsError {
		t.Fatal("expected IsError=true")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(r.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	errObj := payload["error"].(map[string]any)

	if errObj["code"] != string(errors.ErrNotFound) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrNotFound)
	}
	if _, ok := errObj["details"]; !ok {
		t.Fatal("expected non-INTERNAL errors to include details when present")
	}
}

// Helper functions

// parseOutput extracts and unmarshals the JSON output from an MCP result.
func parseOutput(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}
	var output map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &output); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return output
}

func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()

	if !result.IsError {
		t.Errorf("expected error %s, got success: %v", expectedCode, extractErrorMessage(result))
		return
	}
	if len(result.Content) == 0 {
		t.Errorf("no content in error result")
		return
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Errorf("content is not TextContent")
		return
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Errorf("failed to unmarshal error payload: %v", err)
		return
	}

	errorObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Errorf("no error object in payload")
		return
	}

	code, ok := errorObj["code"].(string)
	if !ok {
		t.Errorf("no code in error object")
		return
	}

	if code != expectedCode {
		t.Errorf("got error code %q, want %q", code, expectedCode)
	}
}

func extractErrorMessage(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return "<no content>"
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return "<not text content>"
	}

	return text.Text
}

func TestDecode(t *testing.T) {
	t.Run("typed fields", func(t *testing.T) {
		got, err := decode[ListRequest](makeRequest(map[string]any{"min_length": 3, "is_palindrome": false}))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.MinLength == nil || *got.MinLength != 3 {
			t.Errorf("MinLength = %v, want 3", got.MinLength)
		}
		if got.IsPalindrome == nil || *got.IsPalindrome {
			t.Errorf("IsPalindrome = %v, want false", got.IsPalindrome)
		}
		if got.MaxLength != nil {
			t.Errorf("MaxLength = %v, want nil", *got.MaxLength)
		}
	})

	t.Run("nil arguments", func(t *testing.T) {
		got, err := decode[ValueRequest](makeRequest(nil))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Value != "" {
			t.Errorf("Value = %q, want empty", got.Value)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		if _, err := decode[ListRequest](makeRequest(map[string]any{"min_len": 3})); err == nil {
			t.Error("expected error for unknown argument")
		}
	})
}
