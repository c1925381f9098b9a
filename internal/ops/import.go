package ops

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/hpungsan/twine/internal/config"
	"github.com/hpungsan/twine/internal/db"
	"github.com/hpungsan/twine/internal/errors"
	"github.com/hpungsan/twine/internal/record"
)

// ImportMode controls collision behavior during import.
type ImportMode string

const (
	ImportModeError ImportMode = "error" // fail on any bad line or duplicate (atomic)
	ImportModeSkip  ImportMode = "skip"  // skip bad lines and duplicates
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string     // required
	Mode ImportMode // default: error
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

// ImportError represents an error that occurred during import.
type ImportError struct {
	Line    int    `json:"line"`
	ID      string `json:"id,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Per-line import error codes.
const (
	importParseError    = "PARSE_ERROR"
	importInvalidRecord = "INVALID_RECORD"
	importValueTooLarge = "VALUE_TOO_LARGE"
	importDuplicate     = "DUPLICATE"
	importReadError     = "READ_ERROR"
)

// errAbortImport rolls back a mode:error import after a collision.
var errAbortImport = stderrors.New("import aborted")

type importLine struct {
	line int
	rec  *record.Record
}

// Import loads records from a JSONL export file (plain or .jsonl.zst).
// Properties are recomputed from each value; a line whose id is not the
// fingerprint of its value is rejected.
func Import(ctx context.Context, store *db.Store, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}
	if input.Mode == "" {
		input.Mode = ImportModeError
	}
	if input.Mode != ImportModeError && input.Mode != ImportModeSkip {
		return nil, errors.NewInvalidRequest("mode must be one of: error, skip")
	}

	if err := ValidatePath(input.Path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(input.Path)
	if err != nil {
		if _, ok := err.(*errors.TwineError); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	var r io.Reader = file
	if isCompressed(input.Path) {
		zr, err := zstd.NewReader(file)
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid zstd stream: %v", err))
		}
		defer zr.Close()
		r = zr
	}

	lines, parseErrors := parseExportFile(r, cfg, time.Now())

	if input.Mode == ImportModeError {
		if len(parseErrors) > 0 {
			return &ImportOutput{Errors: parseErrors}, nil
		}
		return importModeError(ctx, store, lines)
	}
	return importModeSkip(ctx, store, lines, parseErrors)
}

// parseExportFile decodes every line, skipping the header and blank lines.
func parseExportFile(r io.Reader, cfg *config.Config, now time.Time) ([]importLine, []ImportError) {
	var lines []importLine
	var parseErrors []ImportError

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), importLineLimit(cfg))
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var er record.ExportRecord
		if err := json.Unmarshal(raw, &er); err != nil {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				Code:    importParseError,
				Message: fmt.Sprintf("invalid JSON: %v", err),
			})
			continue
		}

		if er.TwineExport {
			continue
		}

		rec, err := er.ToRecord()
		if err == nil && rec.Value == "" {
			err = fmt.Errorf("value must not be empty")
		}
		if err != nil {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				ID:      er.ID,
				Code:    importInvalidRecord,
				Message: err.Error(),
			})
			continue
		}
		if err := checkValueSize(rec.Value, cfg); err != nil {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				ID:      rec.ID,
				Code:    importValueTooLarge,
				Message: err.Error(),
			})
			continue
		}
		if rec.CreatedAt == 0 {
			rec.CreatedAt = now.UnixMilli()
		}

		lines = append(lines, importLine{line: lineNum, rec: rec})
	}

	if err := scanner.Err(); err != nil {
		parseErrors = append(parseErrors, ImportError{
			Line:    lineNum + 1,
			Code:    importReadError,
			Message: fmt.Sprintf("failed to read file: %v", err),
		})
	}

	return lines, parseErrors
}

// importModeError inserts every line in one transaction, rolling back on
// the first duplicate.
func importModeError(ctx context.Context, store *db.Store, lines []importLine) (*ImportOutput, error) {
	var collision *ImportError

	err := store.InTx(ctx, func(tx *db.Store) error {
		for _, l := range lines {
			if ctx.Err() != nil {
				return errors.NewCancelled("import")
			}
			if err := tx.Insert(ctx, l.rec); err != nil {
				if errors.Is(err, errors.ErrAlreadyExists) {
					collision = duplicateError(l)
					return errAbortImport
				}
				return err
			}
		}
		return nil
	})
	if stderrors.Is(err, errAbortImport) {
		return &ImportOutput{Errors: []ImportError{*collision}}, nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewCancelled("import")
		}
		return nil, err
	}

	return &ImportOutput{
		Imported: len(lines),
		Errors:   []ImportError{},
	}, nil
}

// importModeSkip inserts lines one by one, skipping duplicates.
func importModeSkip(ctx context.Context, store *db.Store, lines []importLine, parseErrors []ImportError) (*ImportOutput, error) {
	out := &ImportOutput{
		Skipped: len(parseErrors),
		Errors:  append([]ImportError{}, parseErrors...),
	}

	for _, l := range lines {
		if ctx.Err() != nil {
			return nil, errors.NewCancelled("import")
		}
		if err := store.Insert(ctx, l.rec); err != nil {
			if errors.Is(err, errors.ErrAlreadyExists) {
				out.Errors = append(out.Errors, *duplicateError(l))
				out.Skipped++
				continue
			}
			return nil, err
		}
		out.Imported++
	}

	return out, nil
}

func duplicateError(l importLine) *ImportError {
	return &ImportError{
		Line:    l.line,
		ID:      l.rec.ID,
		Code:    importDuplicate,
		Message: "string already exists in the system",
	}
}
