package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/hpungsan/twine/internal/analysis"
	"github.com/hpungsan/twine/internal/errors"
	"github.com/hpungsan/twine/internal/query"
	"github.com/hpungsan/twine/internal/record"
)

// querier is the subset of *sql.DB and *sql.Tx the store needs.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store persists analyzed strings in SQLite.
type Store struct {
	db *sql.DB
	q  querier
}

// NewStore wraps an open database handle. The caller keeps ownership of db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

const selectColumns = `
	SELECT id, value, length, is_palindrome, unique_characters,
		word_count, frequency_json, created_at
	FROM strings`

// Insert stores a new record. A record with the same value (or id) yields
// ALREADY_EXISTS.
func (s *Store) Insert(ctx context.Context, r *record.Record) error {
	freqJSON, err := json.Marshal(r.Properties.CharacterFrequencyMap)
	if err != nil {
		return errors.NewInternal(err)
	}

	_, err = s.q.ExecContext(ctx, `
		INSERT INTO strings (
			id, value, length, is_palindrome, unique_characters,
			word_count, frequency_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID, r.Value, r.Properties.Length, r.Properties.IsPalindrome,
		r.Properties.UniqueCharacters, r.Properties.WordCount,
		string(freqJSON), r.CreatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return errors.NewAlreadyExists(r.ID)
		}
		return errors.NewInternal(err)
	}
	return nil
}

// GetByValue retrieves a record by exact, case-sensitive value.
func (s *Store) GetByValue(ctx context.Context, value string) (*record.Record, error) {
	row := s.q.QueryRowContext(ctx, selectColumns+` WHERE value = ?`, value)
	r, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(value)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return r, nil
}

// GetByID retrieves a record by fingerprint.
func (s *Store) GetByID(ctx context.Context, id string) (*record.Record, error) {
	row := s.q.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	r, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return r, nil
}

// Exists reports whether a record with the given value is stored.
func (s *Store) Exists(ctx context.Context, value string) (bool, error) {
	var one int
	err := s.q.QueryRowContext(ctx, `SELECT 1 FROM strings WHERE value = ? LIMIT 1`, value).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return true, nil
}

// FindAll returns every record matching p, oldest first.
// Numeric and boolean constraints are pushed into SQL; p.Match is then
// applied to each row so the result is exactly what the predicate accepts.
func (s *Store) FindAll(ctx context.Context, p query.Predicate) ([]*record.Record, error) {
	where, args := buildWhere(p.Filter())

	rows, err := s.q.QueryContext(ctx, selectColumns+where+` ORDER BY created_at ASC, id ASC`, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	records := []*record.Record{}
	for rows.Next() {
		r, err := ScanRecordFromRows(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		if p.Match(r) {
			records = append(records, r)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return records, nil
}

// DeleteByValue removes the record with the given value.
// Returns false if nothing was stored under that value.
func (s *Store) DeleteByValue(ctx context.Context, value string) (bool, error) {
	result, err := s.q.ExecContext(ctx, `DELETE FROM strings WHERE value = ?`, value)
	if err != nil {
		return false, errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return n > 0, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM strings`).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// Stream returns rows of every record, oldest first, for export.
// The caller must close the rows; use ScanRecordFromRows to read them.
func (s *Store) Stream(ctx context.Context) (*sql.Rows, error) {
	rows, err := s.q.QueryContext(ctx, selectColumns+` ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return rows, nil
}

// InTx runs fn against a Store bound to a single transaction. The
// transaction commits if fn returns nil and rolls back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(&Store{db: s.db, q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// buildWhere translates the filter constraints SQLite can evaluate exactly.
// contains_character is left to Predicate.Match because SQLite's lower()
// only folds ASCII.
func buildWhere(f query.Filter) (string, []any) {
	var clauses []string
	var args []any

	if f.IsPalindrome != nil {
		clauses = append(clauses, "is_palindrome = ?")
		args = append(args, *f.IsPalindrome)
	}
	if f.MinLength != nil {
		clauses = append(clauses, "length >= ?")
		args = append(args, *f.MinLength)
	}
	if f.MaxLength != nil {
		clauses = append(clauses, "length <= ?")
		args = append(args, *f.MaxLength)
	}
	if f.WordCount != nil {
		clauses = append(clauses, "word_count = ?")
		args = append(args, *f.WordCount)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE or PRIMARY KEY violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY constraint failed")
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord scans a single row into a Record.
func scanRecord(row *sql.Row) (*record.Record, error) {
	return scanInto(row)
}

// ScanRecordFromRows scans the current row of rows into a Record.
func ScanRecordFromRows(rows *sql.Rows) (*record.Record, error) {
	return scanInto(rows)
}

func scanInto(sc rowScanner) (*record.Record, error) {
	var (
		r        record.Record
		freqJSON string
	)

	err := sc.Scan(
		&r.ID, &r.Value, &r.Properties.Length, &r.Properties.IsPalindrome,
		&r.Properties.UniqueCharacters, &r.Properties.WordCount,
		&freqJSON, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	var freq analysis.FrequencyMap
	if err := json.Unmarshal([]byte(freqJSON), &freq); err != nil {
		return nil, err
	}
	r.Properties.CharacterFrequencyMap = freq
	r.Properties.SHA256Hash = r.ID

	return &r, nil
}
