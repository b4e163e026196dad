package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"upi-cli/internal/model"
)

const stateFileName = "state.sqlite"

// StateStore persists small client-side state under the workspace dir:
// wizard draft autosaves and the single-slot blog preview handoff. Both are
// best effort; the server never sees any of this.
type StateStore struct {
	Dir string
}

func (s StateStore) path() string { return filepath.Join(s.Dir, stateFileName) }

func (s StateStore) ensure() error {
	if s.Dir == "" {
		return fmt.Errorf("state dir is empty")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

func (s StateStore) open(ctx context.Context) (*sql.DB, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.path())
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS drafts (
			id TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS preview (
			k TEXT PRIMARY KEY CHECK (k = 'current'),
			payload TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// SaveDraft upserts the draft autosave.
func (s StateStore) SaveDraft(ctx context.Context, d model.Draft) error {
	if d.ID == "" {
		return fmt.Errorf("draft id is empty")
	}
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT OR REPLACE INTO drafts(id, payload, updated_at) VALUES(?, ?, ?)`,
		d.ID, string(payload), time.Now().UTC().Format(time.RFC3339))
	return err
}

// LoadDraft returns the most recently saved draft, if any.
func (s StateStore) LoadDraft(ctx context.Context) (model.Draft, bool, error) {
	db, err := s.open(ctx)
	if err != nil {
		return model.Draft{}, false, err
	}
	defer db.Close()

	var payload string
	err = db.QueryRowContext(ctx,
		`SELECT payload FROM drafts ORDER BY updated_at DESC LIMIT 1`).Scan(&payload)
	if err == sql.ErrNoRows {
		return model.Draft{}, false, nil
	}
	if err != nil {
		return model.Draft{}, false, err
	}
	var d model.Draft
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		// A corrupt autosave should not block the wizard; start fresh.
		return model.Draft{}, false, nil
	}
	return d, true, nil
}

// DeleteDraft drops an autosave (after successful terminal submission).
func (s StateStore) DeleteDraft(ctx context.Context, id string) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id)
	return err
}

// PreviewPayload hands a not-yet-saved blog draft to the preview command.
type PreviewPayload struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt,omitempty"`
	Content string `json:"content"`
}

// SavePreview overwrites the single preview slot.
func (s StateStore) SavePreview(ctx context.Context, p PreviewPayload) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal preview: %w", err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT OR REPLACE INTO preview(k, payload, updated_at) VALUES('current', ?, ?)`,
		string(payload), time.Now().UTC().Format(time.RFC3339))
	return err
}

// LoadPreview reads the preview slot.
func (s StateStore) LoadPreview(ctx context.Context) (PreviewPayload, bool, error) {
	db, err := s.open(ctx)
	if err != nil {
		return PreviewPayload{}, false, err
	}
	defer db.Close()

	var payload string
	err = db.QueryRowContext(ctx, `SELECT payload FROM preview WHERE k = 'current'`).Scan(&payload)
	if err == sql.ErrNoRows {
		return PreviewPayload{}, false, nil
	}
	if err != nil {
		return PreviewPayload{}, false, err
	}
	var p PreviewPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return PreviewPayload{}, false, nil
	}
	return p, true, nil
}
