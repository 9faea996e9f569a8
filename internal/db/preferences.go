package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ziadkadry99/progvibe/internal/theme"
)

// ThemeKey is the preference key the theme is stored under.
const ThemeKey = "theme"

// Get returns the value stored for visitor and key, and false when none is.
func (d *DB) Get(ctx context.Context, visitor, key string) (string, bool, error) {
	var value string
	err := d.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE visitor_id = ? AND key = ?`,
		visitor, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying preference %s: %w", key, err)
	}
	return value, true, nil
}

// Put stores value for visitor and key, replacing any previous value.
func (d *DB) Put(ctx context.Context, visitor, key, value string) error {
	_, err := d.ExecContext(ctx, `
		INSERT INTO preferences (visitor_id, key, value, updated_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(visitor_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		visitor, key, value,
	)
	if err != nil {
		return fmt.Errorf("saving preference %s: %w", key, err)
	}
	return nil
}

// PreferenceStore is a theme.Store for one visitor.
type PreferenceStore struct {
	ctx     context.Context
	db      *DB
	visitor string
}

var _ theme.Store = (*PreferenceStore)(nil)

// NewPreferenceStore binds a store to a visitor id. ctx bounds every query.
func NewPreferenceStore(ctx context.Context, database *DB, visitor string) *PreferenceStore {
	return &PreferenceStore{ctx: ctx, db: database, visitor: visitor}
}

func (p *PreferenceStore) Load() (theme.Theme, bool, error) {
	v, ok, err := p.db.Get(p.ctx, p.visitor, ThemeKey)
	if err != nil || !ok {
		return "", false, err
	}
	t, err := theme.Parse(v)
	if err != nil {
		// A corrupt row reads as no preference.
		return "", false, nil
	}
	return t, true, nil
}

func (p *PreferenceStore) Save(t theme.Theme) error {
	return p.db.Put(p.ctx, p.visitor, ThemeKey, string(t))
}
