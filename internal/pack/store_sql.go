package pack

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// currentSlot is the key of the single working-copy row. The browser
// editor this service backs keeps exactly one pack in flight.
const currentSlot = "current-pack"

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) SaveCurrent(ctx context.Context, p Pack, savedBy string) error {
	pj, err := json.Marshal(p)
	if err != nil {
		return err
	}
	now := time.Now().Unix()
	_, err = s.db.ExecContext(ctx, `INSERT INTO packs (slot,pack_json,updated_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (slot) DO UPDATE SET pack_json=EXCLUDED.pack_json, updated_at=EXCLUDED.updated_at`,
		currentSlot, string(pj), now)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO pack_revisions (id,name,author,saved_by,pack_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		uuid.NewString(), p.Name, p.Author, savedBy, string(pj), now)
	return err
}

func (s *SQLStore) LoadCurrent(ctx context.Context) (Pack, error) {
	row := s.db.QueryRowContext(ctx, `SELECT pack_json FROM packs WHERE slot=$1`, currentSlot)
	var pj string
	if err := row.Scan(&pj); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Pack{}, ErrNotFound
		}
		return Pack{}, err
	}
	var p Pack
	if err := json.Unmarshal([]byte(pj), &p); err != nil {
		return Pack{}, err
	}
	return p, nil
}

func (s *SQLStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM packs WHERE slot=$1`, currentSlot); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM pack_revisions`)
	return err
}

func (s *SQLStore) ListRevisions(ctx context.Context, limit int) ([]RevisionSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,name,author,saved_by,created_at FROM pack_revisions ORDER BY created_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RevisionSummary
	for rows.Next() {
		var r RevisionSummary
		if err := rows.Scan(&r.ID, &r.Name, &r.Author, &r.SavedBy, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetRevision(ctx context.Context, id string) (Pack, error) {
	row := s.db.QueryRowContext(ctx, `SELECT pack_json FROM pack_revisions WHERE id=$1`, id)
	var pj string
	if err := row.Scan(&pj); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Pack{}, ErrNotFound
		}
		return Pack{}, err
	}
	var p Pack
	if err := json.Unmarshal([]byte(pj), &p); err != nil {
		return Pack{}, err
	}
	return p, nil
}
