package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jayteemoney/ticket/internal/db"
	"github.com/jayteemoney/ticket/internal/draft"
	"github.com/jayteemoney/ticket/internal/internaltypes"
)

type pgConn interface {
	Exec(ctx context.Context, sql string, args ...any) error
	ExecAffected(ctx context.Context, sql string, args ...any) (int64, error)
	QueryRow(ctx context.Context, sql string, args ...any) db.Row
}

// Postgres stores drafts in the drafts table, one row per visitor.
type Postgres struct{ db pgConn }

func NewPostgres(d pgConn) *Postgres { return &Postgres{db: d} }

func (p *Postgres) Load(ctx context.Context, id string) (draft.Draft, error) {
	var payload string
	err := p.db.QueryRow(ctx, `SELECT payload::text FROM drafts WHERE visitor_id=$1`, id).Scan(&payload)
	if err != nil {
		return draft.Draft{}, db.WrapNotFound(err)
	}
	d, err := draft.Decode([]byte(payload))
	if err != nil {
		return draft.Default(), fmt.Errorf("%w: visitor %s: %v", internaltypes.ErrCorrupt, id, err)
	}
	return d, nil
}

func (p *Postgres) Save(ctx context.Context, id string, d draft.Draft) error {
	b, err := draft.Encode(d)
	if err != nil {
		return err
	}
	return p.db.Exec(ctx, `
INSERT INTO drafts(visitor_id, payload)
VALUES ($1, $2::jsonb)
ON CONFLICT (visitor_id) DO UPDATE SET payload=EXCLUDED.payload, updated_at=now()`,
		id, string(b))
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	n, err := p.db.ExecAffected(ctx, `DELETE FROM drafts WHERE visitor_id=$1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return internaltypes.ErrNotFound
	}
	return nil
}

// Prune removes drafts last written before the given time.
func (p *Postgres) Prune(ctx context.Context, before time.Time) (int64, error) {
	return p.db.ExecAffected(ctx, `DELETE FROM drafts WHERE updated_at < $1`, before)
}
