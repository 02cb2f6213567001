// Package sqlstore keeps sessions in the dashboard_sessions table of the dashboard database.
package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/storage/session"
)

type Store struct {
	db *sqlx.DB

	NowFunc func() time.Time
}

var (
	_ session.Store  = (*Store)(nil)
	_ session.Reaper = (*Store)(nil)
)

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, NowFunc: time.Now}
}

func (s *Store) now() time.Time {
	if s.NowFunc == nil {
		return time.Now()
	}
	return s.NowFunc()
}

const selectSession = `
SELECT id, token, user_id, name, email, role, created_at, expires_at
FROM dashboard_sessions
WHERE id = $1 AND expires_at > $2`

func (s *Store) Get(ctx context.Context, id string) (session.Session, error) {
	var sess session.Session
	if err := s.db.GetContext(ctx, &sess, selectSession, id, s.now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, errors.Wrap(err, "getting session")
	}
	return sess, nil
}

const upsertSession = `
INSERT INTO dashboard_sessions (id, token, user_id, name, email, role, created_at, expires_at)
VALUES (:id, :token, :user_id, :name, :email, :role, :created_at, :expires_at)
ON CONFLICT (id) DO UPDATE SET
	token = EXCLUDED.token,
	user_id = EXCLUDED.user_id,
	name = EXCLUDED.name,
	email = EXCLUDED.email,
	role = EXCLUDED.role,
	expires_at = EXCLUDED.expires_at`

func (s *Store) Save(ctx context.Context, sess session.Session) error {
	if err := sess.Validate(s.now()); err != nil {
		return err
	}
	if _, err := s.db.NamedExecContext(ctx, upsertSession, sess); err != nil {
		return errors.Wrap(err, "saving session")
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM dashboard_sessions WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return nil
}

func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM dashboard_sessions WHERE expires_at <= $1`, s.now().UTC())
	if err != nil {
		return 0, errors.Wrap(err, "deleting expired sessions")
	}
	return res.RowsAffected()
}
