// Package redisstore keeps sessions in Redis, so that several dashboard instances can share them.
package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/storage/session"
)

const keyPrefix = "session:"

type Store struct {
	client *redis.Client
}

var _ session.Store = (*Store)(nil)

// Connect opens a client on the configured Redis and checks it answers.
func Connect(ctx context.Context, conf core.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "connecting to redis at %s", conf.Addr)
	}
	return client, nil
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func key(id string) string { return keyPrefix + id }

func (s *Store) Get(ctx context.Context, id string) (session.Session, error) {
	raw, err := s.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, errors.Wrap(err, "getting session")
	}

	var sess session.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return session.Session{}, errors.Wrap(err, "decoding session")
	}
	if sess.Expired(time.Now()) {
		return session.Session{}, session.ErrNotFound
	}
	return sess, nil
}

// Save stores the session with a TTL matching its expiry; Redis evicts it on its own.
func (s *Store) Save(ctx context.Context, sess session.Session) error {
	now := time.Now()
	if err := sess.Validate(now); err != nil {
		return err
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	if err := s.client.Set(ctx, key(sess.ID), raw, sess.ExpiresAt.Sub(now)).Err(); err != nil {
		return errors.Wrap(err, "saving session")
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return nil
}
