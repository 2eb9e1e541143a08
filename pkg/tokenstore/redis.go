package tokenstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the entry under a single key so every write replaces the
// whole triple in one command.
type RedisStore struct {
	client redis.UniversalClient
	key    string
	codec  Codec
	o      options
}

// NewRedisStore returns a store for profile using client.
func NewRedisStore(client redis.UniversalClient, profile string, opts ...Option) *RedisStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if profile == "" {
		profile = "default"
	}
	return &RedisStore{
		client: client,
		key:    o.keyPrefix + profile,
		codec:  o.codec,
		o:      o,
	}
}

// Key returns the redis key holding the record.
func (s *RedisStore) Key() string {
	return s.key
}

func (s *RedisStore) Get(ctx context.Context) (Entry, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, nil
	}
	if err != nil {
		return Entry{}, err
	}

	entry, err := s.codec.Decode(data)
	if errors.Is(err, ErrCorruptRecord) {
		// A record that is not a complete triple is never trusted.
		_ = s.client.Del(ctx, s.key).Err()
		return Entry{}, nil
	}
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (s *RedisStore) Set(ctx context.Context, entry Entry) error {
	if err := entry.validate(); err != nil {
		return err
	}
	data, err := s.codec.Encode(entry)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, data, s.o.ttl).Err()
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
