package db

import (
	"context"
	"errors"

	"github.com/phil-crm/phil-console/internal/gwerrors"
	"github.com/phil-crm/phil-console/internal/models"
)

const (
	sessionPrefix string = "session"
)

func (r RedisAdapter) GetSession(ctx context.Context, key string) (models.Session, error) {
	output := models.Session{}
	// NOTE: HGETALL will return an empty list of hash-keys and hash-values if the key is not found
	// then this is deserialized as an empty (zero-valued) struct
	raw, err := r.rdb.HGetAll(
		ctx,
		r.sessionKey(key),
	).Result()
	if err != nil {
		return output, err
	}
	err = r.deserializeToStruct(raw, &output)
	if err != nil {
		if errors.Is(err, gwerrors.ErrMissingDBResource) {
			err = gwerrors.ErrSessionNotFound
		}
		return models.Session{}, err
	}
	return openSession(r.encryptor, output)
}

// SetSession writes all fields of the session in a single HSET so readers never see a mix of old
// and new tokens.
func (r RedisAdapter) SetSession(ctx context.Context, key string, session models.Session) error {
	sealed, err := sealSession(r.encryptor, session)
	if err != nil {
		return err
	}
	redisKey := r.sessionKey(key)
	err = r.rdb.HSet(
		ctx,
		redisKey,
		r.serializeStruct(sealed)...,
	).Err()
	if err != nil {
		return err
	}
	return r.rdb.ExpireAt(ctx, redisKey, r.now().Add(r.maxLifetime)).Err()
}

func (r RedisAdapter) RemoveSession(ctx context.Context, key string) error {
	return r.rdb.Del(
		ctx,
		r.sessionKey(key),
	).Err()
}

func (RedisAdapter) sessionKey(key string) string {
	return sessionPrefix + ":" + key
}
