package db

import (
	"context"
	"encoding"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Implements the LimitedRedis client struct
// Only suitable for testing and local development
// The value set for the IntCmd or similar results is always 1 regardless of how many records were affected
// Contexts are completely ignored
type MockRedisClient struct {
	store   map[string]map[string]string
	expires map[string]time.Time
	now     func() time.Time
	lock    sync.Mutex
}

func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{
		store:   map[string]map[string]string{},
		expires: map[string]time.Time{},
		now:     time.Now,
	}
}

func convertValuesToMap(values ...any) (map[string]string, error) {
	if len(values)%2 != 0 {
		return map[string]string{}, fmt.Errorf("number of provided values must be even")
	}
	output := map[string]string{}
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return map[string]string{}, fmt.Errorf("hash field names must be strings, got %T", values[i])
		}
		switch val := values[i+1].(type) {
		case string:
			output[key] = val
		case encoding.TextMarshaler:
			raw, err := val.MarshalText()
			if err != nil {
				return map[string]string{}, err
			}
			output[key] = string(raw)
		default:
			output[key] = fmt.Sprint(val)
		}
	}
	return output, nil
}

// expire drops the key if its deadline has passed, the lock must be held
func (m *MockRedisClient) expire(key string) {
	deadline, found := m.expires[key]
	if found && !m.now().Before(deadline) {
		delete(m.store, key)
		delete(m.expires, key)
	}
}

func (m *MockRedisClient) HSet(_ context.Context, key string, values ...any) *redis.IntCmd {
	m.lock.Lock()
	defer m.lock.Unlock()
	res := redis.IntCmd{}
	val, err := convertValuesToMap(values...)
	if err != nil {
		res.SetErr(err)
		return &res
	}
	m.expire(key)
	existing, found := m.store[key]
	if !found {
		existing = map[string]string{}
		m.store[key] = existing
	}
	for k, v := range val {
		existing[k] = v
	}
	res.SetVal(1)
	return &res
}

func (m *MockRedisClient) Del(_ context.Context, keys ...string) *redis.IntCmd {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, k := range keys {
		delete(m.store, k)
		delete(m.expires, k)
	}
	res := redis.IntCmd{}
	res.SetVal(1)
	return &res
}

func (m *MockRedisClient) ExpireAt(_ context.Context, key string, tm time.Time) *redis.BoolCmd {
	m.lock.Lock()
	defer m.lock.Unlock()
	res := redis.BoolCmd{}
	m.expire(key)
	if _, found := m.store[key]; !found {
		res.SetVal(false)
		return &res
	}
	m.expires[key] = tm
	m.expire(key)
	res.SetVal(true)
	return &res
}

func (m *MockRedisClient) HGetAll(_ context.Context, key string) *redis.MapStringStringCmd {
	m.lock.Lock()
	defer m.lock.Unlock()
	res := redis.MapStringStringCmd{}
	m.expire(key)
	output := map[string]string{}
	for k, v := range m.store[key] {
		output[k] = v
	}
	res.SetVal(output)
	return &res
}
