//go:build !integration

package redis

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// memClient is an in-process RedisClient.
type memClient struct {
	mu      sync.Mutex
	vals    map[string]string
	ttls    map[string]time.Duration
	getErr  error
	gets    int
	expires int
}

var _ RedisClient = (*memClient)(nil)

func newMemClient() *memClient {
	return &memClient{vals: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memClient) Ping(ctx context.Context) error { return nil }

func (m *memClient) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		m.vals[key] = string(v)
	case string:
		m.vals[key] = v
	}
	m.ttls[key] = exp
	return nil
}

func (m *memClient) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.vals[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memClient) Incr(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	if v, ok := m.vals[key]; ok {
		for _, c := range v {
			n = n*10 + int64(c-'0')
		}
	}
	n++
	m.vals[key] = itoa(n)
	return n, nil
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for ; n > 0; n /= 10 {
		b = append([]byte{byte('0' + n%10)}, b...)
	}
	return string(b)
}

func (m *memClient) Expire(ctx context.Context, key string, exp time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expires++
	m.ttls[key] = exp
	return nil
}

func (m *memClient) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.vals, k)
	}
	return nil
}

func (m *memClient) Close() error { return nil }
