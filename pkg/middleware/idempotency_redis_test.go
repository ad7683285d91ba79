package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisIdempotencyStore_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisIdempotencyStore(db, time.Hour, testLog)
	ctx := context.Background()

	cached := CachedResponse{
		StatusCode: http.StatusCreated,
		Headers:    http.Header{"Content-Type": {"application/json"}},
		Body:       []byte(`{"data":{"id":"1"}}`),
	}
	data, err := json.Marshal(cached)
	require.NoError(t, err)

	mock.ExpectGet("idempotency:hit").SetVal(string(data))
	mock.ExpectGet("idempotency:miss").RedisNil()
	mock.ExpectGet("idempotency:down").SetErr(errors.New("connection refused"))
	mock.ExpectGet("idempotency:corrupt").SetVal("{not json")

	got, ok := store.Get(ctx, "hit")
	require.True(t, ok)
	assert.Equal(t, cached.StatusCode, got.StatusCode)
	assert.Equal(t, cached.Body, got.Body)
	assert.Equal(t, "application/json", got.Headers.Get("Content-Type"))

	for _, key := range []string{"miss", "down", "corrupt"} {
		_, ok := store.Get(ctx, key)
		assert.False(t, ok, key)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisIdempotencyStore_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisIdempotencyStore(db, 24*time.Hour, testLog)

	resp := &CachedResponse{StatusCode: http.StatusCreated, Body: []byte(`{}`)}
	data, err := json.Marshal(resp)
	require.NoError(t, err)

	mock.ExpectSet("idempotency:k1", data, 24*time.Hour).SetVal("OK")

	store.Set(context.Background(), "k1", resp)
	store.Stop()

	assert.NoError(t, mock.ExpectationsWereMet())
}
