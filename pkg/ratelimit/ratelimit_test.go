package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilClientAllows(t *testing.T) {
	ok, err := CheckAndSet(context.Background(), nil, uuid.New(), "ai_chat", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ttl, err := TTL(context.Background(), nil, uuid.New(), "ai_chat")
	require.NoError(t, err)
	assert.Zero(t, ttl)

	assert.NoError(t, Clear(context.Background(), nil, uuid.New(), "ai_chat"))
}

func TestKey(t *testing.T) {
	id := uuid.MustParse("7f1c1f9e-1d2a-4d7b-9a57-0d4c1e0a5b11")
	assert.Equal(t, "rate_limit:user:7f1c1f9e-1d2a-4d7b-9a57-0d4c1e0a5b11:ai_chat", key(id, "ai_chat"))
}
