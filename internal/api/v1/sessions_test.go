package v1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_CreateValidate(t *testing.T) {
	m := NewSessionManager(time.Minute)

	token, err := m.Create()
	require.NoError(t, err)
	assert.Len(t, token, 64)

	assert.True(t, m.Validate(token))
	assert.False(t, m.Validate("unknown"))
	assert.False(t, m.Validate(""))
}

func TestSessionManager_Destroy(t *testing.T) {
	m := NewSessionManager(time.Minute)

	token, err := m.Create()
	require.NoError(t, err)

	m.Destroy(token)
	assert.False(t, m.Validate(token))

	// Unknown tokens are a no-op.
	m.Destroy("unknown")
}

func TestSessionManager_Expiry(t *testing.T) {
	m := NewSessionManager(time.Minute)
	now := time.Now()
	m.now = func() time.Time { return now }

	token, err := m.Create()
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	assert.False(t, m.Validate(token), "expired session should be rejected")
}

func TestSessionManager_SlidingExpiry(t *testing.T) {
	m := NewSessionManager(time.Minute)
	now := time.Now()
	m.now = func() time.Time { return now }

	token, err := m.Create()
	require.NoError(t, err)

	// Touch the session every 45 seconds; it should stay alive well
	// past the original expiry.
	for i := 0; i < 4; i++ {
		now = now.Add(45 * time.Second)
		require.True(t, m.Validate(token), "touch %d", i)
	}
}

func TestSessionManager_TokensAreUnique(t *testing.T) {
	m := NewSessionManager(time.Minute)

	a, err := m.Create()
	require.NoError(t, err)
	b, err := m.Create()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
