package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateService_IssueAndVerify(t *testing.T) {
	t.Parallel()

	svc := NewStateService("secret", 10*time.Minute)
	state, err := svc.Issue()
	require.NoError(t, err)

	assert.NoError(t, svc.Verify(state))

	other, err := svc.Issue()
	require.NoError(t, err)
	assert.NotEqual(t, state, other)
}

func TestStateService_Rejects(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := NewStateService("secret", 10*time.Minute)
	svc.now = func() time.Time { return issuedAt }
	state, err := svc.Issue()
	require.NoError(t, err)

	session, err := NewTokenService("secret", time.Hour).Issue(uuid.New())
	require.NoError(t, err)

	foreign, err := NewStateService("other-secret", 10*time.Minute).Issue()
	require.NoError(t, err)

	tests := []struct {
		name  string
		state string
		at    time.Time
	}{
		{name: "empty", state: "", at: issuedAt},
		{name: "garbage", state: "not-a-state", at: issuedAt},
		{name: "expired", state: state, at: issuedAt.Add(11 * time.Minute)},
		{name: "session token", state: session, at: time.Now()},
		{name: "other secret", state: foreign, at: time.Now()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := NewStateService("secret", 10*time.Minute)
			v.now = func() time.Time { return tc.at }
			assert.ErrorIs(t, v.Verify(tc.state), ErrInvalidState)
		})
	}
}
