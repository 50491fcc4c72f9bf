package qrtoken

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_TicketTokenRoundTrip(t *testing.T) {
	codec := NewCodec("test-secret")

	token, err := codec.IssueTicketToken("ticket-1", "event-1", "owner-1")
	require.NoError(t, err)
	require.Contains(t, token, ".")

	claims, ok := codec.VerifyTicketToken(token)
	require.True(t, ok)
	assert.Equal(t, "ticket-1", claims.TicketID)
	assert.Equal(t, "event-1", claims.EventID)
	assert.Equal(t, "owner-1", claims.OwnerID)
	assert.NotZero(t, claims.IssuedAt)
}

func TestCodec_TamperDetection(t *testing.T) {
	codec := NewCodec("test-secret")

	token, err := codec.IssueTicketToken("ticket-1", "event-1", "owner-1")
	require.NoError(t, err)

	t.Run("flip payload byte", func(t *testing.T) {
		mutated := []byte(token)
		if mutated[2] == 'x' {
			mutated[2] = 'y'
		} else {
			mutated[2] = 'x'
		}
		_, ok := codec.VerifyTicketToken(string(mutated))
		assert.False(t, ok)
	})

	t.Run("flip signature byte", func(t *testing.T) {
		idx := strings.LastIndex(token, ".")
		mutated := []byte(token)
		if mutated[idx+1] == 'a' {
			mutated[idx+1] = 'b'
		} else {
			mutated[idx+1] = 'a'
		}
		_, ok := codec.VerifyTicketToken(string(mutated))
		assert.False(t, ok)
	})

	t.Run("every signature position", func(t *testing.T) {
		idx := strings.LastIndex(token, ".")
		for i := idx + 1; i < len(token); i++ {
			mutated := []byte(token)
			if mutated[i] == '0' {
				mutated[i] = '1'
			} else {
				mutated[i] = '0'
			}
			_, ok := codec.VerifyTicketToken(string(mutated))
			assert.False(t, ok, "position %d", i)
		}
	})
}

func TestCodec_MalformedTokens(t *testing.T) {
	codec := NewCodec("test-secret")

	for _, tc := range []string{
		"",
		"no-separator",
		".starts-with-separator",
		"ends-with-separator.",
		"garbage.deadbeef",
	} {
		_, ok := codec.VerifyTicketToken(tc)
		assert.False(t, ok, "token %q", tc)
		_, pok := codec.VerifyPersonalToken(tc)
		assert.False(t, pok, "personal token %q", tc)
	}
}

func TestCodec_WrongSecret(t *testing.T) {
	issuer := NewCodec("secret-a")
	verifier := NewCodec("secret-b")

	token, err := issuer.IssueTicketToken("ticket-1", "event-1", "owner-1")
	require.NoError(t, err)

	_, ok := verifier.VerifyTicketToken(token)
	assert.False(t, ok)
}

func TestCodec_PersonalTokenRoundTrip(t *testing.T) {
	codec := NewCodec("test-secret")

	token, err := codec.IssuePersonalToken("user-9")
	require.NoError(t, err)

	userID, ok := codec.VerifyPersonalToken(token)
	require.True(t, ok)
	assert.Equal(t, "user-9", userID)
}

func TestCodec_TypeDiscriminator(t *testing.T) {
	codec := NewCodec("test-secret")

	t.Run("personal token rejected as ticket token", func(t *testing.T) {
		token, err := codec.IssuePersonalToken("user-9")
		require.NoError(t, err)

		_, ok := codec.VerifyTicketToken(token)
		assert.False(t, ok)
	})

	t.Run("ticket token rejected as personal token", func(t *testing.T) {
		token, err := codec.IssueTicketToken("ticket-1", "event-1", "owner-1")
		require.NoError(t, err)

		_, ok := codec.VerifyPersonalToken(token)
		assert.False(t, ok)
	})
}

func TestCodec_IntegrityHash(t *testing.T) {
	codec := NewCodec("test-secret")

	hash := codec.IntegrityHash("ticket-1", "event-1", "owner-1")
	assert.Len(t, hash, 64)
}
