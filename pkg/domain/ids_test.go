package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "neighnet/pkg/domain-errors"
)

func TestParseID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParsePassID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseVisitorID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseUserID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParsePassID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, PassID(valid), id)
	})
}

// Parsing must reject hostile input at API entry points before it reaches a
// query or a log line.
func TestParseID_HostileInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"SQL injection attempt", "'; DROP TABLE visits;--"},
		{"path traversal", "../../../etc/passwd"},
		{"null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000"},
		{"oversized input", strings.Repeat("a", 1000)},
		{"whitespace only", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVisitID(tt.input)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
		})
	}
}

func TestIsZero(t *testing.T) {
	assert.True(t, UserID{}.IsZero())
	assert.False(t, NewUserID().IsZero())
	assert.True(t, PassID{}.IsZero())
	assert.False(t, NewPassID().IsZero())
}
