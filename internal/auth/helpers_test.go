package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAuth(t *testing.T) {
	t.Run("returns error when no claims in context", func(t *testing.T) {
		ctx := context.Background()
		claims, err := RequireAuth(ctx)
		assert.Nil(t, claims)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not authenticated")
	})

	t.Run("returns claims when present in context", func(t *testing.T) {
		ctx := context.Background()
		expectedClaims := &UserClaims{UID: "user-123", Email: "test@example.com"}
		ctx = withUserClaims(ctx, expectedClaims)

		claims, err := RequireAuth(ctx)
		require.NoError(t, err)
		assert.Equal(t, expectedClaims.UID, claims.UID)
		assert.Equal(t, expectedClaims.Email, claims.Email)
	})
}

func TestGetUserID(t *testing.T) {
	t.Run("returns false when no claims in context", func(t *testing.T) {
		uid, ok := GetUserID(context.Background())
		assert.False(t, ok)
		assert.Empty(t, uid)
	})

	t.Run("returns the UID when present", func(t *testing.T) {
		ctx := WithUserClaims(context.Background(), &UserClaims{UID: "user-123"})
		uid, ok := GetUserID(ctx)
		assert.True(t, ok)
		assert.Equal(t, "user-123", uid)
	})
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid bearer token", "Bearer abc123", "abc123", false},
		{"lowercase scheme", "bearer abc123", "abc123", false},
		{"missing header", "", "", true},
		{"wrong scheme", "Basic abc123", "", true},
		{"no token", "Bearer", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractTokenFromHeader(tt.header)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
