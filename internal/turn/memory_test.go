package turn

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRecorder(t *testing.T) {
	ctx := context.Background()
	rec := NewMemoryRecorder()

	for i := range 3 {
		require.NoError(t, rec.SaveInteraction(ctx, "a", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i)))
	}
	require.NoError(t, rec.SaveInteraction(ctx, "b", "other", "session"))

	tests := []struct {
		name    string
		session string
		limit   int
		want    []Message
	}{
		{
			name:    "limit keeps most recent",
			session: "a",
			limit:   2,
			want:    []Message{{Role: RoleUser, Content: "q2"}, {Role: RoleAssistant, Content: "a2"}},
		},
		{
			name:    "sessions are isolated",
			session: "b",
			limit:   40,
			want:    []Message{{Role: RoleUser, Content: "other"}, {Role: RoleAssistant, Content: "session"}},
		},
		{
			name:    "unknown session",
			session: "c",
			limit:   40,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rec.LoadMessages(ctx, tt.session, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	all, err := rec.LoadMessages(ctx, "a", 0)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}
