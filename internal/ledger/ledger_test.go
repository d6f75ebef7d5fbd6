package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joefazee/foresight/internal/cache"
)

func TestTemporary_PutGetJSON(t *testing.T) {
	temp := NewTemporary(cache.NewMemoryCache[string]())
	ctx := context.Background()

	type payload struct {
		ActionID  int64  `json:"action_id"`
		Initiator string `json:"initiator"`
	}

	in := payload{ActionID: 42, Initiator: "abc"}
	require.NoError(t, temp.PutJSON(ctx, "pending:42", in, time.Minute))

	var out payload
	found, err := temp.GetJSON(ctx, "pending:42", &out)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, in, out)
}

func TestTemporary_GetMiss(t *testing.T) {
	temp := NewTemporary(cache.NewMemoryCache[string]())
	_, found, err := temp.Get(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, found)
}

func TestTemporary_Delete(t *testing.T) {
	temp := NewTemporary(cache.NewMemoryCache[string]())
	ctx := context.Background()
	require.NoError(t, temp.Put(ctx, "k", "v", time.Minute))
	require.NoError(t, temp.Delete(ctx, "k"))

	_, found, err := temp.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, found)
}
