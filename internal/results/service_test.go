package results

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playperu/bracket/internal/kv"
)

type recordingNotifier struct{ got []Outcome }

func (n *recordingNotifier) Notify(o Outcome) { n.got = append(n.got, o) }

type failingBackend struct {
	kv.Backend
	err error
}

func (f failingBackend) Put(context.Context, string, []byte) error { return f.err }

func TestKVStoreLoadDefaultsToEmpty(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	store := NewKVStore(mem, "")

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, doc)
	assert.Empty(t, doc)

	require.NoError(t, mem.Put(ctx, DefaultKey, []byte("null")))
	doc, err = store.Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, doc)
}

func TestKVStoreLoadCorrupt(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	require.NoError(t, mem.Put(ctx, DefaultKey, []byte(`[1,2]`)))

	_, err := NewKVStore(mem, DefaultKey).Load(ctx)
	assert.Error(t, err)
}

func TestServiceScenario(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	n := &recordingNotifier{}
	svc := NewService(NewKVStore(mem, DefaultKey), n, slog.Default())

	_, err := svc.Apply(ctx, SaveRequest{Category: "U12", Slot: "A1", Team: "Falcons", Score: "3"})
	require.NoError(t, err)

	raw, err := mem.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"U12":{"A1":{"team":"Falcons","score":"3"}}}`, string(raw))

	out, err := svc.Apply(ctx, DeleteRequest{Category: "U12", Slot: "A1"})
	require.NoError(t, err)
	assert.True(t, out.Existed)

	raw, err = mem.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))

	require.Len(t, n.got, 2)
	assert.Equal(t, KindSaved, n.got[0].Kind)
	assert.Equal(t, KindRemoved, n.got[1].Kind)
}

func TestServiceSaveFailureNotNotified(t *testing.T) {
	boom := errors.New("disk full")
	n := &recordingNotifier{}
	svc := NewService(NewKVStore(failingBackend{Backend: kv.NewMemory(), err: boom}, DefaultKey), n, slog.Default())

	_, err := svc.Apply(context.Background(), SaveRequest{Category: "U12", Slot: "A1", Team: "Falcons"})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, n.got)
}
