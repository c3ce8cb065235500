package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/lineage/pkg/document"
	"github.com/dyluth/lineage/pkg/genealogy"
)

// setupTestStore creates a test store connected to a miniredis instance
func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr := miniredis.NewMiniRedis()
	err := mr.Start()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	s, err := New(&redis.Options{Addr: mr.Addr()}, "test-ns", nil)
	require.NoError(t, err)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	t.Cleanup(func() { s.Close() })

	return s, mr
}

func sampleDocument(t *testing.T, name string, persons ...string) *document.Document {
	t.Helper()
	tree := genealogy.NewFamilyTree(name)
	for _, first := range persons {
		p := genealogy.NewPerson()
		p.SetLegalFirstNames([]string{first})
		require.NoError(t, tree.AddPerson(p))
	}
	return document.FromTree(tree)
}

func TestNew(t *testing.T) {
	t.Run("creates store successfully", func(t *testing.T) {
		s, _ := setupTestStore(t)
		assert.Equal(t, "test-ns", s.namespace)
		assert.NoError(t, s.Ping(context.Background()))
	})

	t.Run("rejects empty namespace", func(t *testing.T) {
		_, err := New(&redis.Options{Addr: "localhost:6379"}, "", nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "namespace cannot be empty")
	})
}

func TestSchema(t *testing.T) {
	assert.Equal(t, "lineage:ns:tree:abc", TreeKey("ns", "abc"))
	assert.Equal(t, "lineage:ns:trees", TreeIndexKey("ns"))
	assert.Equal(t, "lineage:ns:tree_events", TreeEventsChannel("ns"))
}

func TestSaveAndGet(t *testing.T) {
	s, mr := setupTestStore(t)
	ctx := context.Background()
	id := uuid.NewString()
	doc := sampleDocument(t, "Smith family", "Ann", "Bert")

	rev, err := s.Save(ctx, id, doc)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)

	assert.True(t, mr.Exists(TreeKey("test-ns", id)))
	members, err := mr.Members(TreeIndexKey("test-ns"))
	require.NoError(t, err)
	assert.Equal(t, []string{id}, members)

	rec, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, "Smith family", rec.Name)
	assert.Equal(t, int64(1), rec.Revision)
	assert.Equal(t, 2, rec.PersonCount)
	assert.Equal(t, int64(1700000000000), rec.UpdatedAt.UnixMilli())
	assert.Equal(t, doc, rec.Document)

	t.Run("second save bumps revision", func(t *testing.T) {
		rev, err := s.Save(ctx, id, sampleDocument(t, "Smith family", "Ann"))
		require.NoError(t, err)
		assert.Equal(t, int64(2), rev)

		rec, err := s.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1, rec.PersonCount)
	})

	t.Run("uppercase id is normalised", func(t *testing.T) {
		upper := "AAAAAAAA-0000-4000-8000-000000000000"
		_, err := s.Save(ctx, upper, doc)
		require.NoError(t, err)
		exists, err := s.Exists(ctx, "aaaaaaaa-0000-4000-8000-000000000000")
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

func TestSave_RejectsInvalidID(t *testing.T) {
	s, _ := setupTestStore(t)
	_, err := s.Save(context.Background(), "not-a-uuid", sampleDocument(t, "x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid tree ID")
}

func TestGet_NotFound(t *testing.T) {
	s, _ := setupTestStore(t)
	rec, err := s.Get(context.Background(), uuid.NewString())
	assert.Nil(t, rec)
	assert.True(t, IsNotFound(err))
}

func TestList(t *testing.T) {
	s, mr := setupTestStore(t)
	ctx := context.Background()

	idB := uuid.NewString()
	idA := uuid.NewString()
	_, err := s.Save(ctx, idB, sampleDocument(t, "Brown", "X"))
	require.NoError(t, err)
	_, err = s.Save(ctx, idA, sampleDocument(t, "Adams", "Y", "Z"))
	require.NoError(t, err)

	// A dangling index entry is skipped.
	_, err = mr.SAdd(TreeIndexKey("test-ns"), uuid.NewString())
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Adams", list[0].Name)
	assert.Equal(t, idA, list[0].ID)
	assert.Equal(t, 2, list[0].PersonCount)
	assert.Equal(t, "Brown", list[1].Name)

	ids, err := s.ListTrees(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 3)
}

func TestDelete(t *testing.T) {
	s, mr := setupTestStore(t)
	ctx := context.Background()
	id := uuid.NewString()
	_, err := s.Save(ctx, id, sampleDocument(t, "Gone"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))
	assert.False(t, mr.Exists(TreeKey("test-ns", id)))

	exists, err := s.Exists(ctx, id)
	require.NoError(t, err)
	assert.False(t, exists)

	ids, err := s.ListTrees(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	assert.True(t, IsNotFound(s.Delete(ctx, id)))
}

func TestSubscribe(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub, err := s.Subscribe(ctx)
	require.NoError(t, err)
	defer sub.Close()

	id := uuid.NewString()
	_, err = s.Save(ctx, id, sampleDocument(t, "Watched"))
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, id))

	expect := []TreeEvent{
		{TreeID: id, Name: "Watched", Action: ActionSaved, Revision: 1, AtMs: 1700000000000},
		{TreeID: id, Name: "Watched", Action: ActionDeleted, AtMs: 1700000000000},
	}
	for _, want := range expect {
		select {
		case ev := <-sub.Events():
			assert.Equal(t, want, ev)
		case <-ctx.Done():
			t.Fatal("timed out waiting for tree event")
		}
	}

	t.Run("close is idempotent", func(t *testing.T) {
		assert.NoError(t, sub.Close())
		assert.NoError(t, sub.Close())
	})
}
