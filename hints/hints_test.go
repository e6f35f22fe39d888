package hints_test

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/modelgql"
	"github.com/syssam/modelgql/hints"
	"github.com/syssam/modelgql/model"
)

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	h := hints.New()
	assert.NotNil(t, h.Only())
	assert.NotNil(t, h.SelectRelated())
	assert.NotNil(t, h.PrefetchRelated())
	assert.NotNil(t, h.Annotate())
	assert.Empty(t, h.Only())
	assert.Empty(t, h.Annotate())
	assert.True(t, h.IsEmpty())
	assert.True(t, hints.Empty().IsEmpty())
}

func TestNewVerbatim(t *testing.T) {
	t.Parallel()

	h := hints.New(
		hints.Only("other_name", "name", "other", "name"),
		hints.SelectRelated("other"),
		hints.PrefetchRelated("tags", "other"),
		hints.Annotate(map[string]model.Expr{"other_name": model.F("other__name")}),
	)
	// No reordering and no deduplication.
	assert.Equal(t, []string{"other_name", "name", "other", "name"}, h.Only())
	assert.Equal(t, []string{"other"}, h.SelectRelated())
	assert.Equal(t, []string{"tags", "other"}, h.PrefetchRelated())
	assert.Equal(t, map[string]model.Expr{"other_name": model.F("other__name")}, h.Annotate())
	assert.False(t, h.IsEmpty())
}

func TestHintsReadOnly(t *testing.T) {
	t.Parallel()

	only := []string{"name"}
	exprs := map[string]model.Expr{"n": model.F("name")}
	h := hints.New(hints.Only(only...), hints.Annotate(exprs))

	// Mutating the inputs does not leak into the record.
	only[0] = "changed"
	exprs["m"] = model.F("other")
	assert.Equal(t, []string{"name"}, h.Only())
	assert.Len(t, h.Annotate(), 1)

	// Mutating the returned values does not leak either.
	got := h.Only()
	got[0] = "changed"
	ann := h.Annotate()
	delete(ann, "n")
	assert.Equal(t, []string{"name"}, h.Only())
	assert.Len(t, h.Annotate(), 1)
}

func TestOptionsRoundTrip(t *testing.T) {
	t.Parallel()

	h := hints.New(hints.Only("a"), hints.SelectRelated("b"), hints.PrefetchRelated("c"),
		hints.Annotate(map[string]model.Expr{"d": model.Count{Field: "c"}}))
	clone := hints.New(h.Options()...)
	assert.Equal(t, h, clone)
	assert.NotSame(t, h, clone)
}

func TestStoreGet(t *testing.T) {
	t.Parallel()

	s := hints.NewStore()
	s.Attach("SomeModel3Type",
		hints.Only("name", "other", "other_name"),
		hints.SelectRelated("other"),
		hints.PrefetchRelated("other"),
		hints.Annotate(map[string]model.Expr{"other_name": model.F("other__name")}),
	)

	h, err := s.Get("SomeModel3Type", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "other", "other_name"}, h.Only())
	assert.Equal(t, []string{"other"}, h.SelectRelated())
	assert.Equal(t, []string{"other"}, h.PrefetchRelated())
	assert.Equal(t, map[string]model.Expr{"other_name": model.F("other__name")}, h.Annotate())

	t.Run("strict_missing", func(t *testing.T) {
		_, err := s.Get("Unknown", true)
		require.Error(t, err)
		assert.ErrorIs(t, err, modelgql.ErrConfiguration)
		var cerr *modelgql.ConfigurationError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "Unknown", cerr.Type)
	})

	t.Run("soft_missing", func(t *testing.T) {
		h, err := s.Get("Unknown", false)
		require.NoError(t, err)
		require.NotNil(t, h)
		assert.True(t, h.IsEmpty())
		assert.NotNil(t, h.Only())
	})

	t.Run("lookup", func(t *testing.T) {
		_, ok := s.Lookup("SomeModel3Type")
		assert.True(t, ok)
		_, ok = s.Lookup("Unknown")
		assert.False(t, ok)
		assert.Equal(t, 1, s.Len())
	})
}

func TestStoreOverwrite(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := hints.NewStore(hints.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	s.Attach("T", hints.Only("a"), hints.SelectRelated("x"))
	s.Attach("T", hints.Only("b"))

	h, err := s.Get("T", true)
	require.NoError(t, err)
	// Last registration wins and nothing is merged.
	assert.Equal(t, []string{"b"}, h.Only())
	assert.Empty(t, h.SelectRelated())
	assert.Contains(t, buf.String(), "optimizer hints replaced")
	assert.Equal(t, 1, s.Len())
}

func TestStoreConcurrentReads(t *testing.T) {
	t.Parallel()

	s := hints.NewStore()
	s.Attach("T", hints.Only("a", "b"))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, err := s.Get("T", true)
			assert.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, h.Only())
		}()
	}
	wg.Wait()
}
