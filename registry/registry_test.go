package registry_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/modelgql"
	"github.com/syssam/modelgql/config"
	"github.com/syssam/modelgql/hints"
	"github.com/syssam/modelgql/model"
	"github.com/syssam/modelgql/registry"
	"github.com/syssam/modelgql/schema"
	"github.com/syssam/modelgql/schema/field"
)

type CustomField struct {
	*field.ModelField
}

func (c *CustomField) Resolve(ctx context.Context, source any, info field.Info) (any, error) {
	v, err := c.ModelField.Resolve(ctx, source, info)
	if s, ok := v.(string); ok {
		return strings.ToUpper(s), err
	}
	return v, err
}

var (
	someModel = model.New("SomeModel",
		model.ID("id"),
		model.Char("name", 255),
	)
	otherModel = model.New("OtherModel",
		model.ID("id"),
		model.Char("name", 255),
	)
	someModel3 = model.New("SomeModel3",
		model.ID("id"),
		model.Char("name", 255),
		model.ForeignKey("other", "OtherModel"),
	)
)

func TestAncestorFiltering(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	someStrawberryType := schema.Object("SomeStrawberryType").
		Field("some_strawberry_attr", schema.String())
	someStrawberryInput := schema.Input("SomeStrawberryInput").
		Field("some_strawberry_attr", schema.String())
	someDataclass := schema.Dataclass("SomeDataclass").
		Field("some_dataclass_attr", schema.String())
	nonDataclass := schema.Plain("NonDataclass").
		Field("non_dataclass_attr", schema.String())
	someModelType := schema.Object("SomeModelType").
		Extends(someStrawberryType, someDataclass, nonDataclass).
		Field("name", schema.String())
	someModelInput := schema.Input("SomeModelInput").
		Extends(someStrawberryInput, someDataclass, nonDataclass).
		Field("name", schema.String())

	require.NoError(t, reg.Object(someStrawberryType))
	require.NoError(t, reg.InputObject(someStrawberryInput))
	require.NoError(t, reg.Type(someModel, someModelType))
	require.NoError(t, reg.Input(someModel, someModelInput))
	require.NoError(t, reg.Seal())

	for _, name := range []string{"SomeModelType", "SomeModelInput"} {
		typ, err := reg.Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, []string{"some_strawberry_attr", "some_dataclass_attr", "name"}, typ.Names(), name)
		_, ok := typ.Field("non_dataclass_attr")
		assert.False(t, ok)
	}
}

func TestOverridePropagation(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	custom := &CustomField{field.New()}
	someModelType := schema.Object("SomeModelType").
		Field("name", schema.Auto()).
		Field("foo", schema.String(), schema.Impl(custom))
	someModelSubclassType := schema.Object("SomeModelSubclassType").
		Extends(someModelType)
	require.NoError(t, reg.Type(someModel, someModelType))
	require.NoError(t, reg.Type(someModel, someModelSubclassType))

	typ, err := reg.Lookup("SomeModelSubclassType")
	require.NoError(t, err)
	foo, ok := typ.Field("foo")
	require.True(t, ok)
	assert.IsType(t, &CustomField{}, foo.Impl)

	v, err := typ.Resolve(context.Background(), "foo", map[string]any{"foo": "value"})
	require.NoError(t, err)
	assert.Equal(t, "VALUE", v)

	// The first object type registered for a model owns its relations.
	owner, err := reg.TypeFor(someModel)
	require.NoError(t, err)
	assert.Equal(t, "SomeModelType", owner.Name)
}

func TestHintFidelity(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	otherName := model.F("other__name")
	require.NoError(t, reg.Type(otherModel, schema.Object("OtherType").Field("name", schema.Auto())))
	require.NoError(t, reg.Type(someModel3, schema.Object("SomeModel3Type").
		Field("name", schema.Auto()).
		Field("other", schema.Auto()).
		Field("other_name", schema.String()),
		registry.Only("name", "other", "other_name"),
		registry.SelectRelated("other"),
		registry.PrefetchRelated("other"),
		registry.Annotate(map[string]model.Expr{"other_name": otherName}),
	))

	h, err := reg.Hints("SomeModel3Type", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "other", "other_name"}, h.Only())
	assert.Equal(t, []string{"other"}, h.SelectRelated())
	assert.Equal(t, []string{"other"}, h.PrefetchRelated())
	assert.Equal(t, map[string]model.Expr{"other_name": otherName}, h.Annotate())

	// Types registered without hint options have no record.
	_, err = reg.Hints("OtherType", true)
	assert.True(t, modelgql.IsConfigurationError(err))
	h, err = reg.Hints("OtherType", false)
	require.NoError(t, err)
	assert.True(t, h.IsEmpty())

	// Re-attaching replaces the record.
	_, err = reg.Attach("SomeModel3Type", hints.Only("name"))
	require.NoError(t, err)
	h, err = reg.Hints("SomeModel3Type", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, h.Only())
	assert.Empty(t, h.SelectRelated())

	// Hints are frozen with the rest of the registry.
	require.NoError(t, reg.Seal())
	_, err = reg.Attach("SomeModel3Type", hints.Only("other"))
	assert.True(t, modelgql.IsConfigurationError(err))
	h, err = reg.Hints("SomeModel3Type", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, h.Only())
}

func TestIdempotentLookup(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	require.NoError(t, reg.Type(someModel, schema.Object("SomeModelType").
		Field("id", schema.Auto()).
		Field("name", schema.Auto())))

	first, err := reg.Lookup("SomeModelType")
	require.NoError(t, err)
	second, err := reg.Lookup("SomeModelType")
	require.NoError(t, err)
	assert.Same(t, first, second)

	a, b := first.Fields(), second.Fields()
	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].Name, b[i].Name)
		assert.Same(t, a[i].Impl, b[i].Impl)
	}
}

func TestLazyBases(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	base := schema.Object("Base").Field("shared", schema.String())
	left := schema.Object("Left").Extends(base)
	right := schema.Object("Right").Extends(base)
	require.NoError(t, reg.Object(left))
	require.NoError(t, reg.Object(right))

	l, err := reg.Lookup("Left")
	require.NoError(t, err)
	r, err := reg.Lookup("Right")
	require.NoError(t, err)
	ls, _ := l.Field("shared")
	rs, _ := r.Field("shared")
	assert.Same(t, ls.Impl, rs.Impl, "unregistered bases are merged once")

	err = reg.Object(base)
	assert.True(t, modelgql.IsConfigurationError(err))
	_, err = reg.Lookup("Base")
	assert.True(t, modelgql.IsConfigurationError(err))
}

func TestMutualRelations(t *testing.T) {
	t.Parallel()

	author := model.New("Author", model.ID("id"), model.ReverseForeignKey("books", "Book"))
	book := model.New("Book", model.ID("id"), model.ForeignKey("author", "Author"))

	reg := registry.New()
	require.NoError(t, reg.Type(author, schema.Object("AuthorType").
		Field("id", schema.Auto()).
		Field("books", schema.Auto())))
	require.NoError(t, reg.Type(book, schema.Object("BookType").
		Field("id", schema.Auto()).
		Field("author", schema.Auto())))
	require.NoError(t, reg.Seal())

	a := reg.MustLookup("AuthorType")
	books, _ := a.Field("books")
	assert.Equal(t, "[BookType!]!", books.Type.String())
	b := reg.MustLookup("BookType")
	au, _ := b.Field("author")
	assert.Equal(t, "AuthorType!", au.Type.String())

	types, err := reg.Types()
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, "AuthorType", types[0].Name)
	assert.Equal(t, "BookType", types[1].Name)
}

func TestFailedMergeIsNotCached(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	require.NoError(t, reg.Type(someModel, schema.Object("Broken").Field("missing", schema.Auto())))

	for range 2 {
		typ, err := reg.Lookup("Broken")
		assert.Nil(t, typ)
		var serr *modelgql.SchemaResolutionError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, "Broken", serr.Type)
		assert.Equal(t, "missing", serr.Field)
	}
	_, err := reg.Types()
	assert.True(t, modelgql.IsSchemaResolutionError(err))

	err = reg.Seal()
	assert.True(t, modelgql.IsSchemaResolutionError(err))
	assert.False(t, reg.Sealed())
	assert.Panics(t, func() { reg.MustLookup("Broken") })
}

func TestRegistrationErrors(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	tests := []struct {
		name string
		fn   func() error
	}{
		{"nil_decl", func() error { return reg.Object(nil) }},
		{"wrong_kind", func() error { return reg.Type(someModel, schema.Input("I")) }},
		{"dataclass", func() error { return reg.Object(schema.Dataclass("D")) }},
		{"missing_model", func() error { return reg.Type(nil, schema.Object("O")) }},
		{"partial_kind", func() error { return reg.Partial(someModel, schema.Input("I")) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, modelgql.IsConfigurationError(tt.fn()))
		})
	}

	d := schema.Object("Dup")
	require.NoError(t, reg.Object(d))
	assert.True(t, modelgql.IsConfigurationError(reg.Object(d)))
	assert.True(t, modelgql.IsConfigurationError(reg.Object(schema.Object("Dup"))))

	_, err := reg.Lookup("Unknown")
	assert.True(t, modelgql.IsConfigurationError(err))
	_, err = reg.TypeFor(otherModel)
	assert.True(t, modelgql.IsConfigurationError(err))
	_, err = reg.TypeFor(nil)
	assert.True(t, modelgql.IsConfigurationError(err))

	require.NoError(t, reg.Seal())
	require.NoError(t, reg.Seal())
	assert.True(t, reg.Sealed())
	err = reg.Object(schema.Object("Late"))
	assert.True(t, modelgql.IsConfigurationError(err))
	assert.ErrorContains(t, err, "sealed")
}

func TestInheritanceCycle(t *testing.T) {
	t.Parallel()

	a := schema.Object("A").Field("a", schema.String())
	b := schema.Object("B").Extends(a).Field("b", schema.String())
	a.Extends(b)

	reg := registry.New()
	require.NoError(t, reg.Object(a))
	require.NoError(t, reg.Object(b))
	_, err := reg.Lookup("A")
	require.Error(t, err)
	assert.True(t, modelgql.IsSchemaResolutionError(err))
	assert.ErrorContains(t, err, "inheritance cycle")
}

func TestWithConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.AutoCamelCase = false
	cfg.Scalars["char"] = "Name"
	var buf bytes.Buffer
	reg := registry.New(
		registry.WithConfig(cfg),
		registry.WithLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))),
	)
	assert.Same(t, cfg, reg.Config())
	require.NoError(t, reg.Type(someModel, schema.Object("SomeModelType").Field("name", schema.Auto())))
	typ, err := reg.Lookup("SomeModelType")
	require.NoError(t, err)
	f, _ := typ.Field("name")
	assert.Equal(t, "name", f.GraphQLName)
	assert.Equal(t, "Name!", f.Type.String())
	assert.Contains(t, buf.String(), "type registered")
	assert.Contains(t, buf.String(), "type merged")

	bad := config.Default()
	bad.Scalars["geometry"] = "Geo"
	assert.Panics(t, func() { registry.New(registry.WithConfig(bad)) })
}

func TestDefault(t *testing.T) {
	t.Parallel()

	assert.Same(t, registry.Default(), registry.Default())
}

func TestConcurrentLookups(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	require.NoError(t, reg.Type(someModel, schema.Object("SomeModelType").Field("name", schema.Auto())))

	// Lookups before Seal merge under the write lock exactly once.
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		types = make(map[any]bool)
	)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			typ, err := reg.Lookup("SomeModelType")
			assert.NoError(t, err)
			mu.Lock()
			types[typ] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, types, 1)
}
