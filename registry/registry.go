package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/syssam/modelgql"
	"github.com/syssam/modelgql/config"
	"github.com/syssam/modelgql/hints"
	"github.com/syssam/modelgql/merge"
	"github.com/syssam/modelgql/model"
	"github.com/syssam/modelgql/schema"
)

// Registry owns the declared types of a process, their merged fields and
// their optimizer hints. Types are registered during initialization, merged
// once on first access and read concurrently after Seal.
type Registry struct {
	mu      sync.RWMutex
	cfg     *config.Config
	log     *slog.Logger
	merger  *merge.Merger
	store   *hints.Store
	order   []*entry
	byName  map[string]*entry
	byDecl  map[*schema.Decl]*entry
	bases   map[*schema.Decl]*entry
	models  map[string]string
	merging map[*schema.Decl]bool
	sealed  bool
}

type entry struct {
	decl  *schema.Decl
	model *model.Model
	typ   *merge.Type
}

// Option configures a Registry.
type Option func(*Registry)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(r *Registry) { r.cfg = cfg }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// New returns an empty registry. It panics if the configuration is invalid;
// use config.Parse or Config.Validate to check it first.
func New(opts ...Option) *Registry {
	r := &Registry{
		cfg:     config.Default(),
		log:     slog.Default(),
		byName:  make(map[string]*entry),
		byDecl:  make(map[*schema.Decl]*entry),
		bases:   make(map[*schema.Decl]*entry),
		models:  make(map[string]string),
		merging: make(map[*schema.Decl]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	mopts, err := r.cfg.MergerOptions()
	if err != nil {
		panic(err)
	}
	r.merger = merge.New(env{r}, append(mopts, merge.WithLogger(r.log))...)
	r.store = hints.NewStore(hints.WithLogger(r.log))
	return r
}

var defaultRegistry = sync.OnceValue(func() *Registry { return New() })

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry() }

// Config returns the registry configuration.
func (r *Registry) Config() *config.Config { return r.cfg }

// Type registers an object type bound to m. The first object type
// registered for a model is the one its relations resolve to.
func (r *Registry) Type(m *model.Model, d *schema.Decl, opts ...TypeOption) error {
	return r.register(m, d, schema.KindObject, true, opts)
}

// Input registers an input type bound to m.
func (r *Registry) Input(m *model.Model, d *schema.Decl, opts ...TypeOption) error {
	return r.register(m, d, schema.KindInput, true, opts)
}

// Partial registers a partial input type bound to m.
func (r *Registry) Partial(m *model.Model, d *schema.Decl, opts ...TypeOption) error {
	return r.register(m, d, schema.KindPartial, true, opts)
}

// Object registers an object type without a model, such as Query.
func (r *Registry) Object(d *schema.Decl, opts ...TypeOption) error {
	return r.register(nil, d, schema.KindObject, false, opts)
}

// InputObject registers an input type without a model.
func (r *Registry) InputObject(d *schema.Decl, opts ...TypeOption) error {
	return r.register(nil, d, schema.KindInput, false, opts)
}

func (r *Registry) register(m *model.Model, d *schema.Decl, kind schema.Kind, bound bool, opts []TypeOption) error {
	if d == nil {
		return modelgql.NewConfigurationError("", "", "nil declaration")
	}
	if d.Kind() != kind {
		return modelgql.NewConfigurationError(d.Name(), "", fmt.Sprintf("expect %s declaration, got %s", kind, d.Kind()))
	}
	if bound && m == nil {
		return modelgql.NewConfigurationError(d.Name(), "", "model is required")
	}
	c := &typeConfig{}
	for _, opt := range opts {
		opt(c)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case r.sealed:
		return modelgql.NewConfigurationError(d.Name(), "", "registry is sealed")
	case r.byName[d.Name()] != nil:
		return modelgql.NewConfigurationError(d.Name(), "", "type is already registered")
	case r.byDecl[d] != nil:
		return modelgql.NewConfigurationError(d.Name(), "", "declaration is already registered")
	case r.bases[d] != nil:
		return modelgql.NewConfigurationError(d.Name(), "", "declaration was merged as an unregistered base, register it before its subtypes are used")
	}
	e := &entry{decl: d, model: m}
	r.order = append(r.order, e)
	r.byName[d.Name()] = e
	r.byDecl[d] = e
	if m != nil && kind == schema.KindObject {
		if _, ok := r.models[m.Name]; !ok {
			r.models[m.Name] = d.Name()
		}
	}
	if len(c.hints) > 0 {
		r.store.Attach(d.Name(), c.hints...)
	}
	r.log.Debug("type registered", "type", d.Name(), "kind", kind.String(), "model", modelName(m))
	return nil
}

// Attach attaches optimizer hints to the named type, replacing any record
// attached before. Hints are part of registration and cannot change after
// Seal.
func (r *Registry) Attach(typeName string, opts ...hints.Option) (*hints.Hints, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.sealed {
		return nil, modelgql.NewConfigurationError(typeName, "", "registry is sealed")
	}
	return r.store.Attach(typeName, opts...), nil
}

// Hints returns the optimizer hints of the named type. A missing record is
// a configuration error in strict mode and an empty record otherwise.
func (r *Registry) Hints(typeName string, strict bool) (*hints.Hints, error) {
	return r.store.Get(typeName, strict)
}

// Lookup returns the merged type registered under name, merging it on first
// access. A failed merge caches nothing.
func (r *Registry) Lookup(name string) (*merge.Type, error) {
	r.mu.RLock()
	e, ok := r.byName[name]
	if ok && e.typ != nil {
		r.mu.RUnlock()
		return e.typ, nil
	}
	r.mu.RUnlock()
	if !ok {
		return nil, modelgql.NewConfigurationError(name, "", "type is not registered")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolve(e)
}

// MustLookup is like Lookup but panics on error.
func (r *Registry) MustLookup(name string) *merge.Type {
	t, err := r.Lookup(name)
	if err != nil {
		panic(err)
	}
	return t
}

// TypeFor returns the object type bound to the model.
func (r *Registry) TypeFor(m *model.Model) (*merge.Type, error) {
	if m == nil {
		return nil, modelgql.NewConfigurationError("", "", "model is required")
	}
	r.mu.RLock()
	name, ok := r.models[m.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, modelgql.NewConfigurationError("", "", fmt.Sprintf("model %s has no registered type", m.Name))
	}
	return r.Lookup(name)
}

// Names returns the names of the registered types in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	for i, e := range r.order {
		names[i] = e.decl.Name()
	}
	return names
}

// Types returns every registered type in registration order.
func (r *Registry) Types() ([]*merge.Type, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]*merge.Type, 0, len(r.order))
	for _, e := range r.order {
		t, err := r.resolve(e)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

// Seal merges every registered type and ends the registration phase. On
// error the registry stays open and the errors of all failing types are
// returned.
func (r *Registry) Seal() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return nil
	}
	var errs []error
	for _, e := range r.order {
		if _, err := r.resolve(e); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	r.sealed = true
	r.log.Debug("registry sealed", "types", len(r.order))
	return nil
}

// Sealed reports if the registration phase has ended.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// resolve merges e once. The caller holds the write lock.
func (r *Registry) resolve(e *entry) (*merge.Type, error) {
	if e.typ != nil {
		return e.typ, nil
	}
	t, err := r.merge(e.decl, e.model)
	if err != nil {
		return nil, err
	}
	e.typ = t
	return t, nil
}

// merge runs the merger on d, reporting inheritance cycles.
func (r *Registry) merge(d *schema.Decl, m *model.Model) (*merge.Type, error) {
	if r.merging[d] {
		return nil, modelgql.NewSchemaResolutionError(d.Name(), "", "inheritance cycle", nil)
	}
	r.merging[d] = true
	defer delete(r.merging, d)
	return r.merger.Merge(d, m)
}

// env resolves merged bases and relation targets for the merger. Its
// methods run under the registry write lock.
type env struct{ r *Registry }

func (e env) Base(d *schema.Decl) (*merge.Type, error) {
	if ent, ok := e.r.byDecl[d]; ok {
		return e.r.resolve(ent)
	}
	// Unregistered merged bases are merged without a model and cached.
	ent, ok := e.r.bases[d]
	if !ok {
		ent = &entry{decl: d}
	}
	t, err := e.r.resolve(ent)
	if err != nil {
		return nil, err
	}
	e.r.bases[d] = ent
	return t, nil
}

func (e env) ModelType(modelName string) (string, bool) {
	name, ok := e.r.models[modelName]
	return name, ok
}

func modelName(m *model.Model) string {
	if m == nil {
		return ""
	}
	return m.Name
}
