package merge

import (
	"fmt"
	"log/slog"
	"maps"
	"reflect"
	"slices"

	"github.com/go-openapi/inflect"

	"github.com/syssam/modelgql"
	"github.com/syssam/modelgql/model"
	"github.com/syssam/modelgql/schema"
	"github.com/syssam/modelgql/schema/field"
)

// Env gives the merger access to the types merged before.
type Env interface {
	// Base returns the merged type of a base declaration of a merged kind.
	Base(d *schema.Decl) (*Type, error)
	// ModelType returns the name of the object type bound to a model.
	ModelType(modelName string) (string, bool)
}

// DefaultScalars maps column types to GraphQL scalar names.
var DefaultScalars = map[model.ColumnType]string{
	model.TypeChar:     schema.ScalarString,
	model.TypeText:     schema.ScalarString,
	model.TypeSmallInt: schema.ScalarInt,
	model.TypeInt:      schema.ScalarInt,
	model.TypeBigInt:   schema.ScalarInt,
	model.TypeBool:     schema.ScalarBoolean,
	model.TypeFloat:    schema.ScalarFloat,
	model.TypeDecimal:  "Decimal",
	model.TypeDate:     "Date",
	model.TypeDateTime: "DateTime",
	model.TypeTime:     "Time",
	model.TypeUUID:     "UUID",
	model.TypeJSON:     "JSON",
	model.TypeBinary:   schema.ScalarString,
	model.TypeEnum:     schema.ScalarString,
}

// Merger merges declarations into GraphQL types.
type Merger struct {
	env             Env
	camel           bool
	partialNullable bool
	scalars         map[model.ColumnType]string
	log             *slog.Logger
}

// Option configures a Merger.
type Option func(*Merger)

// CamelCase toggles camelCase GraphQL field names. Enabled by default.
func CamelCase(enabled bool) Option {
	return func(m *Merger) { m.camel = enabled }
}

// PartialNullable toggles nullable fields on partial inputs. Enabled by
// default.
func PartialNullable(enabled bool) Option {
	return func(m *Merger) { m.partialNullable = enabled }
}

// Scalar maps a column type to a GraphQL scalar name.
func Scalar(t model.ColumnType, name string) Option {
	return func(m *Merger) { m.scalars[t] = name }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Merger) { m.log = l }
}

// New returns a Merger resolving bases and relation targets through env.
func New(env Env, opts ...Option) *Merger {
	m := &Merger{
		env:             env,
		camel:           true,
		partialNullable: true,
		scalars:         maps.Clone(DefaultScalars),
		log:             slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge computes the merged type of d bound to the model mdl, which may be
// nil for types without a model. Merge has no side effects: it returns a
// fresh Type or an error and never a partial result.
func (m *Merger) Merge(d *schema.Decl, mdl *model.Model) (*Type, error) {
	if d == nil {
		return nil, modelgql.NewConfigurationError("", "", "nil declaration")
	}
	if !d.Kind().Merged() {
		return nil, modelgql.NewConfigurationError(d.Name(), "", fmt.Sprintf("cannot merge %s declaration", d.Kind()))
	}
	s, err := m.collect(d, d, nil)
	if err != nil {
		return nil, err
	}
	fields := make([]*Field, 0, len(s.entries))
	for _, e := range s.entries {
		if len(e.conflicts) > 0 {
			return nil, modelgql.NewConfigurationError(d.Name(), e.name, fmt.Sprintf(
				"unrelated bases %s and %s bind different implementations, redeclare the field or override it to choose one",
				e.implFrom.Name(), e.conflicts[0].Name()))
		}
		f, err := m.finalize(d, mdl, e)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	m.log.Debug("type merged", "type", d.Name(), "kind", d.Kind().String(), "fields", len(fields))
	return newType(d, mdl, fields), nil
}

// entry is a field under construction. It holds either an unresolved
// declaration or a field inherited verbatim from a merged base.
type entry struct {
	name      string
	ref       *schema.TypeRef
	base      *Field
	origin    *schema.Decl
	impl      field.Implementation
	implFrom  *schema.Decl
	conflicts []*schema.Decl
	args      []*schema.Arg
	desc      string
	pos       Position
}

func fromField(f *Field) *entry {
	e := &entry{name: f.Name, base: f, origin: f.Origin, desc: f.Description, pos: f.Position}
	if f.Explicit {
		e.impl, e.implFrom = f.Impl, f.ImplOrigin
	}
	return e
}

func (e *entry) bind(impl field.Implementation, from *schema.Decl) {
	e.impl, e.implFrom, e.conflicts = impl, from, nil
}

type fieldSet struct {
	entries []*entry
	index   map[string]*entry
}

func (s *fieldSet) add(e *entry) {
	s.entries = append(s.entries, e)
	s.index[e.name] = e
}

// inherit adds a field contributed by the base at index i. The first
// contributor fixes position and type. Explicit implementations of a more
// specific origin replace less specific ones.
func (s *fieldSet) inherit(e *entry, i int) {
	cur, ok := s.index[e.name]
	if !ok {
		c := *e
		c.conflicts = slices.Clone(e.conflicts)
		c.pos = Position{Index: e.pos.Index, Inherited: true, BaseIndex: i}
		s.add(&c)
		return
	}
	cur.conflicts = append(cur.conflicts, e.conflicts...)
	if e.implFrom == nil {
		return
	}
	switch {
	case cur.implFrom == nil, e.implFrom.Descends(cur.implFrom):
		cur.impl, cur.implFrom = e.impl, e.implFrom
		cur.conflicts = slices.DeleteFunc(cur.conflicts, cur.implFrom.Descends)
	case cur.implFrom.Descends(e.implFrom), sameImpl(cur.impl, e.impl):
	default:
		cur.conflicts = append(cur.conflicts, e.implFrom)
	}
}

// declare applies the field fd declared at index j of d.
func (s *fieldSet) declare(d, target *schema.Decl, j int, fd *schema.FieldDecl) error {
	cur, ok := s.index[fd.Name]
	switch {
	case !fd.Annotated() && fd.Impl == nil:
		return nil
	case !fd.Annotated():
		if !ok {
			return modelgql.NewSchemaResolutionError(target.Name(), fd.Name,
				fmt.Sprintf("%s overrides a field that no base declares", d.Name()), nil)
		}
		cur.bind(fd.Impl, d)
		return nil
	case !ok:
		e := &entry{name: fd.Name, ref: fd.Type, origin: d, args: fd.Args, desc: fd.Description, pos: Position{Index: j}}
		if fd.Impl != nil {
			e.impl, e.implFrom = fd.Impl, d
		}
		s.add(e)
		return nil
	}
	cur.ref, cur.base, cur.origin, cur.args = fd.Type, nil, d, fd.Args
	if d == target && len(cur.conflicts) > 0 {
		// The target settles conflicting bases with a default
		// implementation unless it binds its own.
		cur.impl, cur.implFrom, cur.conflicts = nil, nil, nil
	}
	if fd.Description != "" {
		cur.desc = fd.Description
	}
	if fd.Impl != nil {
		cur.bind(fd.Impl, d)
	}
	return nil
}

// collect gathers the fields of d as seen by target. Merged bases of the
// target's direction are inherited verbatim. Dataclasses, and merged bases
// of the other direction, contribute their declarations for resolution in
// the target's context.
func (m *Merger) collect(d, target *schema.Decl, stack []*schema.Decl) (*fieldSet, error) {
	if slices.Contains(stack, d) {
		return nil, modelgql.NewSchemaResolutionError(target.Name(), "",
			fmt.Sprintf("inheritance cycle through %s", d.Name()), nil)
	}
	stack = append(stack, d)
	s := &fieldSet{index: make(map[string]*entry)}
	for i, b := range d.Bases() {
		switch {
		case b == nil || !b.Kind().CarriesFields():
			continue
		case b.Kind() == schema.KindDataclass, b.Kind().Input() != target.Kind().Input():
			sub, err := m.collect(b, target, stack)
			if err != nil {
				return nil, err
			}
			for _, e := range sub.entries {
				s.inherit(e, i)
			}
		default:
			t, err := m.env.Base(b)
			if err != nil {
				return nil, err
			}
			for _, f := range t.fields {
				s.inherit(fromField(f), i)
			}
		}
	}
	for j, fd := range d.Fields() {
		if err := s.declare(d, target, j, fd); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// finalize turns an entry into a field of target.
func (m *Merger) finalize(target *schema.Decl, mdl *model.Model, e *entry) (*Field, error) {
	partial := target.Kind() == schema.KindPartial && m.partialNullable
	if e.base != nil {
		f := *e.base
		f.Position = e.pos
		if e.implFrom != nil && !(f.Explicit && sameImpl(f.Impl, e.impl)) {
			f.Impl, f.Explicit, f.ImplOrigin = e.impl, true, e.implFrom
			m.decorate(&f, e.desc, nil)
		}
		if partial && f.Type.NonNull {
			f.Type = nullable(f.Type)
			if !f.Explicit {
				f.Impl = field.NewDefault(f.Name, f.Type)
			}
		}
		return &f, nil
	}
	typ, col, rel, err := m.resolveField(target, mdl, e)
	if err != nil {
		return nil, err
	}
	args, err := m.resolveArgs(target, e)
	if err != nil {
		return nil, err
	}
	if partial && typ.NonNull {
		typ = nullable(typ)
	}
	f := &Field{
		Name:     e.name,
		Type:     typ,
		Origin:   e.origin,
		Relation: rel,
		Args:     args,
		Position: e.pos,
	}
	if col != nil {
		f.Column = col.Name
	}
	if e.implFrom != nil {
		f.Impl, f.Explicit, f.ImplOrigin = e.impl, true, e.implFrom
	} else {
		f.Impl = field.NewDefault(e.name, typ)
	}
	m.decorate(f, e.desc, col)
	return f, nil
}

// decorate derives the exposed name and documentation of f from its
// implementation.
func (m *Merger) decorate(f *Field, desc string, col *model.Column) {
	f.GraphQLName = m.graphQLName(f.Name, f.Impl)
	f.Description = desc
	if d, ok := f.Impl.(field.Describer); ok && f.Description == "" {
		f.Description = d.Description()
	}
	if f.Description == "" && col != nil {
		f.Description = col.Comment
	}
	f.Deprecation = ""
	if d, ok := f.Impl.(field.Deprecator); ok {
		f.Deprecation = d.DeprecationReason()
	}
	if c, ok := f.Impl.(field.Columnar); ok && c.Column() != "" && c.Column() != f.Name {
		f.Column = c.Column()
	}
}

func (m *Merger) graphQLName(name string, impl field.Implementation) string {
	if n, ok := impl.(field.Namer); ok && n.GraphQLName() != "" {
		return n.GraphQLName()
	}
	if m.camel {
		return inflect.CamelizeDownFirst(name)
	}
	return name
}

// sameImpl reports whether a and b are the same implementation. Values of
// incomparable dynamic types are never the same.
func sameImpl(a, b field.Implementation) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	return ta == tb && ta.Comparable() && a == b
}
