package field

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-openapi/inflect"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/modelgql/hints"
)

// Info describes the field being resolved.
type Info struct {
	Type        string    // Owning GraphQL type name.
	Field       string    // Declared field name.
	GraphQLName string    // Exposed field name.
	Column      string    // Backing column, if any.
	ReturnType  *ast.Type // Resolved GraphQL type.
}

// Implementation is the runtime object behind one exposed field.
type Implementation interface {
	Resolve(ctx context.Context, source any, info Info) (any, error)
}

// The following optional interfaces let an implementation shape its field.
type (
	// Namer overrides the exposed GraphQL name.
	Namer interface{ GraphQLName() string }

	// Describer provides the field description.
	Describer interface{ Description() string }

	// Deprecator marks the field deprecated with a reason.
	Deprecator interface{ DeprecationReason() string }

	// Columnar names the backing column when it differs from the field name.
	Columnar interface{ Column() string }

	// HintProvider contributes field-level optimizer hints.
	HintProvider interface{ OptimizerHints() *hints.Hints }
)

// ModelField is the standard implementation. It reads the value of its
// column from map or struct sources.
type ModelField struct {
	name        string
	column      string
	description string
	deprecation string
	hints       *hints.Hints
	typ         *ast.Type
}

// Option configures a ModelField.
type Option func(*ModelField)

// Name overrides the exposed GraphQL name.
func Name(name string) Option {
	return func(f *ModelField) { f.name = name }
}

// Column sets the backing column.
func Column(column string) Option {
	return func(f *ModelField) { f.column = column }
}

// Description sets the field description.
func Description(s string) Option {
	return func(f *ModelField) { f.description = s }
}

// Deprecated marks the field deprecated.
func Deprecated(reason string) Option {
	return func(f *ModelField) { f.deprecation = reason }
}

// Hints attaches field-level optimizer hints.
func Hints(opts ...hints.Option) Option {
	return func(f *ModelField) { f.hints = hints.New(opts...) }
}

// New returns a ModelField.
func New(opts ...Option) *ModelField {
	f := &ModelField{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewDefault returns the default implementation for a field with no explicit
// implementation, bound to its name and resolved type.
func NewDefault(name string, typ *ast.Type) *ModelField {
	return &ModelField{column: name, typ: typ}
}

// GraphQLName implements Namer.
func (f *ModelField) GraphQLName() string { return f.name }

// Description implements Describer.
func (f *ModelField) Description() string { return f.description }

// DeprecationReason implements Deprecator.
func (f *ModelField) DeprecationReason() string { return f.deprecation }

// Column implements Columnar.
func (f *ModelField) Column() string { return f.column }

// Type returns the type the field was bound to, nil for unbound fields.
func (f *ModelField) Type() *ast.Type { return f.typ }

// OptimizerHints implements HintProvider.
func (f *ModelField) OptimizerHints() *hints.Hints {
	if f.hints == nil {
		return hints.Empty()
	}
	return f.hints
}

// Resolve implements Implementation.
func (f *ModelField) Resolve(_ context.Context, source any, info Info) (any, error) {
	column := f.column
	if column == "" {
		column = info.Column
	}
	if column == "" {
		column = info.Field
	}
	return Lookup(source, column)
}

// Lookup returns the value stored under column in a map or struct source.
// Struct fields match by their `db` tag, or by their snake_case name.
func Lookup(source any, column string) (any, error) {
	if source == nil {
		return nil, nil
	}
	v := reflect.ValueOf(source)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			break
		}
		mv := v.MapIndex(reflect.ValueOf(column).Convert(v.Type().Key()))
		if !mv.IsValid() {
			return nil, nil
		}
		return mv.Interface(), nil
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if !sf.IsExported() {
				continue
			}
			name, _, _ := strings.Cut(sf.Tag.Get("db"), ",")
			if name == "" {
				name = inflect.Underscore(sf.Name)
			}
			if name == column {
				return v.Field(i).Interface(), nil
			}
		}
		return nil, fmt.Errorf("field: %s has no column %q", t, column)
	}
	return nil, fmt.Errorf("field: cannot resolve %q from %T", column, source)
}

var (
	_ Implementation = (*ModelField)(nil)
	_ Namer          = (*ModelField)(nil)
	_ Describer      = (*ModelField)(nil)
	_ Deprecator     = (*ModelField)(nil)
	_ Columnar       = (*ModelField)(nil)
	_ HintProvider   = (*ModelField)(nil)
)
