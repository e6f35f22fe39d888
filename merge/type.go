package merge

import (
	"context"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/modelgql/model"
	"github.com/syssam/modelgql/schema"
	"github.com/syssam/modelgql/schema/field"
)

// Position describes where a merged field was declared.
type Position struct {
	Index     int  // Index in the declaring field list.
	Inherited bool // Indicates if the field was contributed by a base.
	BaseIndex int  // Base index in the declared base list.
}

// Argument is a resolved field argument.
type Argument struct {
	Name        string
	GraphQLName string
	Type        *ast.Type
}

// Field is one exposed field of a merged type.
type Field struct {
	Name        string
	GraphQLName string
	Type        *ast.Type
	Impl        field.Implementation
	Explicit    bool            // Impl was supplied by a declaration.
	Origin      *schema.Decl    // Declaration that fixed the field type.
	ImplOrigin  *schema.Decl    // Declaration that bound Impl, nil for defaults.
	Column      string          // Backing column, if any.
	Relation    *model.Relation // Backing relation, if any.
	Args        []*Argument
	Description string
	Deprecation string
	Position    Position
}

// Info returns the resolver info of the field on the named type.
func (f *Field) Info(typeName string) field.Info {
	return field.Info{
		Type:        typeName,
		Field:       f.Name,
		GraphQLName: f.GraphQLName,
		Column:      f.Column,
		ReturnType:  f.Type,
	}
}

// Type is a merged GraphQL type. It is never mutated after Merge returns.
type Type struct {
	Name        string
	Kind        schema.Kind
	Model       *model.Model
	Description string
	Decl        *schema.Decl

	fields []*Field
	index  map[string]*Field
}

func newType(d *schema.Decl, m *model.Model, fields []*Field) *Type {
	t := &Type{
		Name:        d.Name(),
		Kind:        d.Kind(),
		Model:       m,
		Description: d.Description(),
		Decl:        d,
		fields:      fields,
		index:       make(map[string]*Field, len(fields)),
	}
	for _, f := range fields {
		t.index[f.Name] = f
	}
	return t
}

// Fields returns copies of the merged fields in exposure order. The
// implementations and relations are shared with the type.
func (t *Type) Fields() []*Field {
	fields := make([]*Field, len(t.fields))
	for i, f := range t.fields {
		fields[i] = f.clone()
	}
	return fields
}

// Field returns a copy of the merged field with the given declared name.
func (t *Type) Field(name string) (*Field, bool) {
	f, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return f.clone(), true
}

func (f *Field) clone() *Field {
	c := *f
	c.Type = copyType(f.Type)
	if f.Args != nil {
		c.Args = make([]*Argument, len(f.Args))
		for i, a := range f.Args {
			ca := *a
			ca.Type = copyType(a.Type)
			c.Args[i] = &ca
		}
	}
	return &c
}

func copyType(t *ast.Type) *ast.Type {
	if t == nil {
		return nil
	}
	c := *t
	c.Elem = copyType(t.Elem)
	return &c
}

// Names returns the declared field names in exposure order.
func (t *Type) Names() []string {
	names := make([]string, len(t.fields))
	for i, f := range t.fields {
		names[i] = f.Name
	}
	return names
}

// Len returns the number of fields.
func (t *Type) Len() int { return len(t.fields) }

// Resolve resolves the named field against source through its bound
// implementation.
func (t *Type) Resolve(ctx context.Context, name string, source any) (any, error) {
	f, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("merge: type %s has no field %q", t.Name, name)
	}
	return f.Impl.Resolve(ctx, source, f.Info(t.Name))
}

// String returns the type name.
func (t *Type) String() string { return t.Name }
