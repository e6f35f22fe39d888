package schema

import (
	"slices"

	"github.com/syssam/modelgql/schema/field"
)

// Kind classifies a declaration.
type Kind uint8

// Declaration kinds.
const (
	KindPlain Kind = iota
	KindDataclass
	KindObject
	KindInput
	KindPartial
)

var kindNames = [...]string{
	KindPlain:     "plain",
	KindDataclass: "dataclass",
	KindObject:    "object",
	KindInput:     "input",
	KindPartial:   "partial",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Merged reports if declarations of this kind are GraphQL types whose
// merged fields are cached and inherited verbatim.
func (k Kind) Merged() bool { return k >= KindObject && k <= KindPartial }

// Input reports if the kind is an input kind.
func (k Kind) Input() bool { return k == KindInput || k == KindPartial }

// CarriesFields reports if declarations of this kind contribute fields to
// their subtypes.
func (k Kind) CarriesFields() bool { return k != KindPlain }

// Arg is a declared field argument.
type Arg struct {
	Name string
	Type *TypeRef
}

// Argument returns a field argument declaration.
func Argument(name string, t *TypeRef) *Arg { return &Arg{Name: name, Type: t} }

// FieldDecl is a declared field. A nil Type marks an attribute without a
// type annotation, such as a method or a plain class variable.
type FieldDecl struct {
	Name        string
	Type        *TypeRef
	Impl        field.Implementation
	Args        []*Arg
	Description string
}

// Annotated reports if the field has a type annotation.
func (f *FieldDecl) Annotated() bool { return f.Type != nil }

// FieldOption configures a field declaration.
type FieldOption func(*FieldDecl)

// Impl binds an explicit implementation to the field.
func Impl(impl field.Implementation) FieldOption {
	return func(f *FieldDecl) { f.Impl = impl }
}

// Args declares the field arguments.
func Args(args ...*Arg) FieldOption {
	return func(f *FieldDecl) { f.Args = append(f.Args, args...) }
}

// Description sets the field description.
func Description(s string) FieldOption {
	return func(f *FieldDecl) { f.Description = s }
}

// Decl is a declared type.
type Decl struct {
	name        string
	kind        Kind
	bases       []*Decl
	fields      []*FieldDecl
	description string
}

// New returns a declaration of the given kind.
func New(name string, kind Kind) *Decl { return &Decl{name: name, kind: kind} }

// Plain returns a declaration that carries no field metadata.
func Plain(name string) *Decl { return New(name, KindPlain) }

// Dataclass returns a declaration whose annotated fields are contributed to
// the types extending it.
func Dataclass(name string) *Decl { return New(name, KindDataclass) }

// Object returns a GraphQL object type declaration.
func Object(name string) *Decl { return New(name, KindObject) }

// Input returns a GraphQL input type declaration.
func Input(name string) *Decl { return New(name, KindInput) }

// Partial returns a GraphQL input type declaration whose fields are all
// nullable.
func Partial(name string) *Decl { return New(name, KindPartial) }

// Extends appends bases, in order.
func (d *Decl) Extends(bases ...*Decl) *Decl {
	d.bases = append(d.bases, bases...)
	return d
}

// Field declares an annotated field.
func (d *Decl) Field(name string, t *TypeRef, opts ...FieldOption) *Decl {
	f := &FieldDecl{Name: name, Type: t}
	for _, opt := range opts {
		opt(f)
	}
	d.fields = append(d.fields, f)
	return d
}

// Attr declares an attribute without a type annotation. It never exposes
// or hides a field.
func (d *Decl) Attr(name string) *Decl {
	d.fields = append(d.fields, &FieldDecl{Name: name})
	return d
}

// Override binds impl to an inherited field without redeclaring its type.
func (d *Decl) Override(name string, impl field.Implementation) *Decl {
	d.fields = append(d.fields, &FieldDecl{Name: name, Impl: impl})
	return d
}

// Describe sets the type description.
func (d *Decl) Describe(s string) *Decl {
	d.description = s
	return d
}

// Name returns the declaration name.
func (d *Decl) Name() string { return d.name }

// Kind returns the declaration kind.
func (d *Decl) Kind() Kind { return d.kind }

// Description returns the type description.
func (d *Decl) Description() string { return d.description }

// Bases returns the bases in declaration order.
func (d *Decl) Bases() []*Decl { return slices.Clone(d.bases) }

// Fields returns the field declarations in declaration order.
func (d *Decl) Fields() []*FieldDecl { return slices.Clone(d.fields) }

// Lookup returns the field declared directly on d.
func (d *Decl) Lookup(name string) (*FieldDecl, bool) {
	for _, f := range d.fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Descends reports whether d is base or inherits from it, directly or not.
func (d *Decl) Descends(base *Decl) bool {
	if d == nil || base == nil {
		return false
	}
	seen := make(map[*Decl]bool)
	var walk func(*Decl) bool
	walk = func(c *Decl) bool {
		if c == base {
			return true
		}
		if seen[c] {
			return false
		}
		seen[c] = true
		for _, b := range c.bases {
			if walk(b) {
				return true
			}
		}
		return false
	}
	return walk(d)
}

// String returns the declaration name.
func (d *Decl) String() string { return d.name }
