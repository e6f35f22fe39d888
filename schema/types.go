package schema

import "strings"

// Built-in GraphQL scalar names.
const (
	ScalarString  = "String"
	ScalarInt     = "Int"
	ScalarFloat   = "Float"
	ScalarBoolean = "Boolean"
	ScalarID      = "ID"
)

type refKind uint8

const (
	refNamed refKind = iota
	refAuto
	refDecl
	refList
)

// TypeRef is the type annotation of a declared field or argument. References
// are non-null unless made Optional.
type TypeRef struct {
	kind     refKind
	name     string
	decl     *Decl
	elem     *TypeRef
	nullable bool
}

// Named references a GraphQL type by name, such as a scalar or an enum
// defined elsewhere.
func Named(name string) *TypeRef { return &TypeRef{kind: refNamed, name: name} }

// String references the String scalar.
func String() *TypeRef { return Named(ScalarString) }

// Int references the Int scalar.
func Int() *TypeRef { return Named(ScalarInt) }

// Float references the Float scalar.
func Float() *TypeRef { return Named(ScalarFloat) }

// Boolean references the Boolean scalar.
func Boolean() *TypeRef { return Named(ScalarBoolean) }

// ID references the ID scalar.
func ID() *TypeRef { return Named(ScalarID) }

// Auto is resolved from the model column or relation of the same name.
// Its nullability follows the model unless made Optional.
func Auto() *TypeRef { return &TypeRef{kind: refAuto} }

// Ref references another declared type.
func Ref(d *Decl) *TypeRef { return &TypeRef{kind: refDecl, decl: d} }

// ListOf references a list of elem.
func ListOf(elem *TypeRef) *TypeRef { return &TypeRef{kind: refList, elem: elem} }

// Optional returns a nullable copy of the reference.
func (t *TypeRef) Optional() *TypeRef {
	c := *t
	c.nullable = true
	return &c
}

// IsAuto reports if the reference is resolved from the model.
func (t *TypeRef) IsAuto() bool { return t.kind == refAuto }

// IsList reports if the reference is a list.
func (t *TypeRef) IsList() bool { return t.kind == refList }

// Nullable reports if the reference is nullable.
func (t *TypeRef) Nullable() bool { return t.nullable }

// Name returns the referenced type name. It is empty for auto references
// and lists.
func (t *TypeRef) Name() string {
	switch t.kind {
	case refNamed:
		return t.name
	case refDecl:
		return t.decl.Name()
	}
	return ""
}

// Decl returns the referenced declaration, if any.
func (t *TypeRef) Decl() *Decl { return t.decl }

// Elem returns the element reference of a list.
func (t *TypeRef) Elem() *TypeRef { return t.elem }

// String returns the SDL-like form of the reference.
func (t *TypeRef) String() string {
	var b strings.Builder
	switch t.kind {
	case refAuto:
		if t.nullable {
			return "auto?"
		}
		return "auto"
	case refList:
		b.WriteString("[")
		b.WriteString(t.elem.String())
		b.WriteString("]")
	default:
		b.WriteString(t.Name())
	}
	if !t.nullable {
		b.WriteString("!")
	}
	return b.String()
}
