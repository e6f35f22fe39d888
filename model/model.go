// Package model describes relational models: their columns, relations and
// native column types, as consumed by the type merger to resolve auto fields.
//
// Models are built once at startup and never modified afterwards:
//
//	other := model.New("OtherModel",
//	    model.ID("id"),
//	    model.Char("name", 255),
//	)
//
//	someModel := model.New("SomeModel3",
//	    model.ID("id"),
//	    model.Char("name", 255),
//	    model.ForeignKey("other", "OtherModel"),
//	)
//
// Models can also be derived from Go structs (Reflect) or from atlas tables
// (FromTable).
package model

import (
	"fmt"
	"slices"
)

// ColumnType is the native type of a model column.
type ColumnType uint8

// Column types.
const (
	TypeInvalid ColumnType = iota
	TypeChar
	TypeText
	TypeSmallInt
	TypeInt
	TypeBigInt
	TypeBool
	TypeFloat
	TypeDecimal
	TypeDate
	TypeDateTime
	TypeTime
	TypeUUID
	TypeJSON
	TypeBinary
	TypeEnum
	endTypes
)

var typeNames = [...]string{
	TypeInvalid:  "invalid",
	TypeChar:     "char",
	TypeText:     "text",
	TypeSmallInt: "smallint",
	TypeInt:      "int",
	TypeBigInt:   "bigint",
	TypeBool:     "bool",
	TypeFloat:    "float",
	TypeDecimal:  "decimal",
	TypeDate:     "date",
	TypeDateTime: "datetime",
	TypeTime:     "time",
	TypeUUID:     "uuid",
	TypeJSON:     "json",
	TypeBinary:   "binary",
	TypeEnum:     "enum",
}

// String returns the string representation of the type.
func (t ColumnType) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports if the type is a known column type.
func (t ColumnType) Valid() bool { return t > TypeInvalid && t < endTypes }

// ParseColumnType returns the column type for its string form.
func ParseColumnType(s string) (ColumnType, error) {
	for i, name := range typeNames {
		if name == s && ColumnType(i) != TypeInvalid {
			return ColumnType(i), nil
		}
	}
	return TypeInvalid, fmt.Errorf("model: unknown column type %q", s)
}

// Column describes a single model column.
type Column struct {
	Name     string
	Type     ColumnType
	Size     int
	Nullable bool
	Primary  bool
	Default  bool
	Enums    []string
	Comment  string
}

// Null marks the column as nullable.
func (c *Column) Null() *Column {
	c.Nullable = true
	return c
}

// WithDefault marks the column as having a database or model default.
func (c *Column) WithDefault() *Column {
	c.Default = true
	return c
}

// Describe sets the column comment.
func (c *Column) Describe(s string) *Column {
	c.Comment = s
	return c
}

func (c *Column) apply(m *Model) { m.columns = append(m.columns, c) }

// Relation describes a relation from one model to another.
type Relation struct {
	Name     string
	Target   string // Target model name.
	Many     bool   // To-many relation.
	Nullable bool
	Column   string // Local foreign-key column for to-one relations.
}

// Null marks the relation as optional.
func (r *Relation) Null() *Relation {
	r.Nullable = true
	return r
}

func (r *Relation) apply(m *Model) {
	m.relations = append(m.relations, r)
	if r.Column != "" {
		if _, ok := m.Column(r.Column); !ok {
			m.columns = append(m.columns, &Column{Name: r.Column, Type: TypeBigInt, Nullable: r.Nullable})
		}
	}
}

// Part is a column or relation passed to New.
type Part interface {
	apply(*Model)
}

// Model describes a relational model.
type Model struct {
	Name      string
	Table     string
	columns   []*Column
	relations []*Relation
}

// New returns a model with the given columns and relations, in order.
func New(name string, parts ...Part) *Model {
	m := &Model{Name: name}
	for _, p := range parts {
		p.apply(m)
	}
	return m
}

// Columns returns the model columns in declaration order.
func (m *Model) Columns() []*Column { return slices.Clone(m.columns) }

// Relations returns the model relations in declaration order.
func (m *Model) Relations() []*Relation { return slices.Clone(m.relations) }

// Column returns the column with the given name.
func (m *Model) Column(name string) (*Column, bool) {
	for _, c := range m.columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Relation returns the relation with the given name.
func (m *Model) Relation(name string) (*Relation, bool) {
	for _, r := range m.relations {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// PrimaryKey returns the primary key column, if any.
func (m *Model) PrimaryKey() (*Column, bool) {
	for _, c := range m.columns {
		if c.Primary {
			return c, true
		}
	}
	return nil, false
}

// String returns the model name.
func (m *Model) String() string { return m.Name }

// ID returns an auto-incrementing primary key column.
func ID(name string) *Column {
	return &Column{Name: name, Type: TypeBigInt, Primary: true, Default: true}
}

// UUIDKey returns a UUID primary key column.
func UUIDKey(name string) *Column {
	return &Column{Name: name, Type: TypeUUID, Primary: true, Default: true}
}

// Char returns a bounded string column.
func Char(name string, size int) *Column {
	return &Column{Name: name, Type: TypeChar, Size: size}
}

// Text returns an unbounded string column.
func Text(name string) *Column { return &Column{Name: name, Type: TypeText} }

// Int returns an integer column.
func Int(name string) *Column { return &Column{Name: name, Type: TypeInt} }

// BigInt returns a 64-bit integer column.
func BigInt(name string) *Column { return &Column{Name: name, Type: TypeBigInt} }

// SmallInt returns a small integer column.
func SmallInt(name string) *Column { return &Column{Name: name, Type: TypeSmallInt} }

// Bool returns a boolean column.
func Bool(name string) *Column { return &Column{Name: name, Type: TypeBool} }

// Float returns a floating point column.
func Float(name string) *Column { return &Column{Name: name, Type: TypeFloat} }

// Decimal returns a fixed precision column.
func Decimal(name string) *Column { return &Column{Name: name, Type: TypeDecimal} }

// Date returns a date column.
func Date(name string) *Column { return &Column{Name: name, Type: TypeDate} }

// DateTime returns a timestamp column.
func DateTime(name string) *Column { return &Column{Name: name, Type: TypeDateTime} }

// Time returns a time-of-day column.
func Time(name string) *Column { return &Column{Name: name, Type: TypeTime} }

// UUID returns a UUID column.
func UUID(name string) *Column { return &Column{Name: name, Type: TypeUUID} }

// JSON returns a JSON column.
func JSON(name string) *Column { return &Column{Name: name, Type: TypeJSON} }

// Binary returns a binary column.
func Binary(name string) *Column { return &Column{Name: name, Type: TypeBinary} }

// Enum returns an enum column with the given values.
func Enum(name string, values ...string) *Column {
	return &Column{Name: name, Type: TypeEnum, Enums: values}
}

// ForeignKey returns a to-one relation stored in the <name>_id column.
func ForeignKey(name, target string) *Relation {
	return &Relation{Name: name, Target: target, Column: name + "_id"}
}

// OneToOne returns a to-one relation stored in the <name>_id column.
func OneToOne(name, target string) *Relation {
	return ForeignKey(name, target)
}

// ReverseForeignKey returns the to-many side of a foreign key declared on target.
func ReverseForeignKey(name, target string) *Relation {
	return &Relation{Name: name, Target: target, Many: true}
}

// ManyToMany returns a to-many relation through a join table.
func ManyToMany(name, target string) *Relation {
	return &Relation{Name: name, Target: target, Many: true}
}
