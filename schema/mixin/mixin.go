package mixin

import (
	"github.com/syssam/modelgql/schema"
	"github.com/syssam/modelgql/schema/field"
)

// ScalarDateTime is the scalar timestamps are exposed as.
const ScalarDateTime = "DateTime"

// Time contributes created_at and updated_at.
//
// Example:
//
//	schema.Object("UserType").Extends(mixin.Time()).Field("name", schema.Auto())
func Time() *schema.Decl {
	return schema.Dataclass("Time").
		Extends(CreateTime(), UpdateTime())
}

// CreateTime contributes created_at only.
func CreateTime() *schema.Decl {
	return schema.Dataclass("CreateTime").
		Field("created_at", schema.Named(ScalarDateTime),
			schema.Description("Timestamp when the entity was created"))
}

// UpdateTime contributes updated_at only.
func UpdateTime() *schema.Decl {
	return schema.Dataclass("UpdateTime").
		Field("updated_at", schema.Named(ScalarDateTime),
			schema.Description("Timestamp when the entity was last updated"))
}

// SoftDelete contributes a nullable deleted_at. A null value means the
// entity is not deleted.
func SoftDelete() *schema.Decl {
	return schema.Dataclass("SoftDelete").
		Field("deleted_at", schema.Named(ScalarDateTime).Optional(),
			schema.Description("Timestamp when the entity was soft deleted"))
}

// TimeSoftDelete combines Time and SoftDelete.
func TimeSoftDelete() *schema.Decl {
	return schema.Dataclass("TimeSoftDelete").
		Extends(Time(), SoftDelete())
}

// Node contributes the id field of a Relay node.
func Node() *schema.Decl {
	return schema.Dataclass("Node").
		Field("id", schema.ID(), schema.Description("Globally unique identifier"))
}

// TenantID contributes tenant_id for multi-tenant types.
func TenantID() *schema.Decl {
	return schema.Dataclass("TenantID").
		Field("tenant_id", schema.String())
}

// AnnotateFields returns a copy of d whose annotated fields, including the
// ones d inherits from dataclass bases, are bound to impl. Fields that
// already carry an implementation keep it.
//
// Example:
//
//	mixin.AnnotateFields(mixin.Time(), field.New(field.Hints(hints.Only("created_at"))))
func AnnotateFields(d *schema.Decl, impl field.Implementation) *schema.Decl {
	c := schema.New(d.Name(), d.Kind())
	c.Describe(d.Description())
	for _, b := range d.Bases() {
		if b.Kind() == schema.KindDataclass {
			b = AnnotateFields(b, impl)
		}
		c.Extends(b)
	}
	for _, f := range d.Fields() {
		switch {
		case !f.Annotated() && f.Impl == nil:
			c.Attr(f.Name)
		case !f.Annotated():
			c.Override(f.Name, f.Impl)
		default:
			bound := impl
			if f.Impl != nil {
				bound = f.Impl
			}
			c.Field(f.Name, f.Type,
				schema.Impl(bound),
				schema.Args(f.Args...),
				schema.Description(f.Description))
		}
	}
	return c
}
