// Package mixin provides ready-made dataclass declarations for fields that
// many types share.
//
// A mixin is a dataclass: its annotated fields are contributed to every
// type that extends it and are resolved in that type's context.
//
//	userType := schema.Object("UserType").
//	    Extends(mixin.Node(), mixin.TimeSoftDelete()).
//	    Field("email", schema.Auto())
//
// The merged UserType exposes id, created_at, updated_at, deleted_at and
// email, in that order.
//
// Custom mixins are plain dataclass declarations:
//
//	func Audit() *schema.Decl {
//	    return schema.Dataclass("Audit").
//	        Field("created_by", schema.String()).
//	        Field("updated_by", schema.String().Optional())
//	}
//
// AnnotateFields binds one implementation to every field of a mixin, which
// is useful for cross-cutting resolvers such as permission checks.
package mixin
