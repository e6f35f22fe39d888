// Package modelgql derives GraphQL object and input types from relational
// model descriptors.
//
// A type is declared with package schema, bound to a model from package model
// and registered with package registry. The registry merges the fields of the
// declaration and its bases into an ordered field list (package merge) once,
// and keeps the query optimizer hints (package hints) consumed later by the
// query layer (package optimizer).
//
//	someModel := model.New("SomeModel", model.Char("name", 255))
//
//	base := schema.Object("SomeStrawberryType").
//	    Field("some_strawberry_attr", schema.String())
//
//	decl := schema.Object("SomeModelType").
//	    Extends(base).
//	    Field("name", schema.String())
//
//	reg := registry.Default()
//	if err := reg.Type(someModel, decl, registry.Only("name")); err != nil {
//	    return err
//	}
//	if err := reg.Seal(); err != nil {
//	    return err
//	}
//	typ := reg.MustLookup("SomeModelType")
//
// This package holds the error taxonomy shared by the other packages.
package modelgql
