// Package schema declares the types that are merged into GraphQL types.
//
// A declaration has a kind, an ordered list of bases and an ordered list of
// field declarations. The kind is fixed at construction and tells the merger
// how the declaration contributes when it is used as a base:
//
//   - KindPlain declarations carry no field metadata and contribute nothing.
//   - KindDataclass declarations contribute their annotated fields, resolved
//     in the context of the type being merged.
//   - KindObject, KindInput and KindPartial declarations are merged types.
//     Their resolved fields, including custom implementations, are inherited
//     as they are.
//
// Example:
//
//	nonDataclass := schema.Plain("NonDataclass").
//	    Field("non_dataclass_attr", schema.String())
//
//	someDataclass := schema.Dataclass("SomeDataclass").
//	    Field("some_dataclass_attr", schema.String())
//
//	someStrawberryType := schema.Object("SomeStrawberryType").
//	    Field("some_strawberry_attr", schema.String())
//
//	someModelType := schema.Object("SomeModelType").
//	    Extends(someStrawberryType, someDataclass, nonDataclass).
//	    Field("name", schema.String())
//
// Declarations are built during program initialization and must not be
// modified once registered.
package schema
