package registry_test

import (
	"fmt"

	"github.com/syssam/modelgql/model"
	"github.com/syssam/modelgql/registry"
	"github.com/syssam/modelgql/schema"
)

func ExampleRegistry() {
	someModel := model.New("SomeModel", model.ID("id"), model.Char("name", 255))

	someStrawberryType := schema.Object("SomeStrawberryType").
		Field("some_strawberry_attr", schema.String())
	someDataclass := schema.Dataclass("SomeDataclass").
		Field("some_dataclass_attr", schema.String())
	nonDataclass := schema.Plain("NonDataclass").
		Field("non_dataclass_attr", schema.String())

	reg := registry.New()
	_ = reg.Object(someStrawberryType)
	_ = reg.Type(someModel, schema.Object("SomeModelType").
		Extends(someStrawberryType, someDataclass, nonDataclass).
		Field("name", schema.Auto()),
		registry.Only("name"),
	)
	if err := reg.Seal(); err != nil {
		fmt.Println(err)
		return
	}

	typ := reg.MustLookup("SomeModelType")
	for _, f := range typ.Fields() {
		fmt.Println(f.GraphQLName, f.Type)
	}
	h, _ := reg.Hints("SomeModelType", true)
	fmt.Println(h.Only())
	// Output:
	// someStrawberryAttr String!
	// someDataclassAttr String!
	// name String!
	// [name]
}
