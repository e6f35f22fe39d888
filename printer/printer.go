// Package printer emits the SDL of merged types, with fields in their
// merged order.
package printer

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/syssam/modelgql/merge"
	"github.com/syssam/modelgql/schema"
)

// Source provides merged types by name. *registry.Registry implements it.
type Source interface {
	Names() []string
	Lookup(name string) (*merge.Type, error)
}

var builtins = map[string]bool{
	schema.ScalarString:  true,
	schema.ScalarInt:     true,
	schema.ScalarFloat:   true,
	schema.ScalarBoolean: true,
	schema.ScalarID:      true,
}

// Document returns the schema document of the named types and every type
// they reach, in registration order. With no names, every registered type
// is included. Referenced names that are neither built in nor registered
// are declared as custom scalars.
func Document(src Source, names ...string) (*ast.SchemaDocument, error) {
	registered := src.Names()
	if len(names) == 0 {
		names = registered
	}
	types := make(map[string]*merge.Type)
	scalars := make(map[string]bool)
	queue := slices.Clone(names)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if types[name] != nil || scalars[name] || builtins[name] {
			continue
		}
		if !slices.Contains(registered, name) {
			scalars[name] = true
			continue
		}
		t, err := src.Lookup(name)
		if err != nil {
			return nil, err
		}
		types[name] = t
		for _, f := range t.Fields() {
			queue = append(queue, f.Type.Name())
			for _, a := range f.Args {
				queue = append(queue, a.Type.Name())
			}
		}
	}
	doc := &ast.SchemaDocument{}
	for _, name := range registered {
		if t := types[name]; t != nil {
			doc.Definitions = append(doc.Definitions, definition(t))
		}
	}
	for _, name := range slices.Sorted(maps.Keys(scalars)) {
		doc.Definitions = append(doc.Definitions, &ast.Definition{Kind: ast.Scalar, Name: name})
	}
	return doc, nil
}

func definition(t *merge.Type) *ast.Definition {
	def := &ast.Definition{
		Kind:        ast.Object,
		Name:        t.Name,
		Description: t.Description,
	}
	input := t.Kind.Input()
	if input {
		def.Kind = ast.InputObject
	}
	for _, f := range t.Fields() {
		fd := &ast.FieldDefinition{
			Name:        f.GraphQLName,
			Type:        f.Type,
			Description: f.Description,
		}
		if !input {
			for _, a := range f.Args {
				fd.Arguments = append(fd.Arguments, &ast.ArgumentDefinition{Name: a.GraphQLName, Type: a.Type})
			}
		}
		if f.Deprecation != "" {
			fd.Directives = append(fd.Directives, &ast.Directive{
				Name: "deprecated",
				Arguments: ast.ArgumentList{{
					Name:  "reason",
					Value: &ast.Value{Kind: ast.StringValue, Raw: f.Deprecation},
				}},
			})
		}
		def.Fields = append(def.Fields, fd)
	}
	return def
}

// Print returns the SDL of the named types, as Document selects them.
func Print(src Source, names ...string) (string, error) {
	doc, err := Document(src, names...)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	formatter.NewFormatter(&b, formatter.WithIndent("  ")).FormatSchemaDocument(doc)
	return b.String(), nil
}

// Schema prints the named types and validates the result.
func Schema(src Source, names ...string) (*ast.Schema, error) {
	sdl, err := Print(src, names...)
	if err != nil {
		return nil, err
	}
	s, gerr := gqlparser.LoadSchema(&ast.Source{Name: "modelgql.graphql", Input: sdl})
	if gerr != nil {
		return nil, fmt.Errorf("printer: invalid schema: %w", gerr)
	}
	return s, nil
}
