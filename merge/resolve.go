package merge

import (
	"errors"
	"fmt"

	"github.com/go-openapi/inflect"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/modelgql"
	"github.com/syssam/modelgql/model"
	"github.com/syssam/modelgql/schema"
)

// resolveField resolves the type of e on target, along with the model
// column or relation backing it.
func (m *Merger) resolveField(target *schema.Decl, mdl *model.Model, e *entry) (*ast.Type, *model.Column, *model.Relation, error) {
	var (
		col *model.Column
		rel *model.Relation
	)
	if mdl != nil {
		col, _ = mdl.Column(e.name)
		rel, _ = mdl.Relation(e.name)
	}
	var (
		typ *ast.Type
		err error
	)
	input := target.Kind().Input()
	if e.ref.IsAuto() {
		typ, err = m.auto(input, mdl, e.name, e.ref.Nullable(), col, rel)
	} else {
		typ, err = m.ref(e.ref, input)
	}
	if err != nil {
		return nil, nil, nil, modelgql.NewSchemaResolutionError(target.Name(), e.name, "unresolvable type", err)
	}
	return typ, col, rel, nil
}

// auto resolves an auto reference from the model column or relation of the
// same name.
func (m *Merger) auto(input bool, mdl *model.Model, name string, optional bool, col *model.Column, rel *model.Relation) (*ast.Type, error) {
	switch {
	case mdl == nil:
		return nil, errors.New("auto type requires a model")
	case col != nil:
		scalar, err := m.scalar(col)
		if err != nil {
			return nil, err
		}
		return named(scalar, optional || col.Nullable || (input && col.Default)), nil
	case rel != nil && input:
		if rel.Many {
			return ast.ListType(ast.NonNullNamedType(schema.ScalarID, nil), nil), nil
		}
		return named(schema.ScalarID, optional || rel.Nullable), nil
	case rel != nil:
		target, ok := m.env.ModelType(rel.Target)
		if !ok {
			return nil, fmt.Errorf("model %s of relation %s has no registered type", rel.Target, rel.Name)
		}
		if rel.Many {
			return list(ast.NonNullNamedType(target, nil), optional), nil
		}
		return named(target, optional || rel.Nullable), nil
	}
	return nil, fmt.Errorf("model %s has no column or relation %q", mdl.Name, name)
}

func (m *Merger) scalar(col *model.Column) (string, error) {
	if col.Primary {
		return schema.ScalarID, nil
	}
	if s, ok := m.scalars[col.Type]; ok && s != "" {
		return s, nil
	}
	return "", fmt.Errorf("column %s has unsupported type %s", col.Name, col.Type)
}

// ref resolves an explicit reference in output or input position.
func (m *Merger) ref(t *schema.TypeRef, input bool) (*ast.Type, error) {
	switch {
	case t.IsAuto():
		return nil, errors.New("auto type is only valid on a model field")
	case t.IsList():
		elem, err := m.ref(t.Elem(), input)
		if err != nil {
			return nil, err
		}
		return list(elem, t.Nullable()), nil
	case t.Decl() != nil:
		d := t.Decl()
		switch {
		case !d.Kind().Merged():
			return nil, fmt.Errorf("%s declaration %s is not a GraphQL type", d.Kind(), d.Name())
		case input && !d.Kind().Input():
			return nil, fmt.Errorf("object type %s cannot be used as an input", d.Name())
		case !input && d.Kind().Input():
			return nil, fmt.Errorf("input type %s cannot be used as an output", d.Name())
		}
	case t.Name() == "":
		return nil, errors.New("empty type name")
	}
	return named(t.Name(), t.Nullable()), nil
}

// resolveArgs resolves the arguments of e. Arguments are input positions.
func (m *Merger) resolveArgs(target *schema.Decl, e *entry) ([]*Argument, error) {
	if len(e.args) == 0 {
		return nil, nil
	}
	args := make([]*Argument, 0, len(e.args))
	for _, a := range e.args {
		if a.Type == nil {
			return nil, modelgql.NewSchemaResolutionError(target.Name(), e.name,
				fmt.Sprintf("argument %s has no type", a.Name), nil)
		}
		typ, err := m.ref(a.Type, true)
		if err != nil {
			return nil, modelgql.NewSchemaResolutionError(target.Name(), e.name,
				fmt.Sprintf("unresolvable type of argument %s", a.Name), err)
		}
		name := a.Name
		if m.camel {
			name = inflect.CamelizeDownFirst(name)
		}
		args = append(args, &Argument{Name: a.Name, GraphQLName: name, Type: typ})
	}
	return args, nil
}

func named(name string, nullable bool) *ast.Type {
	if nullable {
		return ast.NamedType(name, nil)
	}
	return ast.NonNullNamedType(name, nil)
}

func list(elem *ast.Type, nullable bool) *ast.Type {
	if nullable {
		return ast.ListType(elem, nil)
	}
	return ast.NonNullListType(elem, nil)
}

func nullable(t *ast.Type) *ast.Type {
	c := *t
	c.NonNull = false
	return &c
}
