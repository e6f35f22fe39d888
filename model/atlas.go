package model

import (
	"fmt"
	"strings"

	"ariga.io/atlas/sql/schema"
	"github.com/go-openapi/inflect"
)

// FromTable converts an inspected atlas table into a model. The model name is
// the singular, camel-cased table name. Single-column foreign keys become
// to-one relations named after the column without its "_id" suffix.
// Column types atlas reports as unsupported are kept as TypeInvalid and fail
// only when a field resolves against them.
func FromTable(t *schema.Table) (*Model, error) {
	if t == nil {
		return nil, fmt.Errorf("model: nil table")
	}
	m := &Model{Name: inflect.Typeify(t.Name), Table: t.Name}
	primary := make(map[string]bool)
	if pk := t.PrimaryKey; pk != nil {
		for _, part := range pk.Parts {
			if part.C != nil {
				primary[part.C.Name] = true
			}
		}
	}
	for _, col := range t.Columns {
		c := &Column{
			Name:    col.Name,
			Primary: primary[col.Name],
			Default: col.Default != nil,
		}
		if col.Type != nil {
			c.Nullable = col.Type.Null
			c.Type, c.Size, c.Enums = atlasType(col.Type.Type)
		}
		if c.Primary && (c.Type == TypeInt || c.Type == TypeBigInt) {
			// Integer primary keys are generated by the database.
			c.Default = true
		}
		c.apply(m)
	}
	for _, fk := range t.ForeignKeys {
		if len(fk.Columns) != 1 || fk.RefTable == nil {
			continue
		}
		col := fk.Columns[0]
		r := &Relation{
			Name:   strings.TrimSuffix(col.Name, "_id"),
			Target: inflect.Typeify(fk.RefTable.Name),
			Column: col.Name,
		}
		if col.Type != nil {
			r.Nullable = col.Type.Null
		}
		if r.Name == col.Name {
			r.Name = inflect.Singularize(fk.RefTable.Name)
		}
		r.apply(m)
	}
	return m, nil
}

// FromSchema converts all tables of an inspected atlas schema and adds the
// reverse side of every foreign key as a to-many relation on the target.
func FromSchema(s *schema.Schema) ([]*Model, error) {
	models := make([]*Model, 0, len(s.Tables))
	byTable := make(map[string]*Model, len(s.Tables))
	for _, t := range s.Tables {
		m, err := FromTable(t)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
		byTable[t.Name] = m
	}
	for _, t := range s.Tables {
		for _, fk := range t.ForeignKeys {
			if len(fk.Columns) != 1 || fk.RefTable == nil {
				continue
			}
			target, ok := byTable[fk.RefTable.Name]
			if !ok {
				continue
			}
			name := inflect.Pluralize(inflect.Singularize(t.Name))
			if _, exists := target.Relation(name); exists {
				continue
			}
			target.relations = append(target.relations, &Relation{
				Name:   name,
				Target: byTable[t.Name].Name,
				Many:   true,
			})
		}
	}
	return models, nil
}

func atlasType(t schema.Type) (ColumnType, int, []string) {
	switch t := t.(type) {
	case *schema.StringType:
		if strings.Contains(strings.ToLower(t.T), "text") {
			return TypeText, t.Size, nil
		}
		return TypeChar, t.Size, nil
	case *schema.IntegerType:
		switch lt := strings.ToLower(t.T); {
		case strings.Contains(lt, "big"):
			return TypeBigInt, 0, nil
		case strings.Contains(lt, "small"), strings.Contains(lt, "tiny"):
			return TypeSmallInt, 0, nil
		default:
			return TypeInt, 0, nil
		}
	case *schema.BoolType:
		return TypeBool, 0, nil
	case *schema.FloatType:
		return TypeFloat, 0, nil
	case *schema.DecimalType:
		return TypeDecimal, 0, nil
	case *schema.TimeType:
		switch strings.ToLower(t.T) {
		case "date":
			return TypeDate, 0, nil
		case "time", "time without time zone", "time with time zone":
			return TypeTime, 0, nil
		default:
			return TypeDateTime, 0, nil
		}
	case *schema.UUIDType:
		return TypeUUID, 0, nil
	case *schema.JSONType:
		return TypeJSON, 0, nil
	case *schema.BinaryType:
		return TypeBinary, 0, nil
	case *schema.EnumType:
		return TypeEnum, 0, t.Values
	}
	return TypeInvalid, 0, nil
}
