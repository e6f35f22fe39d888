package model

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-openapi/inflect"
	"github.com/google/uuid"
)

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
	rawType  = reflect.TypeOf(json.RawMessage{})
)

// Reflect derives a model from a Go struct. Exported fields become columns
// named after the `db` tag, or the snake_case field name when untagged.
// The tag accepts the options pk, null and default:
//
//	type User struct {
//	    ID    int64   `db:"id,pk"`
//	    Email string  `db:"email"`
//	    Bio   *string `db:"bio"`
//	    Group *Group  `rel:"Group"`
//	    Posts []*Post `rel:"Post,many"`
//	}
//
// Fields tagged with `rel` become relations. A to-one relation is stored in
// the <name>_id column.
func Reflect(v any) (*Model, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model: expect struct, got %T", v)
	}
	m := &Model{Name: t.Name(), Table: inflect.Tableize(t.Name())}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if tag, ok := sf.Tag.Lookup("rel"); ok {
			r, err := reflectRelation(sf, tag)
			if err != nil {
				return nil, fmt.Errorf("model %s: %w", m.Name, err)
			}
			r.apply(m)
			continue
		}
		tag := sf.Tag.Get("db")
		if tag == "-" {
			continue
		}
		c, err := reflectColumn(sf, tag)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", m.Name, err)
		}
		c.apply(m)
	}
	return m, nil
}

func reflectColumn(sf reflect.StructField, tag string) (*Column, error) {
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = inflect.Underscore(sf.Name)
	}
	c := &Column{Name: name}
	t := sf.Type
	if t.Kind() == reflect.Pointer {
		c.Nullable = true
		t = t.Elem()
	}
	c.Type = columnType(t)
	if !c.Type.Valid() {
		return nil, fmt.Errorf("field %s: unsupported Go type %s", sf.Name, sf.Type)
	}
	for _, opt := range strings.Split(opts, ",") {
		switch opt {
		case "pk":
			c.Primary, c.Default = true, true
		case "null":
			c.Nullable = true
		case "default":
			c.Default = true
		case "":
		default:
			return nil, fmt.Errorf("field %s: unknown db tag option %q", sf.Name, opt)
		}
	}
	return c, nil
}

func reflectRelation(sf reflect.StructField, tag string) (*Relation, error) {
	target, opts, _ := strings.Cut(tag, ",")
	t := sf.Type
	r := &Relation{Name: inflect.Underscore(sf.Name)}
	switch t.Kind() {
	case reflect.Slice:
		r.Many = true
		t = t.Elem()
	case reflect.Pointer:
		r.Nullable = true
	default:
		return nil, fmt.Errorf("field %s: relation must be a pointer or slice, got %s", sf.Name, t)
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if target == "" {
		target = t.Name()
	}
	r.Target = target
	for _, opt := range strings.Split(opts, ",") {
		switch opt {
		case "many":
			r.Many = true
		case "required":
			r.Nullable = false
		case "":
		default:
			return nil, fmt.Errorf("field %s: unknown rel tag option %q", sf.Name, opt)
		}
	}
	if !r.Many {
		r.Column = r.Name + "_id"
	}
	return r, nil
}

func columnType(t reflect.Type) ColumnType {
	switch t {
	case timeType:
		return TypeDateTime
	case uuidType:
		return TypeUUID
	case rawType:
		return TypeJSON
	}
	switch t.Kind() {
	case reflect.String:
		return TypeText
	case reflect.Bool:
		return TypeBool
	case reflect.Int8, reflect.Int16, reflect.Uint8, reflect.Uint16:
		return TypeSmallInt
	case reflect.Int, reflect.Int32, reflect.Uint32:
		return TypeInt
	case reflect.Int64, reflect.Uint, reflect.Uint64:
		return TypeBigInt
	case reflect.Float32, reflect.Float64:
		return TypeFloat
	case reflect.Map:
		return TypeJSON
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return TypeBinary
		}
		return TypeJSON
	}
	return TypeInvalid
}
