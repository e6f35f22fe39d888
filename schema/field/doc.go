// Package field provides the runtime implementations bound to the fields of
// registered types.
//
// Every merged field carries an Implementation. Fields declared without one
// receive a default *ModelField that resolves the value from the backing
// column of the source row:
//
//	schema.Object("UserType").
//	    Field("email", schema.Auto())
//
// A custom implementation embeds *ModelField and overrides what it needs. It
// is kept on every type that inherits the field, unless a subtype declares
// its own:
//
//	type UpperField struct{ *field.ModelField }
//
//	func (f *UpperField) Resolve(ctx context.Context, src any, info field.Info) (any, error) {
//	    v, err := f.ModelField.Resolve(ctx, src, info)
//	    if s, ok := v.(string); ok {
//	        return strings.ToUpper(s), err
//	    }
//	    return v, err
//	}
//
//	schema.Object("UserType").
//	    Field("email", schema.Auto(), schema.Impl(&UpperField{field.New()}))
//
// Field-level optimizer hints are merged by the optimizer with the type hints
// whenever the field is selected:
//
//	field.New(field.Hints(hints.SelectRelated("group")))
package field
