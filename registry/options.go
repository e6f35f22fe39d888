package registry

import (
	"github.com/syssam/modelgql/hints"
	"github.com/syssam/modelgql/model"
)

// TypeOption configures a type at registration.
type TypeOption func(*typeConfig)

type typeConfig struct {
	hints []hints.Option
}

// Only restricts the selected columns.
func Only(names ...string) TypeOption {
	return Hints(hints.Only(names...))
}

// SelectRelated eager loads single-valued relations through joins.
func SelectRelated(names ...string) TypeOption {
	return Hints(hints.SelectRelated(names...))
}

// PrefetchRelated eager loads multi-valued relations.
func PrefetchRelated(names ...string) TypeOption {
	return Hints(hints.PrefetchRelated(names...))
}

// Annotate attaches computed expressions.
func Annotate(exprs map[string]model.Expr) TypeOption {
	return Hints(hints.Annotate(exprs))
}

// Hints attaches raw hint options. A type registered without any hint
// option has no hint record.
func Hints(opts ...hints.Option) TypeOption {
	return func(c *typeConfig) { c.hints = append(c.hints, opts...) }
}
