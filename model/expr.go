package model

import (
	"fmt"
	"strings"
)

// Expr is a computed expression attached to a query as an annotation.
// F, Count, Sum, Max and Min are comparable with ==. A Value is comparable
// only when the value it holds is.
type Expr interface {
	// Expr returns the textual form of the expression, using "__" to
	// separate relation traversals.
	Expr() string
}

// F references a column, possibly across relations ("other__name").
type F string

// Expr implements the Expr interface.
func (f F) Expr() string { return string(f) }

// Path returns the relation path and the final column name.
func (f F) Path() ([]string, string) {
	parts := strings.Split(string(f), "__")
	return parts[:len(parts)-1], parts[len(parts)-1]
}

// Value is a constant expression.
type Value struct{ V any }

// Expr implements the Expr interface.
func (v Value) Expr() string { return fmt.Sprintf("%v", v.V) }

// Count counts the rows of a relation or column.
type Count struct {
	Field    string
	Distinct bool
}

// Expr implements the Expr interface.
func (c Count) Expr() string {
	if c.Distinct {
		return "COUNT(DISTINCT " + c.Field + ")"
	}
	return "COUNT(" + c.Field + ")"
}

// Sum sums a numeric column.
type Sum struct{ Field string }

// Expr implements the Expr interface.
func (s Sum) Expr() string { return "SUM(" + s.Field + ")" }

// Max returns the maximum of a column.
type Max struct{ Field string }

// Expr implements the Expr interface.
func (m Max) Expr() string { return "MAX(" + m.Field + ")" }

// Min returns the minimum of a column.
type Min struct{ Field string }

// Expr implements the Expr interface.
func (m Min) Expr() string { return "MIN(" + m.Field + ")" }
