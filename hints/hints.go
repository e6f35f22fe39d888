// Package hints holds the query optimizer hints attached to a registered type:
// the columns to restrict selection to, the relations to join or prefetch,
// and the computed expressions to annotate.
//
// A record is immutable once built. Accessors return copies.
package hints

import (
	"maps"
	"slices"

	"github.com/syssam/modelgql/model"
)

// Hints is an optimizer hint record.
type Hints struct {
	only            []string
	selectRelated   []string
	prefetchRelated []string
	annotate        map[string]model.Expr
}

// Option configures a hint record.
type Option func(*Hints)

// Only restricts the selected columns. Entries are kept in the given order.
func Only(fields ...string) Option {
	return func(h *Hints) { h.only = append(h.only, fields...) }
}

// SelectRelated eagerly joins single-valued relations.
func SelectRelated(relations ...string) Option {
	return func(h *Hints) { h.selectRelated = append(h.selectRelated, relations...) }
}

// PrefetchRelated eagerly loads multi-valued relations.
func PrefetchRelated(relations ...string) Option {
	return func(h *Hints) { h.prefetchRelated = append(h.prefetchRelated, relations...) }
}

// Annotate attaches computed expressions keyed by the name they are exposed as.
func Annotate(exprs map[string]model.Expr) Option {
	return func(h *Hints) {
		maps.Copy(h.annotate, exprs)
	}
}

// New returns a hint record. Options that are not given default to empty
// containers, never nil.
func New(opts ...Option) *Hints {
	h := &Hints{
		only:            []string{},
		selectRelated:   []string{},
		prefetchRelated: []string{},
		annotate:        map[string]model.Expr{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Empty returns a record with no hints.
func Empty() *Hints { return New() }

// Only returns the columns selection is restricted to.
func (h *Hints) Only() []string { return slices.Clone(h.only) }

// SelectRelated returns the single-valued relations to join.
func (h *Hints) SelectRelated() []string { return slices.Clone(h.selectRelated) }

// PrefetchRelated returns the multi-valued relations to prefetch.
func (h *Hints) PrefetchRelated() []string { return slices.Clone(h.prefetchRelated) }

// Annotate returns the computed expressions.
func (h *Hints) Annotate() map[string]model.Expr { return maps.Clone(h.annotate) }

// IsEmpty reports whether the record carries no hints.
func (h *Hints) IsEmpty() bool {
	return len(h.only) == 0 && len(h.selectRelated) == 0 &&
		len(h.prefetchRelated) == 0 && len(h.annotate) == 0
}

// Options returns options that rebuild this record.
func (h *Hints) Options() []Option {
	return []Option{
		Only(h.only...),
		SelectRelated(h.selectRelated...),
		PrefetchRelated(h.prefetchRelated...),
		Annotate(h.annotate),
	}
}
