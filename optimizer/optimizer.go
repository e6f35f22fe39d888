// Package optimizer turns the optimizer hints of a type into calls on a
// query set.
//
// A Plan combines the hints registered for the type with the hints of the
// implementations of the selected fields. When the type declares no
// explicit column restriction, the plan restricts selection to the columns
// backing the selected fields and eager loads their relations.
package optimizer

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/syssam/modelgql/config"
	"github.com/syssam/modelgql/hints"
	"github.com/syssam/modelgql/merge"
	"github.com/syssam/modelgql/model"
	"github.com/syssam/modelgql/schema/field"
)

// QuerySet is the query builder of the ORM layer.
type QuerySet interface {
	Only(fields ...string) QuerySet
	SelectRelated(relations ...string) QuerySet
	PrefetchRelated(relations ...string) QuerySet
	Annotate(exprs map[string]model.Expr) QuerySet
}

// Source provides merged types and their hints. *registry.Registry
// implements it.
type Source interface {
	Lookup(name string) (*merge.Type, error)
	Hints(typeName string, strict bool) (*hints.Hints, error)
}

// Plan is the query shape for one selection of a type.
type Plan struct {
	Type            string
	Only            []string
	SelectRelated   []string
	PrefetchRelated []string
	Annotate        map[string]model.Expr
}

// Hints returns the plan as a hint record.
func (p *Plan) Hints() *hints.Hints {
	return hints.New(
		hints.Only(p.Only...),
		hints.SelectRelated(p.SelectRelated...),
		hints.PrefetchRelated(p.PrefetchRelated...),
		hints.Annotate(p.Annotate),
	)
}

// Optimizer builds plans from a Source.
type Optimizer struct {
	src    Source
	strict bool
	log    *slog.Logger
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// Strict makes planning fail for types without registered hints.
func Strict(strict bool) Option {
	return func(o *Optimizer) { o.strict = strict }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Optimizer) { o.log = l }
}

// New returns an Optimizer. Strictness defaults to the strict_hints
// setting of sources that carry a configuration, such as a registry.
func New(src Source, opts ...Option) *Optimizer {
	o := &Optimizer{src: src, log: slog.Default()}
	if c, ok := src.(interface{ Config() *config.Config }); ok && c.Config() != nil {
		o.strict = c.Config().StrictHints
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Plan returns the plan for the selected fields of the named type. Fields
// are selected by declared or GraphQL name; no selection means every field.
// Registered hints are kept verbatim. Derived entries are appended only
// when missing.
func (o *Optimizer) Plan(typeName string, selection ...string) (*Plan, error) {
	t, err := o.src.Lookup(typeName)
	if err != nil {
		return nil, err
	}
	th, err := o.src.Hints(typeName, o.strict)
	if err != nil {
		return nil, err
	}
	fields, err := selected(t, selection)
	if err != nil {
		return nil, err
	}
	p := &Plan{
		Type:            typeName,
		Only:            th.Only(),
		SelectRelated:   th.SelectRelated(),
		PrefetchRelated: th.PrefetchRelated(),
		Annotate:        th.Annotate(),
	}
	derive := len(p.Only) == 0
	for _, f := range fields {
		if hp, ok := f.Impl.(field.HintProvider); ok {
			p.merge(hp.OptimizerHints())
		}
		if !derive {
			continue
		}
		switch r := f.Relation; {
		case f.Column != "":
			p.Only = appendNew(p.Only, f.Column)
		case r != nil && r.Many:
			p.PrefetchRelated = appendNew(p.PrefetchRelated, r.Name)
		case r != nil:
			p.Only = appendNew(p.Only, r.Name)
			p.SelectRelated = appendNew(p.SelectRelated, r.Name)
		}
	}
	o.log.Debug("query plan", "type", typeName, "only", p.Only,
		"select_related", p.SelectRelated, "prefetch_related", p.PrefetchRelated)
	return p, nil
}

// Optimize plans the selection and applies the plan to q.
func (o *Optimizer) Optimize(q QuerySet, typeName string, selection ...string) (QuerySet, error) {
	p, err := o.Plan(typeName, selection...)
	if err != nil {
		return nil, err
	}
	return Apply(q, p), nil
}

// Apply calls Only, SelectRelated, PrefetchRelated and Annotate on q, in
// that order, skipping the empty ones.
func Apply(q QuerySet, p *Plan) QuerySet {
	if len(p.Only) > 0 {
		q = q.Only(p.Only...)
	}
	if len(p.SelectRelated) > 0 {
		q = q.SelectRelated(p.SelectRelated...)
	}
	if len(p.PrefetchRelated) > 0 {
		q = q.PrefetchRelated(p.PrefetchRelated...)
	}
	if len(p.Annotate) > 0 {
		q = q.Annotate(maps.Clone(p.Annotate))
	}
	return q
}

// merge adds field-level hints. Registered annotations win on name clashes.
func (p *Plan) merge(h *hints.Hints) {
	p.Only = appendNew(p.Only, h.Only()...)
	p.SelectRelated = appendNew(p.SelectRelated, h.SelectRelated()...)
	p.PrefetchRelated = appendNew(p.PrefetchRelated, h.PrefetchRelated()...)
	for name, expr := range h.Annotate() {
		if _, ok := p.Annotate[name]; !ok {
			p.Annotate[name] = expr
		}
	}
}

func selected(t *merge.Type, selection []string) ([]*merge.Field, error) {
	if len(selection) == 0 {
		return t.Fields(), nil
	}
	all := t.Fields()
	fields := make([]*merge.Field, 0, len(selection))
	for _, name := range selection {
		f, ok := t.Field(name)
		if !ok {
			i := slices.IndexFunc(all, func(f *merge.Field) bool { return f.GraphQLName == name })
			if i < 0 {
				return nil, fmt.Errorf("optimizer: type %s has no field %q", t.Name, name)
			}
			f = all[i]
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func appendNew(dst []string, items ...string) []string {
	for _, s := range items {
		if !slices.Contains(dst, s) {
			dst = append(dst, s)
		}
	}
	return dst
}
