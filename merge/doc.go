// Package merge computes the exposed fields of declared GraphQL types.
//
// Merging walks the bases of a declaration in declared order:
//
//   - plain bases contribute nothing;
//   - dataclass bases contribute their annotated fields, resolved in the
//     context of the merged type;
//   - bases of a merged kind contribute their merged fields verbatim,
//     including the implementations bound to them.
//
// The declaration's own fields come last. The first contributor of a name
// fixes its position, while the most specific explicit implementation wins.
// Fields left without an explicit implementation receive a default
// *field.ModelField bound to their name and resolved type.
//
// Merge is pure. Callers that need the "merge once" behavior, such as the
// registry, cache the result; the Env they pass resolves merged bases
// through that cache.
package merge
