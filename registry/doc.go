// Package registry is the process-wide side table of declared types.
//
// Types are registered during initialization, usually from package init
// functions or main before serving starts:
//
//	reg := registry.Default()
//	reg.Type(models.User, UserType, registry.Only("id", "email"))
//	reg.Input(models.User, UserInput)
//	if err := reg.Seal(); err != nil {
//	    log.Fatal(err)
//	}
//
// A type is merged the first time it is looked up, or at the latest by
// Seal. The merged type is cached and every later lookup returns the same
// value. Merged bases that were never registered are merged without a model
// on first use and cached as well.
//
// Relations resolve to the first object type registered for their target
// model, so mutually related types may be registered in any order. Merge
// errors surface from Lookup, Types and Seal; a failing type caches nothing.
//
// Registration after Seal is a configuration error. After Seal the registry
// is safe for concurrent reads.
package registry
