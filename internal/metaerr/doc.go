// Package metaerr defines the error kinds raised while declaring, resolving
// and publishing domain metadata.
//
// Every error produced by the bootstrap pipeline is an *Error carrying a Code.
// Callers match kinds with errors.Is against the exported sentinels:
//
//	if errors.Is(err, metaerr.ErrNoIdPropertyFound) { ... }
//
// and extract the offending class or property with errors.As.
package metaerr
