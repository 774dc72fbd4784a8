// Package registry provides the published type registry: the single store
// that maps a domain class to its resolved metadata.
//
// The registry is filled exactly once, by the bootstrap pipeline, through a
// Batch that is committed all-or-nothing and then sealed. From then on it is
// read-only, and Lookup is safe for any number of concurrent readers without
// locking, because nothing writes to it any more.
//
// A class may be published only once. A second publication is a pipeline
// bug and is reported as DuplicateRegistration instead of overwriting.
package registry
