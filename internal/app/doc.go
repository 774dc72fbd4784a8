// Package app contains the bootstrap pipeline. A Builder accumulates
// declarations during the configuration window; a single Build call freezes
// the serialization adapters, resolves every declaration and publishes the
// result, returning an immutable System handle.
//
// Build either completes fully or fails without exposing any registry
// entries. A Builder is single-use: after Build, successful or not, every
// call on it fails with an ILLEGAL_LIFECYCLE_STATE error.
package app
