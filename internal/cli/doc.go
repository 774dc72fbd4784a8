// Package cli parses command-line arguments, validates user input, and
// carries process exit codes. It translates flags into an app.Config.
package cli
