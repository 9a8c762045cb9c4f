// Package app wires the application together: it layers configuration from
// defaults, environment variables, and command-line flags, builds the
// logger, and runs either a single resolution (printing the flattened
// configuration) or a check pass over every fragment under the search root.
package app
