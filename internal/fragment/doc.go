// Package fragment defines the format-agnostic configuration model for the
// application, along with the core Loader interface for parsing fragments
// from durable storage and the error taxonomy shared by the parser and the
// resolver.
//
// A Fragment is one configuration file's parsed content: its ordered include
// references, its ordered bindings, and its macro definitions. The resolver
// package merges a DAG of Fragments into a single resolved.Config. Concrete
// Loader implementations, such as for the gin dialect, live in separate
// packages.
package fragment
