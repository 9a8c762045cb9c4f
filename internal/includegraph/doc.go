// Package includegraph models the directed graph formed by fragments and
// their include directives. The resolver builds one graph per resolution and
// uses it to reject circular includes before merging bindings.
package includegraph
