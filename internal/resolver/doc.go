// Package resolver turns an entry fragment into a resolved.Config.
//
// Resolution happens in three phases. Discovery loads every fragment
// reachable from the entry exactly once and records the include edges in an
// includegraph, which then rejects circular includes. The merge walks the
// include graph post-order — each fragment's includes contribute before its
// own bindings, in directive order — and applies bindings last-write-wins
// into a flat mapping. Finally, macro references are substituted against the
// merged macro table.
//
// Each Resolve call is synchronous, independent, and free of side effects
// beyond read-only file access through the fragment loader.
package resolver
