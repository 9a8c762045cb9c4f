// Package resolved defines the immutable, flattened configuration produced
// by the resolver: one typed value per dotted key, in first-binding order.
//
// Consumers read it two ways. Typed getters (String, Bool, Int, Float) look
// up a single key and convert it. Decode populates an entire consumer struct
// from `gin:"field"` tags against one target, forming the single,
// statically-typed translation boundary between the merged configuration and
// Go code.
package resolved
