// Package resolver decides, per declared dependency, whether it is satisfied
// from a local workspace package or deferred to the remote registry.
//
// Intercept is the single entry point. It computes every decision against a
// private copy of the dependency list and only returns the rewritten copy
// once all decisions succeed; on failure the caller gets its input back
// untouched.
//
// A local match always wins over the declared version constraint: the local
// package's version is never checked. Rewritten entries become path
// dependencies, which the host's lock file does not pin by content hash.
package resolver
