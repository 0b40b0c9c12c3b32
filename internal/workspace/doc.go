// Package workspace discovers sibling Python packages on disk.
//
// A Scanner walks ordered search paths, pruning excluded directories before
// descending, and builds an immutable Index from normalized package name to
// the single chosen local package. Session builds that Index at most once.
package workspace
