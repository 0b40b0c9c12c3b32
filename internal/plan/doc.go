// Package plan reads and writes resolution plan files.
// A plan records the per-dependency decisions of one resolve run so the
// host resolver can consume the rewritten dependency list.
package plan
