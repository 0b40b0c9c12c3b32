// Package manifest reads Python package manifests.
//
// Two formats identify a package directory: pyproject.toml (primary) and
// setup.py (legacy fallback, consulted only when pyproject.toml is absent).
// A manifest that yields no package name does not make its directory a
// package. The package also loads the consuming project's declared
// dependencies from its pyproject.toml.
package manifest
