// Package git reads the checkout state of local packages through the Git
// CLI. It never modifies a repository.
package git
