package resolver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/calltree/localresolve/internal/manifest"
	"github.com/calltree/localresolve/internal/workspace"
)

// Index is the read-only view of the workspace Intercept needs.
type Index interface {
	Has(name string) bool
	LocationOf(name string) (string, bool)
}

// versioned is implemented by *workspace.Index; decisions then record the
// local version for display only.
type versioned interface {
	Lookup(name string) (workspace.Package, bool)
}

// Interceptor rewrites declared dependencies to local paths.
type Interceptor struct {
	// ProjectDir is the consuming project. Local paths are written relative
	// to it when possible.
	ProjectDir string
	Index      Index
	Disable    DisableList
	// Off defers every dependency to remote.
	Off    bool
	Logger *zap.Logger

	localPath func(dir string) (string, error)
}

// Intercept decides every dependency in deps. On success the returned
// Result holds a rewritten copy; deps itself is never modified. On failure
// Result.Dependencies is deps and the error is a *RewriteError.
func (ic *Interceptor) Intercept(deps []manifest.Dependency) (Result, error) {
	if ic.Index == nil && !ic.Off {
		return Result{Dependencies: deps}, &RewriteError{Position: -1, Err: ErrNoIndex}
	}
	log := ic.logger()

	work := make([]manifest.Dependency, len(deps))
	decisions := make([]Decision, len(deps))
	for i, dep := range deps {
		d, err := ic.decide(dep)
		if err != nil {
			log.Error("Aborting dependency rewrite", zap.String("name", dep.Name), zap.Error(err))
			return Result{Dependencies: deps}, &RewriteError{Dependency: dep.Name, Position: i, Err: err}
		}
		work[i] = d.Result
		decisions[i] = d
	}

	for _, d := range decisions {
		switch {
		case d.Kind == KindLocal:
			log.Info("Resolving dependency to local path",
				zap.String("name", d.Name),
				zap.String("path", d.Path),
				zap.String("declared", d.Original.Constraint()),
				zap.String("local_version", d.LocalVersion))
		case d.Reason == ReasonDisabled:
			log.Debug("Local resolution disabled for dependency", zap.String("name", d.Name))
		}
	}
	return Result{Dependencies: work, Decisions: decisions}, nil
}

func (ic *Interceptor) decide(dep manifest.Dependency) (Decision, error) {
	if dep.Name == "" {
		return Decision{}, errors.New("dependency has no name")
	}

	d := Decision{
		Name:     dep.Name,
		Group:    dep.Group,
		Kind:     KindRemote,
		Original: dep.Clone(),
		Result:   dep.Clone(),
	}

	switch {
	case dep.IsInterpreter():
		d.Reason = ReasonInterpreter
		return d, nil
	case dep.IsPath():
		d.Reason = ReasonAlreadyPath
		return d, nil
	case ic.Off:
		d.Reason = ReasonOff
		return d, nil
	case ic.Disable.Contains(dep.Name):
		d.Reason = ReasonDisabled
		return d, nil
	}

	dir, ok := ic.Index.LocationOf(dep.Name)
	if !ok {
		d.Reason = ReasonNotFound
		return d, nil
	}

	ref, err := ic.pathFor(dir)
	if err != nil {
		return Decision{}, err
	}
	d.Kind = KindLocal
	d.Reason = ReasonLocalMatch
	d.Dir = dir
	d.Path = ref
	d.Result = toPath(dep, ref)
	if v, ok := ic.Index.(versioned); ok {
		if p, ok := v.Lookup(dep.Name); ok {
			d.LocalVersion = p.Version
		}
	}
	return d, nil
}

func (ic *Interceptor) pathFor(dir string) (string, error) {
	if ic.localPath != nil {
		return ic.localPath(dir)
	}
	if _, err := os.Stat(dir); err != nil {
		return "", fmt.Errorf("local package directory: %w", err)
	}
	if ic.ProjectDir == "" {
		return dir, nil
	}
	rel, err := filepath.Rel(ic.ProjectDir, dir)
	if err != nil {
		return dir, nil
	}
	return filepath.ToSlash(rel), nil
}

func (ic *Interceptor) logger() *zap.Logger {
	if ic.Logger == nil {
		return zap.NewNop()
	}
	return ic.Logger
}
