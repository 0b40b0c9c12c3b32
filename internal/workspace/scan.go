package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/calltree/localresolve/internal/manifest"
	"github.com/calltree/localresolve/internal/pkgname"
)

// Scanner discovers packages under search paths.
type Scanner struct {
	Filter *Filter
	// MaxDepth is how many directory levels below each search path are
	// inspected. Zero means 1: immediate children only.
	MaxDepth int
	// Skip lists directories that are never indexed, such as the consuming project.
	Skip   []string
	Logger *zap.Logger

	onVisit func(dir string)
}

type candidate struct {
	dir  string
	root SearchPath
}

// Scan builds an Index from paths, visiting them in priority order. Only an
// unreadable explicit search path fails the scan; everything else is logged
// and skipped.
func (s *Scanner) Scan(paths []SearchPath) (*Index, error) {
	log := s.logger()
	filter := s.Filter
	if filter == nil {
		filter, _ = NewFilter(nil)
	}
	depth := s.MaxDepth
	if depth <= 0 {
		depth = 1
	}

	ordered := append([]SearchPath(nil), paths...)
	sort.SliceStable(ordered, func(a, b int) bool { return ordered[a].Priority < ordered[b].Priority })

	skip := make(map[string]bool, len(s.Skip))
	for _, d := range s.Skip {
		skip[canonical(d)] = true
	}

	idx := newIndex()
	seen := make(map[string]bool)
	for _, sp := range ordered {
		entries, err := os.ReadDir(sp.Path)
		if err != nil {
			if sp.Explicit {
				return nil, &ScanError{Path: sp.Path, Err: err}
			}
			log.Debug("Skipping unreadable default search path", zap.String("dir", sp.Path), zap.Error(err))
			continue
		}

		var dirs []string
		s.collect(sp.Path, entries, depth, filter, &dirs)
		sort.Strings(dirs)

		for _, dir := range dirs {
			if seen[dir] || skip[canonical(dir)] {
				continue
			}
			seen[dir] = true
			s.consider(idx, candidate{dir: dir, root: sp})
		}
	}

	log.Debug("Workspace scan complete", zap.Int("packages", idx.Len()), zap.Int("conflicts", len(idx.conflicts)))
	return idx, nil
}

// collect appends the non-pruned directories below parent, descending at
// most depth levels. Pruned directories are never opened.
func (s *Scanner) collect(parent string, entries []os.DirEntry, depth int, filter *Filter, out *[]string) {
	for _, e := range entries {
		dir := filepath.Join(parent, e.Name())
		if !isDir(dir, e) || filter.ShouldPrune(dir) {
			continue
		}
		if s.onVisit != nil {
			s.onVisit(dir)
		}
		*out = append(*out, dir)

		if depth <= 1 {
			continue
		}
		children, err := os.ReadDir(dir)
		if err != nil {
			s.logger().Warn("Skipping unreadable directory", zap.String("dir", dir), zap.Error(err))
			continue
		}
		s.collect(dir, children, depth-1, filter, out)
	}
}

func (s *Scanner) consider(idx *Index, c candidate) {
	log := s.logger()
	m, err := manifest.ReadPackage(c.dir)
	switch {
	case errors.Is(err, manifest.ErrNoManifest):
		return
	case err != nil:
		log.Warn("Ignoring directory with unusable manifest", zap.String("dir", c.dir), zap.Error(err))
		return
	}

	key := pkgname.Normalize(m.Name)
	kept, ok := idx.insert(Package{Package: *m, Key: key, Root: c.root.Path, Priority: c.root.Priority})
	if !ok {
		log.Warn("Duplicate local package name; keeping higher-priority location",
			zap.String("name", key),
			zap.String("kept", kept.Dir),
			zap.String("dropped", c.dir))
		return
	}
	log.Debug("Found local package", zap.String("name", m.Name), zap.String("dir", c.dir))
}

func (s *Scanner) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// isDir follows symlinks so that linked sibling checkouts are scanned.
func isDir(path string, e os.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// canonical resolves p to an absolute path with symlinks evaluated, so a
// directory reached through a link compares equal to its target.
func canonical(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}
