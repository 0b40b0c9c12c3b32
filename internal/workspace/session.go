package workspace

// Session owns the Index for one invocation. The Index is built on the
// first call to Index and reused afterwards; it is never persisted.
type Session struct {
	scanner *Scanner
	paths   []SearchPath

	built bool
	index *Index
	err   error
}

// NewSession prepares a session that scans paths with scanner.
func NewSession(scanner *Scanner, paths []SearchPath) *Session {
	return &Session{scanner: scanner, paths: append([]SearchPath(nil), paths...)}
}

// Index returns the session's Index, scanning on first use. A failed scan
// is not retried within the session.
func (s *Session) Index() (*Index, error) {
	if !s.built {
		s.index, s.err = s.scanner.Scan(s.paths)
		s.built = true
	}
	return s.index, s.err
}

// SearchPaths returns the session's traversal roots in priority order.
func (s *Session) SearchPaths() []SearchPath {
	return append([]SearchPath(nil), s.paths...)
}
