package storage

// Persistence

type WriteResult struct {
	digest string // identity; the filename is derived from it
	path   string
	lines  int
}

func NewWriteResult(
	digest string,
	path string,
	lines int,
) WriteResult {
	return WriteResult{
		digest: digest,
		path:   path,
		lines:  lines,
	}
}

func (w *WriteResult) Digest() string {
	return w.digest
}

func (w *WriteResult) Path() string {
	return w.path
}

func (w *WriteResult) Lines() int {
	return w.lines
}
