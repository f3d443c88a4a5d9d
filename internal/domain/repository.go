package domain

// CommitInfo is revision metadata for the report header.
type CommitInfo struct {
	Hash      string
	ShortHash string
	Message   string
	Author    string
	Email     string
	Date      string
}

// RevisionLoader supplies raw snapshot bytes from version-control history.
type RevisionLoader interface {
	// Load returns the content of path at revision.
	// Returns ErrNotFound when the path does not exist at that revision.
	Load(path string, revision string) ([]byte, error)
	// ParentRevision resolves the first parent of revision.
	// Returns ErrNoParentRevision for a root commit.
	ParentRevision(revision string) (string, error)
	// CommitInfo returns display metadata for revision.
	CommitInfo(revision string) (*CommitInfo, error)
}

// MediaResolver maps a referenced media filename to an output-relative
// path. The core only consumes the mapping, it never touches files.
type MediaResolver interface {
	Resolve(filename string) string
}
