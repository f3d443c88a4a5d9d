package domain

// ChangeKind classifies a per-note change between two snapshots.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeRemoved  ChangeKind = "removed"
	ChangeModified ChangeKind = "modified"
)

// FieldKind classifies one field inside a modified note.
type FieldKind string

const (
	// FieldUnchanged is the idempotent case. The differ never emits it;
	// it exists for report views that show the full field table.
	FieldUnchanged FieldKind = "unchanged"
	// FieldAdded marks a value present only in the new note (distinct
	// from an empty string at the same index).
	FieldAdded   FieldKind = "added"
	FieldRemoved FieldKind = "removed"
	FieldChanged FieldKind = "changed"
)

// FieldDiff is one field-level difference of a modified note.
type FieldDiff struct {
	Name string
	Old  string
	New  string
	Kind FieldKind
}

// NoteChange is one classified per-note change. Old is set for Removed and
// Modified, New for Added and Modified. Fields is populated for Modified
// only and lists differing fields in model order. NoteChange values are
// derived per diff run and discarded after rendering.
type NoteChange struct {
	Kind     ChangeKind
	Old      *Note
	New      *Note
	Model    *NoteModel
	DeckPath string
	Fields   []FieldDiff
}

// GUID returns the join key of the changed note.
func (c *NoteChange) GUID() string {
	if c.New != nil {
		return c.New.GUID
	}
	if c.Old != nil {
		return c.Old.GUID
	}
	return ""
}

// ChangedFieldSet returns the names of fields listed in the diff.
func (c *NoteChange) ChangedFieldSet() map[string]bool {
	set := make(map[string]bool, len(c.Fields))
	for _, fd := range c.Fields {
		set[fd.Name] = true
	}
	return set
}

// RenderedCard holds both rendered sides of one note.
type RenderedCard struct {
	Front string
	Back  string
}

// FieldDiffView is a FieldDiff prepared for display, with char-level
// highlight applied to the old and new values.
type FieldDiffView struct {
	Name string
	Kind FieldKind
	Old  string
	New  string
}

// ReportEntry is one aggregated, fully rendered change ready for the page
// writer. Before is set for Removed/Modified, After for Added/Modified.
type ReportEntry struct {
	Kind      ChangeKind
	GUID      string
	DeckPath  string
	ModelName string
	Tags      []string
	Before    *RenderedCard
	After     *RenderedCard
	Fields    []FieldDiffView
}
