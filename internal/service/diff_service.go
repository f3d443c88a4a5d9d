package service

import (
	"sort"
	"strconv"

	"github.com/haierkeys/deck-diff/internal/domain"

	"go.uber.org/zap"
)

// DiffService classifies per-note changes between two parsed snapshots.
type DiffService interface {
	Compute(old, new *domain.Snapshot) ([]*domain.NoteChange, error)
}

type diffService struct {
	logger *zap.Logger
}

// NewDiffService creates a DiffService instance.
func NewDiffService(logger *zap.Logger) DiffService {
	return &diffService{logger: logger}
}

// flatNote is one note recorded in depth-first first-seen order.
type flatNote struct {
	note *domain.Note
	path string
}

// Compute flattens both trees by GUID and classifies every note as Added,
// Removed or Modified. Fully equal notes emit nothing. Added and Modified
// entries follow first-seen order in the new tree, Removed entries follow
// first-seen order in the old tree; reruns over identical input produce an
// identical sequence. A note whose model reference changed between the
// snapshots splits into a Removed plus an Added entry.
func (s *diffService) Compute(old, new *domain.Snapshot) ([]*domain.NoteChange, error) {
	oldNotes, oldOrder := flatten(old)
	newNotes, newOrder := flatten(new)

	var changes []*domain.NoteChange
	for _, guid := range newOrder {
		after := newNotes[guid]
		model := new.Model(after.note.ModelID)
		if model == nil {
			return nil, &domain.MissingNoteModelError{GUID: guid, ModelID: after.note.ModelID}
		}

		before, existed := oldNotes[guid]
		if !existed || before.note.ModelID != after.note.ModelID {
			changes = append(changes, &domain.NoteChange{
				Kind:     domain.ChangeAdded,
				New:      after.note,
				Model:    model,
				DeckPath: after.path,
			})
			continue
		}
		if notesEqual(before.note, after.note) {
			continue
		}
		changes = append(changes, &domain.NoteChange{
			Kind:     domain.ChangeModified,
			Old:      before.note,
			New:      after.note,
			Model:    model,
			DeckPath: after.path,
			Fields:   fieldDiffs(before.note, after.note, model),
		})
	}

	for _, guid := range oldOrder {
		before := oldNotes[guid]
		after, existed := newNotes[guid]
		if existed && after.note.ModelID == before.note.ModelID {
			continue
		}
		model := old.Model(before.note.ModelID)
		if model == nil {
			return nil, &domain.MissingNoteModelError{GUID: guid, ModelID: before.note.ModelID}
		}
		changes = append(changes, &domain.NoteChange{
			Kind:     domain.ChangeRemoved,
			Old:      before.note,
			Model:    model,
			DeckPath: before.path,
		})
	}

	s.logger.Debug("changes classified",
		zap.Int("total", len(changes)),
		zap.Int("oldNotes", len(oldNotes)),
		zap.Int("newNotes", len(newNotes)))
	return changes, nil
}

// flatten walks the tree depth-first and records each note with its deck
// path and first-seen position.
func flatten(snap *domain.Snapshot) (map[string]flatNote, []string) {
	notes := make(map[string]flatNote)
	var order []string
	var walk func(d *domain.Deck, parent string)
	walk = func(d *domain.Deck, parent string) {
		path := d.Name
		if parent != "" {
			path = parent + "::" + d.Name
		}
		for _, n := range d.Notes {
			notes[n.GUID] = flatNote{note: n, path: path}
			order = append(order, n.GUID)
		}
		for _, child := range d.Children {
			walk(child, path)
		}
	}
	if snap != nil && snap.Root != nil {
		walk(snap.Root, "")
	}
	return notes, order
}

func notesEqual(a, b *domain.Note) bool {
	if len(a.Fields) != len(b.Fields) {
		return false
	}
	for i := range a.Fields {
		if a.Fields[i] != b.Fields[i] {
			return false
		}
	}
	return tagsEqual(a.Tags, b.Tags)
}

// tagsEqual compares tag sets ignoring order; reordering tags is
// presentation noise, not a change.
func tagsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// fieldDiffs compares values index-aligned against the model's field
// order. A value present on one side only is Added or Removed, which keeps
// a missing value distinct from an empty string.
func fieldDiffs(old, new *domain.Note, model *domain.NoteModel) []domain.FieldDiff {
	count := len(old.Fields)
	if len(new.Fields) > count {
		count = len(new.Fields)
	}

	var diffs []domain.FieldDiff
	for i := 0; i < count; i++ {
		name := fieldName(model, i)
		switch {
		case i >= len(old.Fields):
			diffs = append(diffs, domain.FieldDiff{Name: name, New: new.Fields[i], Kind: domain.FieldAdded})
		case i >= len(new.Fields):
			diffs = append(diffs, domain.FieldDiff{Name: name, Old: old.Fields[i], Kind: domain.FieldRemoved})
		case old.Fields[i] != new.Fields[i]:
			diffs = append(diffs, domain.FieldDiff{Name: name, Old: old.Fields[i], New: new.Fields[i], Kind: domain.FieldChanged})
		}
	}
	return diffs
}

func fieldName(model *domain.NoteModel, i int) string {
	if i < len(model.Fields) {
		return model.Fields[i]
	}
	return "Field " + strconv.Itoa(i+1)
}
