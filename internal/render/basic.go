package render

import "github.com/haierkeys/deck-diff/internal/domain"

// basicRenderer substitutes the side's format string directly.
type basicRenderer struct {
	model *domain.NoteModel
}

func (r *basicRenderer) Render(note *domain.Note, ctx Context) (string, error) {
	return renderSide(r.model, note, ctx)
}

// clozeRenderer renders cloze notes. Reveal semantics live in the engine:
// the marker matching the revealed index follows the side, every other
// marker always shows its answer.
type clozeRenderer struct {
	model *domain.NoteModel
}

func (r *clozeRenderer) Render(note *domain.Note, ctx Context) (string, error) {
	return renderSide(r.model, note, ctx)
}
