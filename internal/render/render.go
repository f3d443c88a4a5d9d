// Package render provides per-note-type HTML rendering over the template
// engine. The variant set is closed: Basic, Cloze, ImageOcclusion and
// MultiField, selected once from the note model's variant tag.
package render

import (
	"github.com/haierkeys/deck-diff/internal/domain"
	"github.com/haierkeys/deck-diff/pkg/template"
)

// Side selects which card side to render.
type Side string

const (
	SideFront Side = "front"
	SideBack  Side = "back"
)

// Context carries the per-call rendering state.
type Context struct {
	Side Side
	// RevealedCloze is the cloze index under test, zero reveals all.
	RevealedCloze int
	// ChangedFields flags field names the MultiField grid marks as changed.
	ChangedFields map[string]bool
}

// Renderer renders one side of a note as an HTML fragment.
type Renderer interface {
	Render(note *domain.Note, ctx Context) (string, error)
}

// ForModel returns the renderer matching the model's variant. The variant
// is fixed at parse time, so the dispatch happens once per model.
func ForModel(model *domain.NoteModel) Renderer {
	switch model.Variant {
	case domain.VariantCloze:
		return &clozeRenderer{model: model}
	case domain.VariantImageOcclusion:
		return &occlusionRenderer{model: model}
	case domain.VariantMultiField:
		return &multiFieldRenderer{model: model}
	default:
		return &basicRenderer{model: model}
	}
}

// renderSide runs the model's first card template through the engine.
// The back side renders the front first so {{FrontSide}} can expand.
func renderSide(model *domain.NoteModel, note *domain.Note, ctx Context) (string, error) {
	if len(model.Templates) == 0 {
		return "", &template.RenderError{Reason: "note model " + model.Name + " has no card templates"}
	}
	tpl := model.Templates[0]
	fields := model.FieldMap(note)

	front, err := template.Render(tpl.Front, fields, template.Options{
		Tags:          note.Tags,
		RevealedCloze: ctx.RevealedCloze,
	})
	if err != nil {
		return "", err
	}
	if ctx.Side == SideFront {
		return front, nil
	}
	return template.Render(tpl.Back, fields, template.Options{
		Tags:          note.Tags,
		IsAnswer:      true,
		FrontSide:     front,
		RevealedCloze: ctx.RevealedCloze,
	})
}
