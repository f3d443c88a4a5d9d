package render

import (
	"html"
	"strings"

	"github.com/haierkeys/deck-diff/internal/domain"
	"github.com/haierkeys/deck-diff/pkg/template"
)

// multiFieldRenderer ignores the front/back split and renders every model
// field as a labeled grid cell. Cells whose field appears in the change's
// diff carry a changed flag.
type multiFieldRenderer struct {
	model *domain.NoteModel
}

func (r *multiFieldRenderer) Render(note *domain.Note, ctx Context) (string, error) {
	opts := template.Options{
		Tags:          note.Tags,
		IsAnswer:      ctx.Side == SideBack,
		RevealedCloze: ctx.RevealedCloze,
	}

	var b strings.Builder
	b.WriteString(`<div class="field-grid">`)
	for i, name := range r.model.Fields {
		value := ""
		if i < len(note.Fields) {
			value = note.Fields[i]
		}
		cell := `<div class="field-cell`
		if ctx.ChangedFields[name] {
			cell += ` changed`
		}
		b.WriteString(cell + `">`)
		b.WriteString(`<div class="field-label">` + html.EscapeString(name) + `</div>`)
		// Field values are card HTML; only their cloze markers expand.
		b.WriteString(`<div class="field-value">` + template.ExpandClozeMarkers(value, opts) + `</div>`)
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String(), nil
}
