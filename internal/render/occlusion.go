package render

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/haierkeys/deck-diff/internal/domain"
)

// occlusionRenderer draws one positioned overlay element per occlusion
// shape on top of the templated card. The front shows masks opaque, the
// back shows them as outlines over the revealed image.
type occlusionRenderer struct {
	model *domain.NoteModel
}

var shapeRe = regexp.MustCompile(`\{\{c(\d+)::image-occlusion:(\w+):(.*?)\}\}`)

func (r *occlusionRenderer) Render(note *domain.Note, ctx Context) (string, error) {
	base, err := renderSide(r.model, note, ctx)
	if err != nil {
		return "", err
	}

	shapes := ParseShapes(note.Fields)
	if len(shapes) == 0 {
		return base, nil
	}

	state := "occluded"
	if ctx.Side == SideBack {
		state = "revealed"
	}
	var b strings.Builder
	b.WriteString(base)
	b.WriteString(`<div class="occlusion-overlay">`)
	for _, shape := range shapes {
		b.WriteString(`<div class="occlusion-mask occlusion-` + string(shape.Kind) + " " + state + `"`)
		b.WriteString(` data-cloze="` + strconv.Itoa(shape.Index) + `"`)
		b.WriteString(` style="left:` + pct(shape.Left) + `;top:` + pct(shape.Top))
		b.WriteString(`;width:` + pct(shape.Width) + `;height:` + pct(shape.Height) + `"></div>`)
	}
	b.WriteString(`</div>`)
	return b.String(), nil
}

// ParseShapes extracts the ordered occlusion shape list from the note's
// field values. Unknown shape kinds and unparsable coordinates are
// skipped rather than failing the note.
func ParseShapes(fields []string) []domain.OcclusionShape {
	var shapes []domain.OcclusionShape
	for _, field := range fields {
		for _, m := range shapeRe.FindAllStringSubmatch(field, -1) {
			kind := domain.ShapeKind(m[2])
			if kind != domain.ShapeRect && kind != domain.ShapeEllipse {
				continue
			}
			idx, _ := strconv.Atoi(m[1])
			shape := domain.OcclusionShape{Index: idx, Kind: kind}
			for _, param := range strings.Split(m[3], ":") {
				key, value, ok := strings.Cut(param, "=")
				if !ok {
					continue
				}
				f, err := strconv.ParseFloat(value, 64)
				if err != nil {
					continue
				}
				switch key {
				case "left":
					shape.Left = f
				case "top":
					shape.Top = f
				case "width":
					shape.Width = f
				case "height":
					shape.Height = f
				}
			}
			shapes = append(shapes, shape)
		}
	}
	return shapes
}

func pct(f float64) string {
	return strconv.FormatFloat(f*100, 'f', 2, 64) + "%"
}
