package render

import (
	"strings"
	"testing"

	"github.com/haierkeys/deck-diff/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func model(variant domain.RenderVariant, fields []string, tmpls ...domain.CardTemplate) *domain.NoteModel {
	return &domain.NoteModel{
		ID:        "m1",
		Name:      "Model",
		Variant:   variant,
		Fields:    fields,
		Templates: tmpls,
	}
}

func TestForModelDispatch(t *testing.T) {
	tests := []struct {
		variant domain.RenderVariant
		want    Renderer
	}{
		{domain.VariantBasic, &basicRenderer{}},
		{domain.VariantCloze, &clozeRenderer{}},
		{domain.VariantImageOcclusion, &occlusionRenderer{}},
		{domain.VariantMultiField, &multiFieldRenderer{}},
	}
	for _, tt := range tests {
		got := ForModel(model(tt.variant, nil))
		assert.IsType(t, tt.want, got)
	}
}

func TestBasicRenderSides(t *testing.T) {
	m := model(domain.VariantBasic, []string{"Front", "Back"},
		domain.CardTemplate{Front: "{{Front}}", Back: "{{FrontSide}}<hr>{{Back}}"})
	n := &domain.Note{GUID: "g1", ModelID: "m1", Fields: []string{"Q", "A"}}
	r := ForModel(m)

	front, err := r.Render(n, Context{Side: SideFront})
	require.NoError(t, err)
	assert.Equal(t, "Q", front)

	back, err := r.Render(n, Context{Side: SideBack})
	require.NoError(t, err)
	assert.Equal(t, "Q<hr>A", back)
}

func TestRenderNoTemplates(t *testing.T) {
	m := model(domain.VariantBasic, []string{"Front"})
	n := &domain.Note{GUID: "g1", Fields: []string{"Q"}}

	_, err := ForModel(m).Render(n, Context{Side: SideFront})
	require.Error(t, err)
}

func TestClozeRenderSides(t *testing.T) {
	m := model(domain.VariantCloze, []string{"Text"},
		domain.CardTemplate{Front: "{{cloze:Text}}", Back: "{{cloze:Text}}"})
	n := &domain.Note{GUID: "g1", Fields: []string{"Capital: {{c1::Bern::city}}"}}
	r := ForModel(m)

	front, err := r.Render(n, Context{Side: SideFront, RevealedCloze: 1})
	require.NoError(t, err)
	assert.Contains(t, front, "[city]")
	assert.NotContains(t, front, "Bern")

	back, err := r.Render(n, Context{Side: SideBack, RevealedCloze: 1})
	require.NoError(t, err)
	assert.Contains(t, back, "Bern")
}

func TestOcclusionRenderOverlay(t *testing.T) {
	m := model(domain.VariantImageOcclusion, []string{"Image", "Shapes"},
		domain.CardTemplate{Front: `<img src="anatomy.png">{{Shapes}}`, Back: `<img src="anatomy.png">`})
	n := &domain.Note{GUID: "g1", Fields: []string{
		"anatomy.png",
		"{{c1::image-occlusion:rect:left=.592:top=.4403:width=.0786:height=.0963}}" +
			"{{c2::image-occlusion:ellipse:left=.1:top=.2:width=.3:height=.4}}",
	}}

	front, err := ForModel(m).Render(n, Context{Side: SideFront})
	require.NoError(t, err)

	// one mask element per shape, masks occluded on the front
	assert.Equal(t, 2, strings.Count(front, "occlusion-mask"))
	assert.Contains(t, front, "occlusion-rect occluded")
	assert.Contains(t, front, "occlusion-ellipse occluded")
	assert.Contains(t, front, "left:59.20%")
	assert.Contains(t, front, `data-cloze="1"`)
	// the raw marker never reaches the output
	assert.NotContains(t, front, "image-occlusion:rect")

	back, err := ForModel(m).Render(n, Context{Side: SideBack})
	require.NoError(t, err)
	assert.Contains(t, back, "occlusion-rect revealed")
}

func TestParseShapes(t *testing.T) {
	fields := []string{
		"irrelevant",
		"{{c3::image-occlusion:rect:left=.5:top=.25:width=.1:height=.2}}",
		"{{c4::image-occlusion:polygon:left=.5}}",
		"{{c5::image-occlusion:rect:left=abc:top=.1:width=.1:height=.1}}",
	}

	shapes := ParseShapes(fields)
	require.Len(t, shapes, 2)
	assert.Equal(t, domain.OcclusionShape{Index: 3, Kind: domain.ShapeRect, Left: .5, Top: .25, Width: .1, Height: .2}, shapes[0])
	// the unparsable coordinate is skipped, the shape survives
	assert.Equal(t, 5, shapes[1].Index)
	assert.Equal(t, 0.0, shapes[1].Left)
}

func TestMultiFieldRenderGrid(t *testing.T) {
	m := model(domain.VariantMultiField, []string{"Word", "Reading", "Meaning", "Example"},
		domain.CardTemplate{Front: "{{Word}}", Back: "{{Meaning}}"})
	n := &domain.Note{GUID: "g1", Fields: []string{"犬", "いぬ", "dog", "<b>example</b>"}}

	out, err := ForModel(m).Render(n, Context{
		Side:          SideFront,
		ChangedFields: map[string]bool{"Meaning": true},
	})
	require.NoError(t, err)

	assert.Equal(t, 4, strings.Count(out, "field-cell"))
	assert.Equal(t, 1, strings.Count(out, `field-cell changed`))
	assert.Contains(t, out, `<div class="field-label">Reading</div>`)
	// field values pass through as card HTML
	assert.Contains(t, out, "<b>example</b>")
}

func TestMultiFieldRenderShortNote(t *testing.T) {
	m := model(domain.VariantMultiField, []string{"A", "B", "C", "D"},
		domain.CardTemplate{Front: "{{A}}", Back: "{{B}}"})
	n := &domain.Note{GUID: "g1", Fields: []string{"only"}}

	out, err := ForModel(m).Render(n, Context{Side: SideFront})
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(out, "field-cell"))
}
