// Package domain defines the deck domain model and collaborator interfaces.
package domain

// ModelType is the type tag carried by a note model.
type ModelType string

const (
	ModelTypeStandard       ModelType = "standard"
	ModelTypeCloze          ModelType = "cloze"
	ModelTypeImageOcclusion ModelType = "image-occlusion"
)

// RenderVariant selects one rendering capability for a note model.
// It is decided once when the model is loaded, never per render call.
type RenderVariant string

const (
	VariantBasic          RenderVariant = "basic"
	VariantCloze          RenderVariant = "cloze"
	VariantImageOcclusion RenderVariant = "image-occlusion"
	VariantMultiField     RenderVariant = "multi-field"
)

// CardTemplate is one front/back format pair of a note model.
type CardTemplate struct {
	Name  string
	Front string
	Back  string
}

// NoteModel is the schema a note is rendered against: ordered field names
// and ordered card templates.
type NoteModel struct {
	ID        string
	Name      string
	Type      ModelType
	Variant   RenderVariant
	Fields    []string
	Templates []CardTemplate
	CSS       string
}

// FieldMap maps the model's field names onto a note's ordered values.
// Indexes past the note's value list map to the empty string.
func (m *NoteModel) FieldMap(n *Note) map[string]string {
	fields := make(map[string]string, len(m.Fields))
	for i, name := range m.Fields {
		if i < len(n.Fields) {
			fields[name] = n.Fields[i]
		} else {
			fields[name] = ""
		}
	}
	return fields
}

// Note is a single flashcard: stable GUID, model reference, ordered field
// values and tags.
type Note struct {
	GUID    string
	ModelID string
	Fields  []string
	Tags    []string
}

// Deck is one node of the deck tree.
type Deck struct {
	Name       string
	UUID       string
	Notes      []*Note
	Children   []*Deck
	MediaFiles []string
}

// Snapshot is one fully parsed deck revision: the rooted tree plus the
// note models resolved by id. It is immutable after parsing and threaded
// through diff and render calls.
type Snapshot struct {
	Root   *Deck
	Models map[string]*NoteModel
}

// Model resolves a model id, nil when unknown.
func (s *Snapshot) Model(id string) *NoteModel {
	return s.Models[id]
}
