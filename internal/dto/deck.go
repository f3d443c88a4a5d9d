// Package dto holds the raw deck.json schema as decoded from a snapshot.
package dto

// Deck mirrors one deck object of the crowd export schema. Note models
// appear at the root deck only; children nest recursively.
type Deck struct {
	Name       string       `json:"name" validate:"required"`
	UUID       string       `json:"crowdanki_uuid"`
	Notes      []*Note      `json:"notes"`
	Children   []*Deck      `json:"children"`
	NoteModels []*NoteModel `json:"note_models"`
	MediaFiles []string     `json:"media_files"`
}

// NoteModel mirrors a note_models entry.
type NoteModel struct {
	UUID string      `json:"crowdanki_uuid" validate:"required"`
	Name string      `json:"name" validate:"required"`
	Type int         `json:"type"`
	Flds []*Field    `json:"flds" validate:"required,min=1,dive,required"`
	Tmpl []*Template `json:"tmpls" validate:"required,min=1,dive,required"`
	CSS  string      `json:"css"`
}

// Field mirrors a flds entry. Ord is the value index inside a note.
type Field struct {
	Name string `json:"name" validate:"required"`
	Ord  int    `json:"ord"`
}

// Template mirrors a tmpls entry.
type Template struct {
	Name  string `json:"name"`
	Ord   int    `json:"ord"`
	Front string `json:"qfmt"`
	Back  string `json:"afmt"`
}

// Note mirrors a notes entry.
type Note struct {
	GUID      string   `json:"guid" validate:"required"`
	ModelUUID string   `json:"note_model_uuid" validate:"required"`
	Fields    []string `json:"fields"`
	Tags      []string `json:"tags"`
}
