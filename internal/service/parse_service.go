// Package service implements the deck diff core: parsing, change
// classification and report assembly.
package service

import (
	"sort"
	"strings"

	"github.com/haierkeys/deck-diff/internal/domain"
	"github.com/haierkeys/deck-diff/internal/dto"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/jinzhu/copier"
	"go.uber.org/zap"
)

// ParseService turns raw snapshot bytes into a typed deck snapshot.
type ParseService interface {
	Parse(raw []byte) (*domain.Snapshot, error)
}

type parseService struct {
	validate *validator.Validate
	logger   *zap.Logger
}

// NewParseService creates a ParseService instance.
func NewParseService(logger *zap.Logger) ParseService {
	return &parseService{
		validate: validator.New(),
		logger:   logger,
	}
}

// Parse decodes one deck.json snapshot, resolves every note's model
// reference and returns an immutable snapshot. Structural violations fail
// the run with a ParseError identifying the offending element; an
// unresolved model reference fails with MissingNoteModelError.
func (s *parseService) Parse(raw []byte) (*domain.Snapshot, error) {
	var root dto.Deck
	if err := sonic.Unmarshal(raw, &root); err != nil {
		return nil, &domain.ParseError{Reason: "malformed snapshot JSON", Err: err}
	}

	models, err := s.buildModels(root.NoteModels)
	if err != nil {
		return nil, err
	}

	snap := &domain.Snapshot{Models: models}
	seenDecks := make(map[string]bool)
	seenGUIDs := make(map[string]bool)
	snap.Root, err = s.buildDeck(&root, "", snap, seenDecks, seenGUIDs)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("snapshot parsed",
		zap.String("deck", snap.Root.Name),
		zap.Int("models", len(models)),
		zap.Int("notes", len(seenGUIDs)))
	return snap, nil
}

func (s *parseService) buildModels(raw []*dto.NoteModel) (map[string]*domain.NoteModel, error) {
	models := make(map[string]*domain.NoteModel, len(raw))
	for _, nm := range raw {
		if err := s.validate.Struct(nm); err != nil {
			name := nm.Name
			if name == "" {
				name = nm.UUID
			}
			return nil, &domain.ParseError{Reason: "invalid note model " + name, Err: err}
		}
		if _, ok := models[nm.UUID]; ok {
			return nil, &domain.ParseError{Reason: "duplicate note model id " + nm.UUID}
		}

		model := &domain.NoteModel{
			ID:   nm.UUID,
			Name: nm.Name,
			Type: modelType(nm),
			CSS:  nm.CSS,
		}

		// Field names ordered by their declared ordinal, which is the
		// index into each note's value list.
		flds := make([]*dto.Field, len(nm.Flds))
		copy(flds, nm.Flds)
		sort.SliceStable(flds, func(i, j int) bool { return flds[i].Ord < flds[j].Ord })
		for _, f := range flds {
			model.Fields = append(model.Fields, f.Name)
		}

		tmpls := make([]*dto.Template, len(nm.Tmpl))
		copy(tmpls, nm.Tmpl)
		sort.SliceStable(tmpls, func(i, j int) bool { return tmpls[i].Ord < tmpls[j].Ord })
		if err := copier.Copy(&model.Templates, tmpls); err != nil {
			return nil, &domain.ParseError{Reason: "invalid templates in note model " + nm.Name, Err: err}
		}

		model.Variant = selectVariant(model)
		models[nm.UUID] = model
	}
	return models, nil
}

func (s *parseService) buildDeck(raw *dto.Deck, parentPath string, snap *domain.Snapshot, seenDecks, seenGUIDs map[string]bool) (*domain.Deck, error) {
	if err := s.validate.Struct(raw); err != nil {
		return nil, &domain.ParseError{Deck: parentPath, Reason: "invalid deck object", Err: err}
	}
	path := raw.Name
	if parentPath != "" {
		path = parentPath + "::" + raw.Name
	}
	if raw.UUID != "" {
		if seenDecks[raw.UUID] {
			return nil, &domain.ParseError{Deck: path, Reason: "deck " + raw.UUID + " appears twice, tree shape violated"}
		}
		seenDecks[raw.UUID] = true
	}

	deck := &domain.Deck{
		Name:       raw.Name,
		UUID:       raw.UUID,
		MediaFiles: raw.MediaFiles,
	}

	for _, n := range raw.Notes {
		if err := s.validate.Struct(n); err != nil {
			return nil, &domain.ParseError{Deck: path, GUID: n.GUID, Reason: "invalid note object", Err: err}
		}
		if seenGUIDs[n.GUID] {
			return nil, &domain.ParseError{Deck: path, GUID: n.GUID, Reason: "duplicate note GUID"}
		}
		seenGUIDs[n.GUID] = true

		model := snap.Model(n.ModelUUID)
		if model == nil {
			return nil, &domain.MissingNoteModelError{GUID: n.GUID, ModelID: n.ModelUUID}
		}
		if len(n.Fields) != len(model.Fields) {
			return nil, &domain.ParseError{Deck: path, GUID: n.GUID,
				Reason: "field value count does not match note model " + model.Name}
		}
		deck.Notes = append(deck.Notes, &domain.Note{
			GUID:    n.GUID,
			ModelID: n.ModelUUID,
			Fields:  n.Fields,
			Tags:    n.Tags,
		})
	}

	for _, child := range raw.Children {
		sub, err := s.buildDeck(child, path, snap, seenDecks, seenGUIDs)
		if err != nil {
			return nil, err
		}
		deck.Children = append(deck.Children, sub)
	}
	return deck, nil
}

func modelType(nm *dto.NoteModel) domain.ModelType {
	if nm.Type == 1 {
		return domain.ModelTypeCloze
	}
	name := strings.ToLower(nm.Name)
	if strings.Contains(name, "image") && strings.Contains(name, "occlusion") {
		return domain.ModelTypeImageOcclusion
	}
	return domain.ModelTypeStandard
}

// selectVariant picks the rendering variant once per model. Standard
// models with many fields or several templates render as a field grid.
func selectVariant(m *domain.NoteModel) domain.RenderVariant {
	switch m.Type {
	case domain.ModelTypeCloze:
		return domain.VariantCloze
	case domain.ModelTypeImageOcclusion:
		return domain.VariantImageOcclusion
	}
	if len(m.Fields) > 3 || len(m.Templates) > 1 {
		return domain.VariantMultiField
	}
	return domain.VariantBasic
}
