// Package structure prepares edited survey structures for persistence.
package structure

import (
	"strings"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/validator"
	"gorm.io/datatypes"
)

// Normalizer validates raw editor sections and then normalizes them.
type Normalizer struct {
	validator *validator.StructureValidator
}

func NewNormalizer(v *validator.StructureValidator) *Normalizer {
	return &Normalizer{validator: v}
}

// Prepare rejects invalid input before anything is normalized or persisted.
func (n *Normalizer) Prepare(sections []models.SectionDef) ([]models.SectionDef, error) {
	if err := n.validator.ValidateSections(sections); err != nil {
		return nil, err
	}
	return Normalize(sections), nil
}

// Normalize returns a copy of sections with dense sort orders, trimmed text,
// clamped repeat bounds and resolved repeat group references. The input is
// left untouched.
func Normalize(sections []models.SectionDef) []models.SectionDef {
	out := make([]models.SectionDef, 0, len(sections))
	for i, section := range sections {
		out = append(out, normalizeSection(section, i+1))
	}
	return out
}

func normalizeSection(section models.SectionDef, order int) models.SectionDef {
	normalized := models.SectionDef{
		ID:           section.ID,
		Title:        strings.TrimSpace(section.Title),
		SortOrder:    order,
		RepeatGroups: make([]models.RepeatGroupDef, 0, len(section.RepeatGroups)),
		Questions:    make([]models.QuestionDef, 0, len(section.Questions)),
	}

	for i, group := range section.RepeatGroups {
		normalized.RepeatGroups = append(normalized.RepeatGroups, normalizeGroup(group, i+1))
	}
	for i, question := range section.Questions {
		normalized.Questions = append(normalized.Questions,
			normalizeQuestion(question, normalized.RepeatGroups, i+1))
	}
	return normalized
}

func normalizeGroup(group models.RepeatGroupDef, order int) models.RepeatGroupDef {
	minItems := group.MinItems
	if minItems < 1 {
		minItems = 1
	}
	maxItems := group.MaxItems
	if maxItems < minItems {
		maxItems = minItems
	}
	return models.RepeatGroupDef{
		ID:             group.ID,
		Name:           strings.TrimSpace(group.Name),
		RepeatGroupKey: strings.TrimSpace(group.RepeatGroupKey),
		MinItems:       minItems,
		MaxItems:       maxItems,
		SortOrder:      order,
	}
}

func normalizeQuestion(question models.QuestionDef, groups []models.RepeatGroupDef, order int) models.QuestionDef {
	normalized := models.QuestionDef{
		ID:         question.ID,
		Type:       question.Type,
		Label:      strings.TrimSpace(question.Label),
		HelperText: trimmedOrNil(question.HelperText),
		Required:   question.Required,
		SortOrder:  order,
		ConfigJSON: question.ConfigJSON,
		Options:    make([]models.OptionDef, 0, len(question.Options)),
	}
	if normalized.ConfigJSON == nil {
		normalized.ConfigJSON = datatypes.JSONMap{}
	}

	if group := ResolveGroup(groups, question.GroupID, question.RepeatGroupKey); group != nil {
		key := group.RepeatGroupKey
		normalized.RepeatGroupKey = &key
		if group.ID != "" {
			id := group.ID
			normalized.GroupID = &id
		}
	}

	if question.Type == models.QuestionInfo {
		normalized.Required = false
		normalized.RepeatGroupKey = nil
		normalized.GroupID = nil
	}

	for i, option := range question.Options {
		normalized.Options = append(normalized.Options, models.OptionDef{
			ID:        option.ID,
			Value:     strings.TrimSpace(option.Value),
			Label:     strings.TrimSpace(option.Label),
			SortOrder: i + 1,
		})
	}
	return normalized
}

// ResolveGroup finds the repeat group a question points at, by group id first
// and by repeat group key otherwise. It returns nil when nothing matches.
func ResolveGroup(groups []models.RepeatGroupDef, groupID, key *string) *models.RepeatGroupDef {
	if groupID != nil && *groupID != "" {
		for i := range groups {
			if groups[i].ID == *groupID {
				return &groups[i]
			}
		}
	}
	if key != nil {
		trimmed := strings.TrimSpace(*key)
		if trimmed == "" {
			return nil
		}
		for i := range groups {
			if strings.TrimSpace(groups[i].RepeatGroupKey) == trimmed {
				return &groups[i]
			}
		}
	}
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
