package services

import (
	"sort"
	"strings"

	"github.com/SAP-F-2025/survey-service/internal/flow"
	"github.com/SAP-F-2025/survey-service/internal/models"
	"gorm.io/datatypes"
)

// SectionsFromDocument converts an imported document into editor sections,
// ordered by their sort_order where given. Sections that tag questions with
// repeat keys but declare no repeat groups get one group per distinct key.
func SectionsFromDocument(doc *DefinitionDocument) []models.SectionDef {
	sections := make([]models.SectionDef, 0, len(doc.Sections))
	order := orderedIndexes(len(doc.Sections), func(i int) *int { return doc.Sections[i].SortOrder })
	for i, si := range order {
		ds := doc.Sections[si]
		section := models.SectionDef{
			Title:        ds.Title,
			SortOrder:    i + 1,
			RepeatGroups: make([]models.RepeatGroupDef, 0, len(ds.RepeatGroups)),
			Questions:    make([]models.QuestionDef, 0, len(ds.Questions)),
		}

		for gi, dg := range ds.RepeatGroups {
			key := strings.TrimSpace(dg.RepeatGroupKey)
			section.RepeatGroups = append(section.RepeatGroups, models.RepeatGroupDef{
				Name:           dg.Name,
				RepeatGroupKey: key,
				MinItems:       intOr(dg.MinItems, 1),
				MaxItems:       intOr(dg.MaxItems, flow.DefaultMaxItems(key)),
				SortOrder:      gi + 1,
			})
		}

		questionOrder := orderedIndexes(len(ds.Questions), func(i int) *int { return ds.Questions[i].SortOrder })
		for qi, idx := range questionOrder {
			section.Questions = append(section.Questions, questionFromDocument(ds.Questions[idx], qi+1))
		}

		if len(section.RepeatGroups) == 0 {
			section.RepeatGroups = synthesizeGroups(section.Questions)
		}
		sections = append(sections, section)
	}
	return sections
}

func questionFromDocument(dq DocumentQuestion, order int) models.QuestionDef {
	question := models.QuestionDef{
		Type:           dq.Type,
		Label:          dq.Label,
		HelperText:     dq.HelperText,
		Required:       dq.Required,
		RepeatGroupKey: dq.RepeatGroupKey,
		SortOrder:      order,
		ConfigJSON:     datatypes.JSONMap(dq.ConfigJSON),
		Options:        make([]models.OptionDef, 0, len(dq.Options)),
	}

	for oi, idx := range orderedIndexes(len(dq.Options), func(i int) *int { return dq.Options[i].SortOrder }) {
		do := dq.Options[idx]
		question.Options = append(question.Options, models.OptionDef{
			Value:     do.Value,
			Label:     do.Label,
			SortOrder: oi + 1,
		})
	}
	return question
}

// synthesizeGroups builds one repeat group per distinct question key, in
// first-seen order, with default bounds.
func synthesizeGroups(questions []models.QuestionDef) []models.RepeatGroupDef {
	groups := []models.RepeatGroupDef{}
	seen := map[string]bool{}
	for _, q := range questions {
		if q.Type == models.QuestionInfo || q.RepeatGroupKey == nil {
			continue
		}
		key := strings.TrimSpace(*q.RepeatGroupKey)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		groups = append(groups, models.RepeatGroupDef{
			Name:           key,
			RepeatGroupKey: key,
			MinItems:       1,
			MaxItems:       flow.DefaultMaxItems(key),
			SortOrder:      len(groups) + 1,
		})
	}
	return groups
}

// DocumentFromDefinition renders a stored survey in the portable format.
func DocumentFromDefinition(survey *models.Survey, def *models.SurveyDefinition) *DefinitionDocument {
	doc := &DefinitionDocument{
		Survey: DocumentSurvey{
			Name:       survey.Name,
			IsTemplate: survey.IsTemplate,
		},
		Sections: make([]DocumentSection, 0, len(def.Sections)),
	}
	if survey.ContactInfoMode != nil {
		mode := string(*survey.ContactInfoMode)
		doc.Survey.ContactInfoMode = &mode
	}
	placement := string(def.Survey.ContactInfoPlacement)
	doc.Survey.ContactInfoPlacement = &placement

	for _, section := range def.Sections {
		sortOrder := section.SortOrder
		ds := DocumentSection{
			Title:     section.Title,
			SortOrder: &sortOrder,
			Questions: make([]DocumentQuestion, 0, len(section.Questions)),
		}
		for _, group := range section.RepeatGroups {
			minItems, maxItems := group.MinItems, group.MaxItems
			ds.RepeatGroups = append(ds.RepeatGroups, DocumentRepeatGroup{
				Name:           group.Name,
				RepeatGroupKey: group.RepeatGroupKey,
				MinItems:       &minItems,
				MaxItems:       &maxItems,
			})
		}
		for _, question := range section.Questions {
			qOrder := question.SortOrder
			dq := DocumentQuestion{
				Type:           question.Type,
				Label:          question.Label,
				HelperText:     question.HelperText,
				Required:       question.Required,
				RepeatGroupKey: question.RepeatGroupKey,
				SortOrder:      &qOrder,
				ConfigJSON:     map[string]interface{}(question.ConfigJSON),
			}
			for _, option := range question.Options {
				oOrder := option.SortOrder
				dq.Options = append(dq.Options, DocumentOption{
					Value:     option.Value,
					Label:     option.Label,
					SortOrder: &oOrder,
				})
			}
			ds.Questions = append(ds.Questions, dq)
		}
		doc.Sections = append(doc.Sections, ds)
	}
	return doc
}

// orderedIndexes returns 0..n-1 stably sorted by each element's sort order,
// where a missing order counts as the element's 1-based position.
func orderedIndexes(n int, order func(i int) *int) []int {
	keys := make([]int, n)
	indexes := make([]int, n)
	for i := 0; i < n; i++ {
		indexes[i] = i
		keys[i] = i + 1
		if o := order(i); o != nil {
			keys[i] = *o
		}
	}
	sort.SliceStable(indexes, func(a, b int) bool {
		return keys[indexes[a]] < keys[indexes[b]]
	})
	return indexes
}

func intOr(value *int, fallback int) int {
	if value == nil || *value < 1 {
		return fallback
	}
	return *value
}
