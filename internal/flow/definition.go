package flow

import (
	"encoding/json"
	"sort"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"gorm.io/datatypes"
)

// BuildDefinition turns stored schema rows into an ordered SurveyDefinition.
// Sections, repeat groups, questions and options are sorted by sort_order;
// ties keep their input order. A question pointing at a group that is not in
// its own section is treated as ungrouped.
func BuildDefinition(survey models.Survey, sections []models.Section) models.SurveyDefinition {
	def := models.SurveyDefinition{
		Survey:   MetaFromSurvey(survey),
		Sections: make([]models.SectionDef, 0, len(sections)),
	}

	for _, row := range sections {
		def.Sections = append(def.Sections, buildSection(row))
	}
	SortDefinition(&def)
	return def
}

func MetaFromSurvey(survey models.Survey) models.SurveyMeta {
	placement := survey.ContactInfoPlacement
	if placement == "" {
		placement = models.ContactAtEnd
	}
	return models.SurveyMeta{
		ID:                   survey.ID,
		StudyID:              survey.StudyID,
		Name:                 survey.Name,
		Status:               survey.Status,
		ContactInfoMode:      survey.ContactInfoMode,
		ContactInfoPlacement: placement,
	}
}

func buildSection(row models.Section) models.SectionDef {
	section := models.SectionDef{
		ID:           row.ID,
		Title:        row.Title,
		SortOrder:    row.SortOrder,
		RepeatGroups: make([]models.RepeatGroupDef, 0, len(row.RepeatGroups)),
		Questions:    make([]models.QuestionDef, 0, len(row.Questions)),
	}

	groupIDs := make(map[string]bool, len(row.RepeatGroups))
	for _, g := range row.RepeatGroups {
		groupIDs[g.ID] = true
		section.RepeatGroups = append(section.RepeatGroups, models.RepeatGroupDef{
			ID:             g.ID,
			Name:           g.Name,
			RepeatGroupKey: g.RepeatGroupKey,
			MinItems:       g.MinItems,
			MaxItems:       g.MaxItems,
			SortOrder:      g.SortOrder,
		})
	}

	for _, q := range row.Questions {
		question := models.QuestionDef{
			ID:             q.ID,
			Type:           q.Type,
			Label:          q.Label,
			HelperText:     q.HelperText,
			Required:       q.Required,
			RepeatGroupKey: q.RepeatGroupKey,
			GroupID:        q.GroupID,
			SortOrder:      q.SortOrder,
			ConfigJSON:     decodeConfig(q.ConfigJSON),
			Options:        make([]models.OptionDef, 0, len(q.Options)),
		}
		if question.GroupID != nil && !groupIDs[*question.GroupID] {
			question.GroupID = nil
			question.RepeatGroupKey = nil
		}
		for _, o := range q.Options {
			question.Options = append(question.Options, models.OptionDef{
				ID:        o.ID,
				Value:     o.Value,
				Label:     o.Label,
				SortOrder: o.SortOrder,
			})
		}
		section.Questions = append(section.Questions, question)
	}
	return section
}

func decodeConfig(raw datatypes.JSON) datatypes.JSONMap {
	if len(raw) == 0 {
		return datatypes.JSONMap{}
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return datatypes.JSONMap{}
	}
	return datatypes.JSONMap(m)
}

// SortDefinition orders every level of def by sort_order in place.
func SortDefinition(def *models.SurveyDefinition) {
	sort.SliceStable(def.Sections, func(i, j int) bool {
		return def.Sections[i].SortOrder < def.Sections[j].SortOrder
	})
	for i := range def.Sections {
		s := &def.Sections[i]
		sort.SliceStable(s.RepeatGroups, func(a, b int) bool {
			return s.RepeatGroups[a].SortOrder < s.RepeatGroups[b].SortOrder
		})
		sort.SliceStable(s.Questions, func(a, b int) bool {
			return s.Questions[a].SortOrder < s.Questions[b].SortOrder
		})
		for k := range s.Questions {
			q := &s.Questions[k]
			sort.SliceStable(q.Options, func(a, b int) bool {
				return q.Options[a].SortOrder < q.Options[b].SortOrder
			})
		}
	}
}

// SectionByID returns the section with id, or nil.
func SectionByID(def *models.SurveyDefinition, id string) *models.SectionDef {
	for i := range def.Sections {
		if def.Sections[i].ID == id {
			return &def.Sections[i]
		}
	}
	return nil
}

// QuestionIndex maps question ids to their section and question.
type QuestionIndex map[string]QuestionRef

type QuestionRef struct {
	Section  *models.SectionDef
	Question *models.QuestionDef
	// Position is the question's place in definition order.
	Position int
}

func IndexQuestions(def *models.SurveyDefinition) QuestionIndex {
	idx := QuestionIndex{}
	pos := 0
	for i := range def.Sections {
		s := &def.Sections[i]
		for k := range s.Questions {
			idx[s.Questions[k].ID] = QuestionRef{Section: s, Question: &s.Questions[k], Position: pos}
			pos++
		}
	}
	return idx
}

func QuestionByID(section *models.SectionDef, id string) (*models.QuestionDef, int) {
	for i := range section.Questions {
		if section.Questions[i].ID == id {
			return &section.Questions[i], i
		}
	}
	return nil, -1
}
