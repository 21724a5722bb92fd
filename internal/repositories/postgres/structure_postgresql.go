package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/repositories"
	"github.com/SAP-F-2025/survey-service/internal/structure"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StructurePostgreSQL struct {
	db *gorm.DB
}

func NewStructurePostgreSQL(db *gorm.DB) repositories.StructureRepository {
	return &StructurePostgreSQL{db: db}
}

// LoadSections retrieves every section of a survey with nested rows
func (s *StructurePostgreSQL) LoadSections(ctx context.Context, tx *gorm.DB, surveyID string) ([]models.Section, error) {
	var sections []models.Section
	err := s.getDB(tx).WithContext(ctx).
		Where("survey_id = ?", surveyID).
		Preload("RepeatGroups", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Order("sort_order ASC").
		Find(&sections).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load sections: %w", err)
	}
	return sections, nil
}

// ReplaceStructure drops the current sections of a survey and inserts new
// rows. Repeat groups get fresh ids, so question references are remapped by
// editor id first and by repeat group key otherwise.
func (s *StructurePostgreSQL) ReplaceStructure(ctx context.Context, tx *gorm.DB, surveyID string, sections []models.SectionDef) error {
	db := s.getDB(tx).WithContext(ctx)

	if err := s.deleteStructure(db, surveyID); err != nil {
		return err
	}

	for _, def := range sections {
		section := models.Section{
			SurveyID:  surveyID,
			Title:     def.Title,
			SortOrder: def.SortOrder,
		}
		if err := db.Create(&section).Error; err != nil {
			return fmt.Errorf("failed to create section: %w", err)
		}

		groupIDsByKey := make(map[string]string, len(def.RepeatGroups))
		for _, groupDef := range def.RepeatGroups {
			group := models.RepeatGroup{
				SectionID:      section.ID,
				Name:           groupDef.Name,
				RepeatGroupKey: groupDef.RepeatGroupKey,
				MinItems:       orDefault(groupDef.MinItems, 1),
				MaxItems:       orDefault(groupDef.MaxItems, 10),
				SortOrder:      groupDef.SortOrder,
			}
			if err := db.Create(&group).Error; err != nil {
				return fmt.Errorf("failed to create repeat group: %w", err)
			}
			groupIDsByKey[group.RepeatGroupKey] = group.ID
		}

		for _, questionDef := range def.Questions {
			question, err := questionRow(section.ID, def.RepeatGroups, groupIDsByKey, questionDef)
			if err != nil {
				return err
			}
			if err := db.Create(question).Error; err != nil {
				return fmt.Errorf("failed to create question: %w", err)
			}

			if len(questionDef.Options) == 0 {
				continue
			}
			options := make([]models.QuestionOption, 0, len(questionDef.Options))
			for _, option := range questionDef.Options {
				options = append(options, models.QuestionOption{
					QuestionID: question.ID,
					Value:      option.Value,
					Label:      option.Label,
					SortOrder:  option.SortOrder,
				})
			}
			if err := db.Create(&options).Error; err != nil {
				return fmt.Errorf("failed to create question options: %w", err)
			}
		}
	}
	return nil
}

func (s *StructurePostgreSQL) deleteStructure(db *gorm.DB, surveyID string) error {
	sectionIDs := db.Model(&models.Section{}).Select("id").Where("survey_id = ?", surveyID)
	questionIDs := db.Model(&models.Question{}).Select("id").Where("section_id IN (?)", sectionIDs)

	if err := db.Where("question_id IN (?)", questionIDs).Delete(&models.QuestionOption{}).Error; err != nil {
		return fmt.Errorf("failed to delete question options: %w", err)
	}
	if err := db.Where("section_id IN (?)", sectionIDs).Delete(&models.Question{}).Error; err != nil {
		return fmt.Errorf("failed to delete questions: %w", err)
	}
	if err := db.Where("section_id IN (?)", sectionIDs).Delete(&models.RepeatGroup{}).Error; err != nil {
		return fmt.Errorf("failed to delete repeat groups: %w", err)
	}
	if err := db.Where("survey_id = ?", surveyID).Delete(&models.Section{}).Error; err != nil {
		return fmt.Errorf("failed to delete sections: %w", err)
	}
	return nil
}

func questionRow(sectionID string, groups []models.RepeatGroupDef, groupIDsByKey map[string]string, def models.QuestionDef) (*models.Question, error) {
	config := def.ConfigJSON
	if config == nil {
		config = datatypes.JSONMap{}
	}
	raw, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to encode question config: %w", err)
	}

	question := &models.Question{
		SectionID:      sectionID,
		Type:           def.Type,
		Label:          def.Label,
		HelperText:     def.HelperText,
		Required:       def.Required,
		RepeatGroupKey: def.RepeatGroupKey,
		SortOrder:      def.SortOrder,
		ConfigJSON:     datatypes.JSON(raw),
	}

	if group := structure.ResolveGroup(groups, def.GroupID, def.RepeatGroupKey); group != nil {
		key := group.RepeatGroupKey
		question.RepeatGroupKey = &key
		if id, ok := groupIDsByKey[key]; ok {
			question.GroupID = &id
		}
	}
	return question, nil
}

func orDefault(value, fallback int) int {
	if value < 1 {
		return fallback
	}
	return value
}

func (s *StructurePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	return resolveDB(s.db, tx)
}
