package models

import (
	"slices"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuestionType is the closed set of block kinds a section can hold.
type QuestionType string

const (
	QuestionText        QuestionType = "text"
	QuestionLongtext    QuestionType = "longtext"
	QuestionNumber      QuestionType = "number"
	QuestionSelect      QuestionType = "select"
	QuestionMultiselect QuestionType = "multiselect"
	QuestionInfo        QuestionType = "info"
)

var QuestionTypes = []QuestionType{
	QuestionText,
	QuestionLongtext,
	QuestionNumber,
	QuestionSelect,
	QuestionMultiselect,
	QuestionInfo,
}

func (t QuestionType) IsValid() bool {
	return slices.Contains(QuestionTypes, t)
}

// HasOptions reports whether the type renders a fixed option list.
func (t QuestionType) HasOptions() bool {
	switch t {
	case QuestionSelect, QuestionMultiselect:
		return true
	case QuestionText, QuestionLongtext, QuestionNumber, QuestionInfo:
		return false
	}
	return false
}

type Section struct {
	ID        string `json:"id" gorm:"primaryKey;type:uuid"`
	SurveyID  string `json:"survey_id" gorm:"not null;index;type:uuid"`
	Title     string `json:"title" gorm:"not null;size:255"`
	SortOrder int    `json:"sort_order" gorm:"not null;default:0"`

	RepeatGroups []RepeatGroup `json:"repeat_groups,omitempty" gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE"`
	Questions    []Question    `json:"questions,omitempty" gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE"`
}

type RepeatGroup struct {
	ID             string `json:"id" gorm:"primaryKey;type:uuid"`
	SectionID      string `json:"section_id" gorm:"not null;type:uuid;uniqueIndex:idx_section_group_key"`
	Name           string `json:"name" gorm:"not null;size:200"`
	RepeatGroupKey string `json:"repeat_group_key" gorm:"not null;size:100;uniqueIndex:idx_section_group_key"`
	MinItems       int    `json:"min_items" gorm:"not null;default:1"`
	MaxItems       int    `json:"max_items" gorm:"not null;default:10"`
	SortOrder      int    `json:"sort_order" gorm:"not null;default:0"`
}

type Question struct {
	ID             string         `json:"id" gorm:"primaryKey;type:uuid"`
	SectionID      string         `json:"section_id" gorm:"not null;index;type:uuid"`
	Type           QuestionType   `json:"type" gorm:"not null;size:20"`
	Label          string         `json:"label" gorm:"not null;type:text"`
	HelperText     *string        `json:"helper_text" gorm:"type:text"`
	Required       bool           `json:"required" gorm:"not null;default:false"`
	RepeatGroupKey *string        `json:"repeat_group_key" gorm:"size:100"`
	GroupID        *string        `json:"group_id" gorm:"type:uuid;index"`
	SortOrder      int            `json:"sort_order" gorm:"not null;default:0"`
	ConfigJSON     datatypes.JSON `json:"config_json" gorm:"type:jsonb"`

	Options []QuestionOption `json:"options,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

type QuestionOption struct {
	ID         string `json:"id" gorm:"primaryKey;type:uuid"`
	QuestionID string `json:"question_id" gorm:"not null;index;type:uuid"`
	Value      string `json:"value" gorm:"not null;size:255"`
	Label      string `json:"label" gorm:"not null;size:255"`
	SortOrder  int    `json:"sort_order" gorm:"not null;default:0"`
}

func (Section) TableName() string {
	return "survey_sections"
}

func (RepeatGroup) TableName() string {
	return "survey_repeat_groups"
}

func (Question) TableName() string {
	return "survey_questions"
}

func (QuestionOption) TableName() string {
	return "survey_question_options"
}

func (s *Section) BeforeCreate(tx *gorm.DB) error {
	s.ID = ensureID(s.ID)
	return nil
}

func (g *RepeatGroup) BeforeCreate(tx *gorm.DB) error {
	g.ID = ensureID(g.ID)
	return nil
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	q.ID = ensureID(q.ID)
	return nil
}

func (o *QuestionOption) BeforeCreate(tx *gorm.DB) error {
	o.ID = ensureID(o.ID)
	return nil
}
