package models

import (
	"time"

	"gorm.io/datatypes"
)

// SurveyDefinition is the ordered, read-only schema a participant walks through.
type SurveyDefinition struct {
	Survey   SurveyMeta   `json:"survey"`
	Sections []SectionDef `json:"sections"`
}

type SurveyMeta struct {
	ID                   string               `json:"id"`
	StudyID              string               `json:"study_id,omitempty"`
	Name                 string               `json:"name"`
	Status               SurveyStatus         `json:"status,omitempty"`
	ContactInfoMode      *ContactInfoMode     `json:"contact_info_mode"`
	ContactInfoPlacement ContactInfoPlacement `json:"contact_info_placement"`
}

type SectionDef struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	SortOrder    int              `json:"sort_order"`
	RepeatGroups []RepeatGroupDef `json:"repeat_groups"`
	Questions    []QuestionDef    `json:"questions"`
}

// RepeatGroupDef bounds how many items a section collects. A zero MinItems or
// MaxItems means the bound was not configured.
type RepeatGroupDef struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	RepeatGroupKey string `json:"repeat_group_key"`
	MinItems       int    `json:"min_items"`
	MaxItems       int    `json:"max_items"`
	SortOrder      int    `json:"sort_order"`
}

type QuestionDef struct {
	ID             string            `json:"id"`
	Type           QuestionType      `json:"type" validate:"question_type"`
	Label          string            `json:"label"`
	HelperText     *string           `json:"helper_text"`
	Required       bool              `json:"required"`
	RepeatGroupKey *string           `json:"repeat_group_key"`
	GroupID        *string           `json:"group_id"`
	SortOrder      int               `json:"sort_order"`
	ConfigJSON     datatypes.JSONMap `json:"config_json"`
	Options        []OptionDef       `json:"options"`
}

type OptionDef struct {
	ID        string `json:"id"`
	Value     string `json:"value"`
	Label     string `json:"label"`
	SortOrder int    `json:"sort_order"`
}

// AllowOtherDetail reports whether the question collects a free-text detail
// when "other" is picked.
func (q *QuestionDef) AllowOtherDetail() bool {
	if q.ConfigJSON == nil {
		return false
	}
	switch v := q.ConfigJSON["allow_other_detail"].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	}
	return false
}

// PublicSurveyBundle is what a slug resolves to for participants.
type PublicSurveyBundle struct {
	Study  StudyInfo  `json:"study"`
	Cohort CohortInfo `json:"cohort"`
	Link   LinkInfo   `json:"link"`
	SurveyDefinition
}

type StudyInfo struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	HostName *string `json:"host_name"`
}

type CohortInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type LinkInfo struct {
	ID         string     `json:"id"`
	PublicSlug string     `json:"public_slug"`
	Status     LinkStatus `json:"status"`
	OpensAt    *time.Time `json:"opens_at"`
	ClosesAt   *time.Time `json:"closes_at"`
}
