package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SurveyStatus string

const (
	SurveyDraft  SurveyStatus = "draft"
	SurveyOpen   SurveyStatus = "open"
	SurveyClosed SurveyStatus = "closed"
)

type ContactInfoMode string

const (
	ContactInfoRequired ContactInfoMode = "required"
	ContactInfoOptional ContactInfoMode = "optional"
)

type ContactInfoPlacement string

const (
	ContactAtStart ContactInfoPlacement = "start"
	ContactAtEnd   ContactInfoPlacement = "end"
)

type LinkStatus string

const (
	LinkOpen   LinkStatus = "open"
	LinkClosed LinkStatus = "closed"
)

type Study struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string    `json:"name" gorm:"not null;size:200"`
	HostName    *string   `json:"host_name" gorm:"size:200"`
	Description *string   `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

type Cohort struct {
	ID        string     `json:"id" gorm:"primaryKey;type:uuid"`
	StudyID   string     `json:"study_id" gorm:"not null;index;type:uuid"`
	Name      string     `json:"name" gorm:"not null;size:200"`
	Status    string     `json:"status" gorm:"size:20;default:draft"`
	StartsAt  *time.Time `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at"`
	Notes     *string    `json:"notes" gorm:"type:text"`
	CreatedAt time.Time  `json:"created_at"`

	Study *Study `json:"study,omitempty" gorm:"foreignKey:StudyID"`
}

type Survey struct {
	ID                   string               `json:"id" gorm:"primaryKey;type:uuid"`
	StudyID              string               `json:"study_id" gorm:"not null;index;type:uuid"`
	Name                 string               `json:"name" gorm:"not null;size:200"`
	Status               SurveyStatus         `json:"status" gorm:"not null;size:20;default:draft"`
	ContactInfoMode      *ContactInfoMode     `json:"contact_info_mode" gorm:"size:20"`
	ContactInfoPlacement ContactInfoPlacement `json:"contact_info_placement" gorm:"not null;size:10;default:end"`
	IsTemplate           bool                 `json:"is_template" gorm:"not null;default:false;index"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`

	Study    *Study    `json:"study,omitempty" gorm:"foreignKey:StudyID"`
	Sections []Section `json:"sections,omitempty" gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE"`
}

type SurveyLink struct {
	ID         string     `json:"id" gorm:"primaryKey;type:uuid"`
	SurveyID   string     `json:"survey_id" gorm:"not null;index;type:uuid"`
	CohortID   string     `json:"cohort_id" gorm:"not null;index;type:uuid"`
	PublicSlug string     `json:"public_slug" gorm:"not null;uniqueIndex;size:120"`
	Status     LinkStatus `json:"status" gorm:"not null;size:10;default:open"`
	OpensAt    *time.Time `json:"opens_at"`
	ClosesAt   *time.Time `json:"closes_at"`
	CreatedAt  time.Time  `json:"created_at"`

	Survey *Survey `json:"survey,omitempty" gorm:"foreignKey:SurveyID"`
	Cohort *Cohort `json:"cohort,omitempty" gorm:"foreignKey:CohortID"`
}

// AcceptsResponses reports whether the link is open and inside its window at t.
func (l *SurveyLink) AcceptsResponses(t time.Time) bool {
	if l.Status != LinkOpen {
		return false
	}
	if l.OpensAt != nil && t.Before(*l.OpensAt) {
		return false
	}
	if l.ClosesAt != nil && t.After(*l.ClosesAt) {
		return false
	}
	return true
}

func (Study) TableName() string {
	return "studies"
}

func (Cohort) TableName() string {
	return "study_cohorts"
}

func (Survey) TableName() string {
	return "surveys"
}

func (SurveyLink) TableName() string {
	return "survey_links"
}

func (s *Study) BeforeCreate(tx *gorm.DB) error {
	s.ID = ensureID(s.ID)
	return nil
}

func (c *Cohort) BeforeCreate(tx *gorm.DB) error {
	c.ID = ensureID(c.ID)
	return nil
}

func (s *Survey) BeforeCreate(tx *gorm.DB) error {
	s.ID = ensureID(s.ID)
	return nil
}

func (l *SurveyLink) BeforeCreate(tx *gorm.DB) error {
	l.ID = ensureID(l.ID)
	return nil
}

func ensureID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}
