package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Response struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid"`
	SurveyID     string    `json:"survey_id" gorm:"not null;index;type:uuid"`
	CohortID     string    `json:"cohort_id" gorm:"not null;index;type:uuid"`
	SurveyLinkID string    `json:"survey_link_id" gorm:"not null;index;type:uuid"`
	AnonToken    string    `json:"anon_token" gorm:"not null;size:64"`
	SubmittedAt  time.Time `json:"submitted_at" gorm:"not null;index"`

	// Contact fields stay null when the participant skipped or left them blank.
	ContactName  *string `json:"contact_name" gorm:"size:255"`
	ContactEmail *string `json:"contact_email" gorm:"size:255"`
	ContactPhone *string `json:"contact_phone" gorm:"size:64"`
	BusinessName *string `json:"business_name" gorm:"size:255"`

	Items  []ResponseItem `json:"items,omitempty" gorm:"foreignKey:ResponseID;constraint:OnDelete:CASCADE"`
	Survey *Survey        `json:"survey,omitempty" gorm:"foreignKey:SurveyID"`
	Cohort *Cohort        `json:"cohort,omitempty" gorm:"foreignKey:CohortID"`
	Link   *SurveyLink    `json:"survey_link,omitempty" gorm:"foreignKey:SurveyLinkID"`
}

// ResponseItem stores one answer. Exactly one of the value columns is set.
type ResponseItem struct {
	ID          string         `json:"id" gorm:"primaryKey;type:uuid"`
	ResponseID  string         `json:"response_id" gorm:"not null;index;type:uuid"`
	QuestionID  string         `json:"question_id" gorm:"not null;index;type:uuid"`
	RepeatIndex int            `json:"repeat_index" gorm:"not null;default:0"`
	ValueText   *string        `json:"value_text" gorm:"type:text"`
	ValueNumber *float64       `json:"value_number"`
	ValueJSON   datatypes.JSON `json:"value_json" gorm:"type:jsonb"`

	Question *Question `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
}

type ResponseAuditLog struct {
	ID         string         `json:"id" gorm:"primaryKey;type:uuid"`
	ResponseID string         `json:"response_id" gorm:"not null;index;type:uuid"`
	EditedAt   time.Time      `json:"edited_at" gorm:"not null;index"`
	EditorID   *string        `json:"editor_id" gorm:"size:64"`
	FieldPath  string         `json:"field_path" gorm:"not null;size:255"`
	OldValue   datatypes.JSON `json:"old_value" gorm:"type:jsonb"`
	NewValue   datatypes.JSON `json:"new_value" gorm:"type:jsonb"`
	Reason     *string        `json:"reason" gorm:"type:text"`
}

func (Response) TableName() string {
	return "responses"
}

func (ResponseItem) TableName() string {
	return "response_items"
}

func (ResponseAuditLog) TableName() string {
	return "response_audit_log"
}

func (r *Response) BeforeCreate(tx *gorm.DB) error {
	r.ID = ensureID(r.ID)
	return nil
}

func (i *ResponseItem) BeforeCreate(tx *gorm.DB) error {
	i.ID = ensureID(i.ID)
	return nil
}

func (a *ResponseAuditLog) BeforeCreate(tx *gorm.DB) error {
	a.ID = ensureID(a.ID)
	return nil
}

// AllModels lists every table the service owns, in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&Study{},
		&Cohort{},
		&Survey{},
		&Section{},
		&RepeatGroup{},
		&Question{},
		&QuestionOption{},
		&SurveyLink{},
		&Response{},
		&ResponseItem{},
		&ResponseAuditLog{},
	}
}
