package flow

import (
	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/session"
)

const ReviewStepID = "review"

type Step struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Page      Page   `json:"page"`
}

// Steps lists the flow sections followed by a review step that is complete
// once every section is.
func Steps(def *models.SurveyDefinition, sess *session.Session) []Step {
	sections := FlowSections(def)
	steps := make([]Step, 0, len(sections)+1)
	allComplete := true
	for _, s := range sections {
		done := IsSectionComplete(s, sess)
		allComplete = allComplete && done
		steps = append(steps, Step{
			ID:        s.ID,
			Title:     s.Title,
			Completed: done,
			Page:      IntroPage(s.ID),
		})
	}
	return append(steps, Step{
		ID:        ReviewStepID,
		Title:     "Review",
		Completed: allComplete,
		Page:      ReviewPage(),
	})
}
