package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/survey-service/internal/events"
	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func intPtr(i int) *int { return &i }

func TestSectionsFromDocument_Ordering(t *testing.T) {
	doc := &DefinitionDocument{
		Survey: DocumentSurvey{Name: "Bakery"},
		Sections: []DocumentSection{
			{Title: "Second", SortOrder: intPtr(5)},
			{Title: "First", SortOrder: intPtr(1), Questions: []DocumentQuestion{
				{Type: models.QuestionText, Label: "B", SortOrder: intPtr(2)},
				{Type: models.QuestionText, Label: "A", SortOrder: intPtr(1)},
				{Type: models.QuestionSelect, Label: "C", Options: []DocumentOption{
					{Value: "z", Label: "Z", SortOrder: intPtr(9)},
					{Value: "y", Label: "Y"},
				}},
			}},
			{Title: "Unordered"},
		},
	}

	sections := SectionsFromDocument(doc)
	require.Len(t, sections, 3)
	assert.Equal(t, "First", sections[0].Title)
	assert.Equal(t, "Unordered", sections[1].Title)
	assert.Equal(t, "Second", sections[2].Title)
	for i, s := range sections {
		assert.Equal(t, i+1, s.SortOrder)
	}

	questions := sections[0].Questions
	require.Len(t, questions, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{questions[0].Label, questions[1].Label, questions[2].Label})
	assert.Equal(t, 3, questions[2].SortOrder)
	require.Len(t, questions[2].Options, 2)
	assert.Equal(t, "y", questions[2].Options[0].Value)
	assert.Equal(t, 1, questions[2].Options[0].SortOrder)
	assert.Equal(t, "z", questions[2].Options[1].Value)
}

func TestSectionsFromDocument_RepeatGroups(t *testing.T) {
	purchases := "purchases"
	waste := "waste_streams"

	t.Run("declared groups keep bounds and fill defaults", func(t *testing.T) {
		sections := SectionsFromDocument(&DefinitionDocument{Sections: []DocumentSection{{
			Title: "Purchases",
			RepeatGroups: []DocumentRepeatGroup{
				{Name: "Purchases", RepeatGroupKey: " purchases ", MaxItems: intPtr(4)},
				{Name: "Waste", RepeatGroupKey: waste, MinItems: intPtr(0)},
			},
		}}})

		groups := sections[0].RepeatGroups
		require.Len(t, groups, 2)
		assert.Equal(t, "purchases", groups[0].RepeatGroupKey)
		assert.Equal(t, 1, groups[0].MinItems)
		assert.Equal(t, 4, groups[0].MaxItems)
		assert.Equal(t, 1, groups[1].MinItems)
		assert.Equal(t, 7, groups[1].MaxItems)
		assert.Equal(t, 2, groups[1].SortOrder)
	})

	t.Run("groups synthesized from question keys", func(t *testing.T) {
		sections := SectionsFromDocument(&DefinitionDocument{Sections: []DocumentSection{{
			Title: "Items",
			Questions: []DocumentQuestion{
				{Type: models.QuestionInfo, Label: "Intro", RepeatGroupKey: &waste},
				{Type: models.QuestionText, Label: "Item", RepeatGroupKey: &purchases},
				{Type: models.QuestionNumber, Label: "Amount", RepeatGroupKey: &purchases},
				{Type: models.QuestionText, Label: "Stream", RepeatGroupKey: &waste},
			},
		}}})

		groups := sections[0].RepeatGroups
		require.Len(t, groups, 2)
		assert.Equal(t, "purchases", groups[0].Name)
		assert.Equal(t, 10, groups[0].MaxItems)
		assert.Equal(t, "waste_streams", groups[1].RepeatGroupKey)
		assert.Equal(t, 7, groups[1].MaxItems)
		assert.Equal(t, 2, groups[1].SortOrder)
	})

	t.Run("plain sections get no groups", func(t *testing.T) {
		sections := SectionsFromDocument(&DefinitionDocument{Sections: []DocumentSection{{
			Title:     "About",
			Questions: []DocumentQuestion{{Type: models.QuestionText, Label: "Name"}},
		}}})
		assert.Empty(t, sections[0].RepeatGroups)
	})
}

func TestDocumentFromDefinition_RoundTrip(t *testing.T) {
	mode := models.ContactInfoRequired
	survey := &models.Survey{ID: "survey-1", Name: "Bakery", ContactInfoMode: &mode}
	def := &models.SurveyDefinition{
		Survey: models.SurveyMeta{ID: "survey-1", Name: "Bakery", ContactInfoPlacement: models.ContactAtStart},
		Sections: []models.SectionDef{{
			ID:        "sec-1",
			Title:     "Purchases",
			SortOrder: 1,
			RepeatGroups: []models.RepeatGroupDef{
				{ID: "grp-1", Name: "Purchases", RepeatGroupKey: "purchases", MinItems: 1, MaxItems: 3, SortOrder: 1},
			},
			Questions: []models.QuestionDef{{
				ID: "q-1", Type: models.QuestionSelect, Label: "Supplier", Required: true, SortOrder: 1,
				Options: []models.OptionDef{{ID: "opt-1", Value: "mill", Label: "Mill", SortOrder: 1}},
			}},
		}},
	}

	doc := DocumentFromDefinition(survey, def)
	assert.Equal(t, "Bakery", doc.Survey.Name)
	require.NotNil(t, doc.Survey.ContactInfoMode)
	assert.Equal(t, "required", *doc.Survey.ContactInfoMode)
	assert.Equal(t, "start", *doc.Survey.ContactInfoPlacement)

	sections := SectionsFromDocument(doc)
	require.Len(t, sections, 1)
	assert.Equal(t, "Purchases", sections[0].Title)
	assert.Empty(t, sections[0].ID)
	require.Len(t, sections[0].RepeatGroups, 1)
	assert.Equal(t, 3, sections[0].RepeatGroups[0].MaxItems)
	require.Len(t, sections[0].Questions, 1)
	assert.True(t, sections[0].Questions[0].Required)
	assert.Equal(t, "mill", sections[0].Questions[0].Options[0].Value)
}

func TestSurveyEventService(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes structure saved with counts", func(t *testing.T) {
		publisher := events.NewMockEventPublisher(nil)
		svc := NewSurveyEventService(publisher, zap.NewNop())

		err := svc.NotifyStructureSaved(ctx, "survey-1", []models.SectionDef{
			{Questions: []models.QuestionDef{{}, {}}},
			{Questions: []models.QuestionDef{{}}},
		})
		require.NoError(t, err)

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventSurveyStructureSaved, published[0].Type)
		data, ok := published[0].Data.(events.SurveyStructureSavedEvent)
		require.True(t, ok)
		assert.Equal(t, 2, data.SectionCount)
		assert.Equal(t, 3, data.QuestionCount)
	})

	t.Run("response submitted carries study metadata", func(t *testing.T) {
		publisher := events.NewMockEventPublisher(nil)
		svc := NewSurveyEventService(publisher, nil)

		bundle := &models.PublicSurveyBundle{
			Study: models.StudyInfo{ID: "study-1"},
			Link:  models.LinkInfo{PublicSlug: "bakery-wave-1"},
		}
		response := &models.Response{ID: "resp-1", SurveyID: "survey-1", ContactEmail: strPtr("ada@example.com")}
		require.NoError(t, svc.NotifyResponseSubmitted(ctx, bundle, response, 4, 1))

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, "study-1", published[0].Metadata["study_id"])
		data := published[0].Data.(events.ResponseSubmittedEvent)
		assert.True(t, data.ContactGiven)
		assert.Equal(t, "bakery-wave-1", data.PublicSlug)
		assert.Equal(t, 1, data.SkippedCount)
	})

	t.Run("nil publisher is a no-op", func(t *testing.T) {
		svc := NewSurveyEventService(nil, nil)
		assert.NoError(t, svc.NotifyLinkUpdated(ctx, &models.SurveyLink{ID: "link-1"}))
	})
}
