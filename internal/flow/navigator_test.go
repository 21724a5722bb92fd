package flow

import (
	"testing"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlowSections_SkipsContactAndEmptySections(t *testing.T) {
	def := cafeDefinition(models.ContactAtEnd)

	sections := FlowSections(def)

	require.Len(t, sections, 2)
	assert.Equal(t, "sec-business", sections[0].ID)
	assert.Equal(t, "sec-purchases", sections[1].ID)
}

func TestNavigator_EntryDependsOnContactPlacement(t *testing.T) {
	assert.Equal(t, IntroPage("sec-business"), NewNavigator(cafeDefinition(models.ContactAtEnd)).Entry())
	assert.Equal(t, StartPage(), NewNavigator(cafeDefinition(models.ContactAtStart)).Entry())

	empty := &models.SurveyDefinition{Survey: models.SurveyMeta{ContactInfoPlacement: models.ContactAtEnd}}
	assert.Equal(t, ReviewPage(), NewNavigator(empty).Entry())
}

func TestNavigator_RepeatSectionVisitsEveryItem(t *testing.T) {
	def := cafeDefinition(models.ContactAtEnd)
	nav := NewNavigator(def)
	sess := answered(nil)
	sess.RepeatCounts["purchases"] = 3

	page := QuestionPage("sec-purchases", 0, "q-item")
	visited := []Page{page}
	for i := 0; i < 6; i++ {
		next, ok := nav.Next(page, sess)
		require.True(t, ok)
		visited = append(visited, next)
		page = next
	}

	assert.Equal(t, []Page{
		QuestionPage("sec-purchases", 0, "q-item"),
		QuestionPage("sec-purchases", 0, "q-qty"),
		QuestionPage("sec-purchases", 1, "q-item"),
		QuestionPage("sec-purchases", 1, "q-qty"),
		QuestionPage("sec-purchases", 2, "q-item"),
		QuestionPage("sec-purchases", 2, "q-qty"),
		ItemsPage("sec-purchases"),
	}, visited)
}

func TestNavigator_NonRepeatSectionAdvancesToNextSection(t *testing.T) {
	nav := NewNavigator(cafeDefinition(models.ContactAtEnd))

	next, ok := nav.Next(QuestionPage("sec-business", 0, "q-kind"), nil)
	require.True(t, ok)
	assert.Equal(t, IntroPage("sec-purchases"), next)

	next, ok = nav.Next(IntroPage("sec-business"), nil)
	require.True(t, ok)
	assert.Equal(t, QuestionPage("sec-business", 0, "q-name"), next, "intro skips leading info blocks")

	next, ok = nav.Next(IntroPage("sec-purchases"), nil)
	require.True(t, ok)
	assert.Equal(t, ItemsPage("sec-purchases"), next)
}

func TestNavigator_Previous(t *testing.T) {
	nav := NewNavigator(cafeDefinition(models.ContactAtEnd))

	prev, ok := nav.Previous(QuestionPage("sec-purchases", 2, "q-item"))
	require.True(t, ok)
	assert.Equal(t, QuestionPage("sec-purchases", 1, "q-qty"), prev)

	prev, ok = nav.Previous(QuestionPage("sec-purchases", 0, "q-item"))
	require.True(t, ok)
	assert.Equal(t, ItemsPage("sec-purchases"), prev)

	prev, ok = nav.Previous(QuestionPage("sec-business", 0, "q-name"))
	require.True(t, ok)
	assert.Equal(t, QuestionPage("sec-business", 0, "q-welcome"), prev)

	_, ok = nav.Previous(QuestionPage("sec-business", 0, "q-welcome"))
	assert.False(t, ok, "first question of the first single-item section has no previous page")

	prev, ok = nav.Previous(ReviewPage())
	require.True(t, ok)
	assert.Equal(t, ItemsPage("sec-purchases"), prev)
}

func TestNavigator_ItemsContinue(t *testing.T) {
	def := cafeDefinition(models.ContactAtEnd)
	nav := NewNavigator(def)
	section := SectionByID(def, "sec-purchases")

	sess := answered(nil)
	sess.RepeatCounts["purchases"] = 2
	sess.Answers["q-item:0"] = text("Milk")
	sess.Answers["q-qty:0"] = text("4")
	sess.Answers["q-item:1"] = text("Beans")

	assert.Equal(t, QuestionPage("sec-purchases", 1, "q-item"), nav.ItemsContinue(section, sess))

	sess.Answers["q-qty:1"] = text("2")
	assert.Equal(t, ReviewPage(), nav.ItemsContinue(section, sess))
}

func TestNavigator_AfterReview(t *testing.T) {
	assert.Equal(t, ContactPage(), NewNavigator(cafeDefinition(models.ContactAtEnd)).AfterReview())
	assert.Equal(t, SubmitPage(), NewNavigator(cafeDefinition(models.ContactAtStart)).AfterReview())
}

func TestItemBounds(t *testing.T) {
	section := &models.SectionDef{RepeatGroups: []models.RepeatGroupDef{{RepeatGroupKey: "waste_streams"}}}
	minItems, maxItems := ItemBounds(section)
	assert.Equal(t, 1, minItems)
	assert.Equal(t, 7, maxItems)

	section.RepeatGroups[0].RepeatGroupKey = "other_things"
	_, maxItems = ItemBounds(section)
	assert.Equal(t, 10, maxItems)

	section.RepeatGroups[0].MinItems = 2
	section.RepeatGroups[0].MaxItems = 3
	assert.Equal(t, 3, ClampRepeatCount(section, 9))
	assert.Equal(t, 2, ClampRepeatCount(section, 0))

	minItems, maxItems = ItemBounds(&models.SectionDef{})
	assert.Equal(t, 1, minItems)
	assert.Equal(t, 1, maxItems)
}

func TestAddAndRemoveItem(t *testing.T) {
	section := &models.SectionDef{RepeatGroups: []models.RepeatGroupDef{{RepeatGroupKey: "purchases", MinItems: 1, MaxItems: 2}}}
	sess := answered(nil)

	change, ok := AddItem(section, sess)
	require.True(t, ok)
	assert.Equal(t, RepeatChange{GroupKey: "purchases", Count: 2}, change)

	sess.RepeatCounts["purchases"] = 2
	_, ok = AddItem(section, sess)
	assert.False(t, ok)

	change, ok = RemoveItem(section, sess)
	require.True(t, ok)
	assert.Equal(t, 1, change.Count)

	sess.RepeatCounts["purchases"] = 1
	_, ok = RemoveItem(section, sess)
	assert.False(t, ok)
}

func TestEnsureMinimumItems(t *testing.T) {
	section := &models.SectionDef{RepeatGroups: []models.RepeatGroupDef{{RepeatGroupKey: "purchases", MinItems: 3, MaxItems: 5}}}

	change, ok := EnsureMinimumItems(section, answered(nil))
	require.True(t, ok)
	assert.Equal(t, RepeatChange{GroupKey: "purchases", Count: 3}, change)

	sess := answered(nil)
	sess.RepeatCounts["purchases"] = 4
	_, ok = EnsureMinimumItems(section, sess)
	assert.False(t, ok)
}

func TestCapRepeatCounts(t *testing.T) {
	def := cafeDefinition(models.ContactAtEnd)
	def.Sections[1].RepeatGroups[0].MaxItems = 3
	sess := answered(nil)
	sess.RepeatCounts["purchases"] = 50
	sess.RepeatCounts["unrelated"] = 50

	CapRepeatCounts(def, sess)

	assert.Equal(t, 3, sess.RepeatCounts["purchases"])
	assert.Equal(t, 50, sess.RepeatCounts["unrelated"])
	assert.Equal(t, 3, SectionRepeatCount(&def.Sections[1], sess))

	sess.RepeatCounts["purchases"] = 2
	CapRepeatCounts(def, sess)
	assert.Equal(t, 2, sess.RepeatCounts["purchases"])

	empty := answered(nil)
	CapRepeatCounts(def, empty)
	_, stored := empty.RepeatCounts["purchases"]
	assert.False(t, stored)

	CapRepeatCounts(def, nil)
}

func TestPagePathRoundTrip(t *testing.T) {
	pages := []Page{
		LandingPage(),
		StartPage(),
		IntroPage("s1"),
		ItemsPage("s1"),
		QuestionPage("s1", 4, "q9"),
		ReviewPage(),
		ContactPage(),
		ThankYouPage(),
	}
	for _, p := range pages {
		slug, parsed, err := ParsePath(p.Path("cafe-2025"))
		require.NoError(t, err, p.Path("cafe-2025"))
		assert.Equal(t, "cafe-2025", slug)
		assert.Equal(t, p, parsed)
	}

	_, _, err := ParsePath("/cafe/section/s1/item/x/question/q")
	assert.ErrorIs(t, err, ErrInvalidPath)
	_, _, err = ParsePath("/")
	assert.ErrorIs(t, err, ErrInvalidPath)
}
