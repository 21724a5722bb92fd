package flow

import (
	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/session"
)

// Navigator computes where a participant goes from any page. It never
// mutates the session; repeat count changes are returned to the caller.
type Navigator struct {
	def      *models.SurveyDefinition
	sections []*models.SectionDef
}

func NewNavigator(def *models.SurveyDefinition) *Navigator {
	return &Navigator{
		def:      def,
		sections: FlowSections(def),
	}
}

func (n *Navigator) Definition() *models.SurveyDefinition {
	return n.def
}

func (n *Navigator) FlowSections() []*models.SectionDef {
	return n.sections
}

// Entry is the first page after landing: the contact form when contact is
// collected up front, otherwise the first section or review.
func (n *Navigator) Entry() Page {
	if n.def.Survey.ContactInfoPlacement == models.ContactAtStart {
		return StartPage()
	}
	return n.firstSection()
}

func (n *Navigator) firstSection() Page {
	if len(n.sections) == 0 {
		return ReviewPage()
	}
	return IntroPage(n.sections[0].ID)
}

func (n *Navigator) flowIndex(sectionID string) int {
	for i, s := range n.sections {
		if s.ID == sectionID {
			return i
		}
	}
	return -1
}

// afterSection is the next flow section's intro, or review.
func (n *Navigator) afterSection(sectionID string) Page {
	i := n.flowIndex(sectionID)
	if i >= 0 && i+1 < len(n.sections) {
		return IntroPage(n.sections[i+1].ID)
	}
	return ReviewPage()
}

// sectionEnd is the page a participant lands on when stepping back into a
// finished section.
func (n *Navigator) sectionEnd(section *models.SectionDef) Page {
	if IsRepeating(section) {
		return ItemsPage(section.ID)
	}
	last := section.Questions[len(section.Questions)-1]
	return QuestionPage(section.ID, 0, last.ID)
}

// SectionStart is where "start section" leads: the item list for repeating
// sections, else the first non-info question of item 0. The caller should
// apply EnsureMinimumItems before showing either.
func (n *Navigator) SectionStart(section *models.SectionDef) Page {
	if IsRepeating(section) {
		return ItemsPage(section.ID)
	}
	for _, q := range section.Questions {
		if q.Type != models.QuestionInfo {
			return QuestionPage(section.ID, 0, q.ID)
		}
	}
	if len(section.Questions) > 0 {
		return QuestionPage(section.ID, 0, section.Questions[0].ID)
	}
	return n.afterSection(section.ID)
}

// ItemsContinue is where the item list's continue action leads: the first
// incomplete item, or past the section once every item is complete.
func (n *Navigator) ItemsContinue(section *models.SectionDef, sess *session.Session) Page {
	r := FirstIncompleteItem(section, sess)
	if r < 0 {
		return n.afterSection(section.ID)
	}
	first := FirstItemQuestion(section)
	if first == nil {
		return ReviewPage()
	}
	return QuestionPage(section.ID, r, first.ID)
}

// AfterReview is the contact form when contact is collected at the end,
// otherwise submission.
func (n *Navigator) AfterReview() Page {
	if n.def.Survey.ContactInfoPlacement == models.ContactAtEnd {
		return ContactPage()
	}
	return SubmitPage()
}

// Next returns the page following p. It reports false when p is terminal or
// does not belong to the definition.
func (n *Navigator) Next(p Page, sess *session.Session) (Page, bool) {
	switch p.Kind {
	case PageLanding:
		return n.Entry(), true
	case PageStart:
		return n.firstSection(), true
	case PageSectionIntro:
		section := SectionByID(n.def, p.SectionID)
		if section == nil {
			return Page{}, false
		}
		return n.SectionStart(section), true
	case PageItems:
		section := SectionByID(n.def, p.SectionID)
		if section == nil {
			return Page{}, false
		}
		return n.ItemsContinue(section, sess), true
	case PageQuestion:
		return n.nextQuestion(p, sess)
	case PageReview:
		return n.AfterReview(), true
	case PageContact:
		return SubmitPage(), true
	case PageSubmit:
		return ThankYouPage(), true
	case PageThankYou:
		return Page{}, false
	}
	return Page{}, false
}

func (n *Navigator) nextQuestion(p Page, sess *session.Session) (Page, bool) {
	section := SectionByID(n.def, p.SectionID)
	if section == nil {
		return Page{}, false
	}
	_, i := QuestionByID(section, p.QuestionID)
	if i < 0 {
		return Page{}, false
	}

	if i+1 < len(section.Questions) {
		return QuestionPage(section.ID, p.RepeatIndex, section.Questions[i+1].ID), true
	}
	if IsRepeating(section) {
		if p.RepeatIndex+1 < SectionRepeatCount(section, sess) {
			return QuestionPage(section.ID, p.RepeatIndex+1, section.Questions[0].ID), true
		}
		return ItemsPage(section.ID), true
	}
	return n.afterSection(section.ID), true
}

// Previous returns the page before p. It reports false when there is none.
func (n *Navigator) Previous(p Page) (Page, bool) {
	switch p.Kind {
	case PageQuestion:
		return n.previousQuestion(p)
	case PageItems:
		if SectionByID(n.def, p.SectionID) == nil {
			return Page{}, false
		}
		return IntroPage(p.SectionID), true
	case PageSectionIntro:
		return n.beforeSection(p.SectionID)
	case PageReview:
		if len(n.sections) == 0 {
			return n.beforeFlow()
		}
		return n.sectionEnd(n.sections[len(n.sections)-1]), true
	case PageContact:
		return ReviewPage(), true
	case PageStart:
		return LandingPage(), true
	}
	return Page{}, false
}

func (n *Navigator) previousQuestion(p Page) (Page, bool) {
	section := SectionByID(n.def, p.SectionID)
	if section == nil {
		return Page{}, false
	}
	_, i := QuestionByID(section, p.QuestionID)
	if i < 0 {
		return Page{}, false
	}

	if i > 0 {
		return QuestionPage(section.ID, p.RepeatIndex, section.Questions[i-1].ID), true
	}
	if IsRepeating(section) {
		if p.RepeatIndex > 0 {
			last := section.Questions[len(section.Questions)-1]
			return QuestionPage(section.ID, p.RepeatIndex-1, last.ID), true
		}
		return ItemsPage(section.ID), true
	}
	return n.beforeSection(section.ID)
}

// beforeSection steps back into the previous flow section, or to the
// contact form when it comes first.
func (n *Navigator) beforeSection(sectionID string) (Page, bool) {
	i := n.flowIndex(sectionID)
	if i > 0 {
		return n.sectionEnd(n.sections[i-1]), true
	}
	if i < 0 {
		return Page{}, false
	}
	return n.beforeFlow()
}

func (n *Navigator) beforeFlow() (Page, bool) {
	if n.def.Survey.ContactInfoPlacement == models.ContactAtStart {
		return StartPage(), true
	}
	return Page{}, false
}
