package flow

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type PageKind string

const (
	PageLanding      PageKind = "landing"
	PageStart        PageKind = "start"
	PageSectionIntro PageKind = "section_intro"
	PageQuestion     PageKind = "question"
	PageItems        PageKind = "items"
	PageReview       PageKind = "review"
	PageContact      PageKind = "contact"
	PageSubmit       PageKind = "submit"
	PageThankYou     PageKind = "thank_you"
)

// Page is one stop in the participant flow.
type Page struct {
	Kind        PageKind `json:"kind"`
	SectionID   string   `json:"section_id,omitempty"`
	QuestionID  string   `json:"question_id,omitempty"`
	RepeatIndex int      `json:"repeat_index"`
}

var ErrInvalidPath = errors.New("invalid survey path")

func LandingPage() Page  { return Page{Kind: PageLanding} }
func StartPage() Page    { return Page{Kind: PageStart} }
func ReviewPage() Page   { return Page{Kind: PageReview} }
func ContactPage() Page  { return Page{Kind: PageContact} }
func SubmitPage() Page   { return Page{Kind: PageSubmit} }
func ThankYouPage() Page { return Page{Kind: PageThankYou} }

func IntroPage(sectionID string) Page {
	return Page{Kind: PageSectionIntro, SectionID: sectionID}
}

func ItemsPage(sectionID string) Page {
	return Page{Kind: PageItems, SectionID: sectionID}
}

func QuestionPage(sectionID string, repeatIndex int, questionID string) Page {
	return Page{Kind: PageQuestion, SectionID: sectionID, QuestionID: questionID, RepeatIndex: repeatIndex}
}

// Path renders the page's route under slug. Submit has no route and renders
// as the review page it is triggered from.
func (p Page) Path(slug string) string {
	base := "/" + slug
	switch p.Kind {
	case PageLanding:
		return base
	case PageStart:
		return base + "/start"
	case PageSectionIntro:
		return fmt.Sprintf("%s/section/%s/intro", base, p.SectionID)
	case PageQuestion:
		return fmt.Sprintf("%s/section/%s/item/%d/question/%s", base, p.SectionID, p.RepeatIndex, p.QuestionID)
	case PageItems:
		return fmt.Sprintf("%s/section/%s/items", base, p.SectionID)
	case PageReview, PageSubmit:
		return base + "/review"
	case PageContact:
		return base + "/contact"
	case PageThankYou:
		return base + "/thank-you"
	}
	return base
}

// ParsePath reads a route produced by Page.Path back into its slug and page.
func ParsePath(path string) (string, Page, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return "", Page{}, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	slug, rest := parts[0], parts[1:]

	switch {
	case len(rest) == 0:
		return slug, LandingPage(), nil
	case len(rest) == 1:
		switch rest[0] {
		case "start":
			return slug, StartPage(), nil
		case "review":
			return slug, ReviewPage(), nil
		case "contact":
			return slug, ContactPage(), nil
		case "thank-you":
			return slug, ThankYouPage(), nil
		}
	case len(rest) == 3 && rest[0] == "section":
		switch rest[2] {
		case "intro":
			return slug, IntroPage(rest[1]), nil
		case "items":
			return slug, ItemsPage(rest[1]), nil
		}
	case len(rest) == 6 && rest[0] == "section" && rest[2] == "item" && rest[4] == "question":
		r, err := strconv.Atoi(rest[3])
		if err != nil || r < 0 {
			return "", Page{}, fmt.Errorf("%w: bad item index in %q", ErrInvalidPath, path)
		}
		return slug, QuestionPage(rest[1], r, rest[5]), nil
	}
	return "", Page{}, fmt.Errorf("%w: %q", ErrInvalidPath, path)
}
