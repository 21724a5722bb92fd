package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/survey-service/internal/client"
	"github.com/SAP-F-2025/survey-service/internal/flow"
	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/session"
	"go.uber.org/zap"
)

var errQuit = errors.New("quit")

type surveyClient interface {
	GetBundle(ctx context.Context, slug string) (*models.PublicSurveyBundle, error)
	Submit(ctx context.Context, slug string, sess *session.Session, skipContact bool) (*client.SubmitResult, error)
}

// runner walks a participant through one survey on a terminal. The session
// lives in the store and survives restarts until submission clears it.
type runner struct {
	client surveyClient
	store  *session.Store
	in     *bufio.Scanner
	out    io.Writer
	logger *zap.Logger

	def         *models.SurveyDefinition
	nav         *flow.Navigator
	slug        string
	skipContact bool
}

func newRunner(c surveyClient, store *session.Store, in io.Reader, out io.Writer, logger *zap.Logger) *runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &runner{
		client: c,
		store:  store,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger,
	}
}

// Run drives the flow from the landing page until the response is submitted
// or the participant quits.
func (r *runner) Run(ctx context.Context, slug string) error {
	bundle, err := r.client.GetBundle(ctx, slug)
	if err != nil {
		return fmt.Errorf("failed to load survey: %w", err)
	}
	if err := r.store.EnsureSession(slug); err != nil {
		return err
	}

	r.slug = slug
	r.def = &bundle.SurveyDefinition
	r.nav = flow.NewNavigator(r.def)

	r.printf("%s\n", bundle.Survey.Name)
	if bundle.Study.Name != "" {
		r.printf("Part of %s", bundle.Study.Name)
		if bundle.Study.HostName != nil {
			r.printf(", hosted by %s", *bundle.Study.HostName)
		}
		r.printf("\n")
	}

	page := flow.LandingPage()
	for page.Kind != flow.PageThankYou {
		next, err := r.show(ctx, page)
		if errors.Is(err, errQuit) {
			r.printf("Progress saved. Run again to continue.\n")
			return nil
		}
		if err != nil {
			return err
		}
		page, err = r.enter(next)
		if err != nil {
			return err
		}
	}
	r.printf("Thank you! Your response has been recorded.\n")
	return nil
}

// enter applies the minimum item count of a section being entered.
func (r *runner) enter(page flow.Page) (flow.Page, error) {
	if page.SectionID == "" {
		return page, nil
	}
	section := flow.SectionByID(r.def, page.SectionID)
	if section == nil {
		return page, nil
	}
	if change, ok := flow.EnsureMinimumItems(section, r.store.Session()); ok {
		if err := r.store.SetRepeatCount(change.GroupKey, change.Count); err != nil {
			return page, err
		}
	}
	return page, nil
}

func (r *runner) show(ctx context.Context, page flow.Page) (flow.Page, error) {
	switch page.Kind {
	case flow.PageLanding:
		if _, err := r.prompt("Press enter to begin (q to quit)"); err != nil {
			return page, err
		}
		return r.next(page)
	case flow.PageStart, flow.PageContact:
		return r.showContact(page)
	case flow.PageSectionIntro:
		return r.showIntro(page)
	case flow.PageQuestion:
		return r.showQuestion(page)
	case flow.PageItems:
		return r.showItems(page)
	case flow.PageReview:
		return r.showReview(page)
	case flow.PageSubmit:
		return r.submit(ctx)
	}
	return flow.ThankYouPage(), nil
}

func (r *runner) next(page flow.Page) (flow.Page, error) {
	to, ok := r.nav.Next(page, r.store.Session())
	if !ok {
		return page, fmt.Errorf("no page after %s", page.Kind)
	}
	return to, nil
}

func (r *runner) previous(page flow.Page) flow.Page {
	if to, ok := r.nav.Previous(page); ok {
		return to
	}
	return page
}

func (r *runner) showIntro(page flow.Page) (flow.Page, error) {
	section := flow.SectionByID(r.def, page.SectionID)
	if section == nil {
		return r.next(page)
	}
	r.printf("\n== %s ==\n", section.Title)
	if guide, ok := flow.GuideForSection(section.Title); ok {
		r.printf("%s\nFor example: %s\n", guide.Summary, strings.Join(guide.Examples, ", "))
		if guide.Tip != "" {
			r.printf("Tip: %s\n", guide.Tip)
		}
	}

	input, err := r.prompt("Press enter to start (b to go back)")
	if err != nil {
		return page, err
	}
	if input == "b" {
		return r.previous(page), nil
	}
	return r.next(page)
}

func (r *runner) showQuestion(page flow.Page) (flow.Page, error) {
	section := flow.SectionByID(r.def, page.SectionID)
	if section == nil {
		return r.next(page)
	}
	question, _ := flow.QuestionByID(section, page.QuestionID)
	if question == nil {
		return r.next(page)
	}

	r.printf("\n")
	if flow.IsRepeating(section) && question.RepeatGroupKey != nil {
		r.printf("[Item %d] ", page.RepeatIndex+1)
	}
	r.printf("%s", question.Label)
	if question.Required {
		r.printf(" *")
	}
	r.printf("\n")
	if question.HelperText != nil {
		r.printf("  %s\n", *question.HelperText)
	}

	if question.Type == models.QuestionInfo {
		input, err := r.prompt("Press enter to continue (b to go back)")
		if err != nil {
			return page, err
		}
		if input == "b" {
			return r.previous(page), nil
		}
		return r.next(page)
	}

	for i, option := range question.Options {
		r.printf("  %d) %s\n", i+1, option.Label)
	}
	existing, hasExisting := r.store.Answer(question.ID, page.RepeatIndex)
	if hasExisting && !existing.Value.IsEmpty() {
		r.printf("  (current: %s)\n", existing.Value.String())
	}

	for {
		input, err := r.prompt(questionHint(question))
		if err != nil {
			return page, err
		}
		if input == "b" {
			return r.previous(page), nil
		}
		if input == "" && hasExisting {
			return r.next(page)
		}

		value, err := parseAnswer(question, input)
		if err != nil {
			r.printf("%s\n", err)
			continue
		}
		if question.Required && value.IsEmpty() {
			r.printf("This question is required.\n")
			continue
		}

		answer := session.AnswerValue{Value: value}
		if question.AllowOtherDetail() && value.Includes("other") {
			detail, err := r.prompt("Please describe \"other\"")
			if err != nil {
				return page, err
			}
			answer = answer.WithOther(detail)
		}
		if err := r.store.SetAnswer(question.ID, page.RepeatIndex, answer); err != nil {
			return page, err
		}
		return r.next(page)
	}
}

func (r *runner) showItems(page flow.Page) (flow.Page, error) {
	section := flow.SectionByID(r.def, page.SectionID)
	if section == nil {
		return r.next(page)
	}

	for {
		sess := r.store.Session()
		count := flow.SectionRepeatCount(section, sess)
		minItems, maxItems := flow.ItemBounds(section)

		r.printf("\n== %s (%d of %d-%d items) ==\n", section.Title, count, minItems, maxItems)
		for i := 0; i < count; i++ {
			status := " "
			if flow.IsItemComplete(section, sess, i) {
				status = "x"
			}
			r.printf("  [%s] %d) %s\n", status, i+1, flow.ItemSummary(section, sess, i))
		}

		input, err := r.prompt("a add, r remove last, e N edit, enter continue, b back")
		if err != nil {
			return page, err
		}

		switch {
		case input == "":
			return r.next(page)
		case input == "b":
			return r.previous(page), nil
		case input == "a":
			change, ok := flow.AddItem(section, sess)
			if !ok {
				r.printf("You can list at most %d items.\n", maxItems)
				continue
			}
			if err := r.store.SetRepeatCount(change.GroupKey, change.Count); err != nil {
				return page, err
			}
			if first := flow.FirstItemQuestion(section); first != nil {
				return flow.QuestionPage(section.ID, change.Count-1, first.ID), nil
			}
		case input == "r":
			change, ok := flow.RemoveItem(section, sess)
			if !ok {
				r.printf("At least %d item(s) are needed.\n", minItems)
				continue
			}
			if err := r.store.SetRepeatCount(change.GroupKey, change.Count); err != nil {
				return page, err
			}
		case strings.HasPrefix(input, "e "):
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(input, "e ")))
			first := flow.FirstItemQuestion(section)
			if err != nil || n < 1 || n > count || first == nil {
				r.printf("Pick an item between 1 and %d.\n", count)
				continue
			}
			return flow.QuestionPage(section.ID, n-1, first.ID), nil
		default:
			r.printf("Unknown command.\n")
		}
	}
}

func (r *runner) showReview(page flow.Page) (flow.Page, error) {
	for {
		sess := r.store.Session()
		steps := flow.Steps(r.def, sess)

		r.printf("\n== Review ==\n")
		for i, step := range steps[:len(steps)-1] {
			status := " "
			if step.Completed {
				status = "x"
			}
			r.printf("  [%s] %d) %s\n", status, i+1, step.Title)
		}
		missing := flow.MissingRequiredAnswers(r.def, sess)
		if len(missing) > 0 {
			r.printf("%d required answer(s) are still missing.\n", len(missing))
		}

		input, err := r.prompt("N to revisit a section, enter to continue, b back")
		if err != nil {
			return page, err
		}
		switch input {
		case "":
			if len(missing) > 0 {
				r.printf("Please answer all required questions before submitting.\n")
				continue
			}
			return r.next(page)
		case "b":
			return r.previous(page), nil
		}
		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n >= len(steps) {
			r.printf("Unknown command.\n")
			continue
		}
		return steps[n-1].Page, nil
	}
}

func (r *runner) showContact(page flow.Page) (flow.Page, error) {
	meta := r.def.Survey
	skippable := flow.ContactInfoSkippable(meta)

	r.printf("\n== Contact details ==\n")
	if skippable {
		input, err := r.prompt("Enter s to skip, or press enter to fill in")
		if err != nil {
			return page, err
		}
		if input == "s" {
			r.skipContact = true
			return r.next(page)
		}
	}
	r.skipContact = false

	for {
		current := r.store.Session().ContactInfo
		var update session.ContactInfoUpdate
		fields := []struct {
			label   string
			current string
			target  **string
		}{
			{"Name", current.ContactName, &update.ContactName},
			{"Email", current.ContactEmail, &update.ContactEmail},
			{"Phone", current.ContactPhone, &update.ContactPhone},
			{"Business name", current.BusinessName, &update.BusinessName},
		}

		for _, field := range fields {
			label := field.label
			if field.current != "" {
				label = fmt.Sprintf("%s [%s]", label, field.current)
			}
			input, err := r.prompt(label)
			if err != nil {
				return page, err
			}
			if input != "" {
				value := input
				*field.target = &value
			}
		}
		if err := r.store.SetContactInfo(update); err != nil {
			return page, err
		}

		if flow.ContactInfoSatisfied(meta, r.store.Session().ContactInfo) {
			return r.next(page)
		}
		r.printf("Please provide a contact name and email.\n")
	}
}

func (r *runner) submit(ctx context.Context) (flow.Page, error) {
	result, err := r.client.Submit(ctx, r.slug, r.store.Session(), r.skipContact)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
			r.printf("Submission rejected: %s\n", apiErr.Message)
			return flow.ReviewPage(), nil
		}
		return flow.ReviewPage(), fmt.Errorf("failed to submit response: %w", err)
	}

	r.logger.Info("Response submitted",
		zap.String("slug", r.slug),
		zap.String("response_id", result.ResponseID),
		zap.Int("item_count", result.ItemCount),
		zap.Int("skipped", len(result.Skipped)))
	if err := r.store.ClearSession(); err != nil {
		r.logger.Warn("Failed to clear session after submit", zap.Error(err))
	}
	return flow.ThankYouPage(), nil
}

// prompt reads one trimmed line. "q" and end of input quit.
func (r *runner) prompt(label string) (string, error) {
	r.printf("%s> ", label)
	if !r.in.Scan() {
		if err := r.in.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	input := strings.TrimSpace(r.in.Text())
	if input == "q" {
		return "", errQuit
	}
	return input, nil
}

func (r *runner) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format, args...)
}

func questionHint(question *models.QuestionDef) string {
	switch question.Type {
	case models.QuestionSelect:
		return "Pick one number"
	case models.QuestionMultiselect:
		return "Pick numbers separated by commas"
	case models.QuestionNumber:
		return "Enter a number"
	default:
		return "Answer"
	}
}

// parseAnswer turns terminal input into a session value. Options are picked
// by their 1-based position.
func parseAnswer(question *models.QuestionDef, input string) (session.Value, error) {
	switch question.Type {
	case models.QuestionSelect:
		if input == "" {
			return session.Text(""), nil
		}
		option, err := pickOption(question, input)
		if err != nil {
			return session.Value{}, err
		}
		return session.Text(option), nil
	case models.QuestionMultiselect:
		values := []string{}
		for _, part := range strings.Split(input, ",") {
			if part = strings.TrimSpace(part); part == "" {
				continue
			}
			option, err := pickOption(question, part)
			if err != nil {
				return session.Value{}, err
			}
			values = append(values, option)
		}
		return session.List(values...), nil
	case models.QuestionNumber:
		if input != "" {
			if _, err := strconv.ParseFloat(input, 64); err != nil {
				return session.Value{}, fmt.Errorf("%q is not a number", input)
			}
		}
		return session.Text(input), nil
	default:
		return session.Text(input), nil
	}
}

func pickOption(question *models.QuestionDef, input string) (string, error) {
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(question.Options) {
		return "", fmt.Errorf("pick a number between 1 and %d", len(question.Options))
	}
	return question.Options[n-1].Value, nil
}
