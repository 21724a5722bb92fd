package flow

import (
	"strings"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/session"
)

const fallbackMaxItems = 10

var defaultMaxItems = map[string]int{
	"purchases":     10,
	"waste_streams": 7,
}

// FlowSections are the sections a participant steps through: contact
// sections and sections without questions are left out.
func FlowSections(def *models.SurveyDefinition) []*models.SectionDef {
	sections := []*models.SectionDef{}
	for i := range def.Sections {
		s := &def.Sections[i]
		if len(s.Questions) == 0 {
			continue
		}
		if strings.Contains(strings.ToLower(s.Title), "contact") {
			continue
		}
		sections = append(sections, s)
	}
	return sections
}

// RepeatGroup returns the section's first repeat group, or nil.
func RepeatGroup(section *models.SectionDef) *models.RepeatGroupDef {
	if section == nil || len(section.RepeatGroups) == 0 {
		return nil
	}
	return &section.RepeatGroups[0]
}

// RepeatGroupKey resolves the key whose count drives the section: the repeat
// group's key, else the first question tagged with one. Empty means the
// section is asked once.
func RepeatGroupKey(section *models.SectionDef) string {
	if g := RepeatGroup(section); g != nil && g.RepeatGroupKey != "" {
		return g.RepeatGroupKey
	}
	if section == nil {
		return ""
	}
	for _, q := range section.Questions {
		if q.RepeatGroupKey != nil && *q.RepeatGroupKey != "" {
			return *q.RepeatGroupKey
		}
	}
	return ""
}

func IsRepeating(section *models.SectionDef) bool {
	return RepeatGroupKey(section) != ""
}

// ItemBounds returns the min and max item counts for section.
func ItemBounds(section *models.SectionDef) (minItems, maxItems int) {
	g := RepeatGroup(section)
	if g == nil {
		return 1, 1
	}
	minItems = g.MinItems
	if minItems < 1 {
		minItems = 1
	}
	maxItems = g.MaxItems
	if maxItems < 1 {
		maxItems = DefaultMaxItems(g.RepeatGroupKey)
	}
	return minItems, maxItems
}

// DefaultMaxItems is the item cap used when a group has no maximum.
func DefaultMaxItems(groupKey string) int {
	if d, ok := defaultMaxItems[groupKey]; ok {
		return d
	}
	return fallbackMaxItems
}

// ClampRepeatCount bounds n to the section's item limits.
func ClampRepeatCount(section *models.SectionDef, n int) int {
	minItems, maxItems := ItemBounds(section)
	if n > maxItems {
		n = maxItems
	}
	if n < minItems {
		n = minItems
	}
	return n
}

// CapRepeatCounts lowers every stored repeat count above its section's
// maximum to that maximum. Counts come from the client and bound how many
// items are evaluated. Counts below the minimum are left for
// EnsureMinimumItems to report.
func CapRepeatCounts(def *models.SurveyDefinition, sess *session.Session) {
	if def == nil || sess == nil || sess.RepeatCounts == nil {
		return
	}
	for _, section := range FlowSections(def) {
		key := RepeatGroupKey(section)
		if key == "" {
			continue
		}
		count, ok := sess.RepeatCounts[key]
		if !ok {
			continue
		}
		if _, maxItems := ItemBounds(section); count > maxItems {
			sess.RepeatCounts[key] = maxItems
		}
	}
}

// RepeatChange is a repeat count the caller should store.
type RepeatChange struct {
	GroupKey string
	Count    int
}

// EnsureMinimumItems returns the change needed to lift the section's count
// to its minimum, if any.
func EnsureMinimumItems(section *models.SectionDef, sess *session.Session) (RepeatChange, bool) {
	key := RepeatGroupKey(section)
	if key == "" {
		return RepeatChange{}, false
	}
	minItems, _ := ItemBounds(section)
	if sess.RepeatCount(key) >= minItems {
		return RepeatChange{}, false
	}
	return RepeatChange{GroupKey: key, Count: minItems}, true
}

// AddItem returns the count after adding one item, refusing past the maximum.
func AddItem(section *models.SectionDef, sess *session.Session) (RepeatChange, bool) {
	key := RepeatGroupKey(section)
	if key == "" {
		return RepeatChange{}, false
	}
	_, maxItems := ItemBounds(section)
	count := sess.RepeatCount(key)
	if count >= maxItems {
		return RepeatChange{}, false
	}
	return RepeatChange{GroupKey: key, Count: count + 1}, true
}

// RemoveItem returns the count after dropping the last item, refusing below
// the minimum. Answers of the dropped item are left in the session.
func RemoveItem(section *models.SectionDef, sess *session.Session) (RepeatChange, bool) {
	key := RepeatGroupKey(section)
	if key == "" {
		return RepeatChange{}, false
	}
	minItems, _ := ItemBounds(section)
	count := sess.RepeatCount(key)
	if count <= minItems {
		return RepeatChange{}, false
	}
	return RepeatChange{GroupKey: key, Count: count - 1}, true
}
