package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Value is an answer payload: either a single string or a list of strings.
// The shape it was built or decoded with is kept so that it encodes back the
// same way.
type Value struct {
	text  string
	list  []string
	multi bool
}

func Text(s string) Value {
	return Value{text: s}
}

func List(values ...string) Value {
	return Value{list: append([]string{}, values...), multi: true}
}

func (v Value) IsList() bool {
	return v.multi
}

// Strings returns the list form. A single string becomes a one-element list,
// an empty string an empty list.
func (v Value) Strings() []string {
	if v.multi {
		return append([]string{}, v.list...)
	}
	if v.text == "" {
		return []string{}
	}
	return []string{v.text}
}

// String renders the value as text. Lists are comma joined.
func (v Value) String() string {
	if v.multi {
		return strings.Join(v.list, ",")
	}
	return v.text
}

// IsEmpty reports a missing answer: an empty list or whitespace-only text.
func (v Value) IsEmpty() bool {
	if v.multi {
		return len(v.list) == 0
	}
	return strings.TrimSpace(v.text) == ""
}

// Includes reports whether s is the value or one of the list entries.
func (v Value) Includes(s string) bool {
	if !v.multi {
		return v.text == s
	}
	for _, item := range v.list {
		if item == s {
			return true
		}
	}
	return false
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.multi {
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	}
	return json.Marshal(v.text)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*v = Value{}
		return nil
	case len(trimmed) > 0 && trimmed[0] == '[':
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return fmt.Errorf("answer value list: %w", err)
		}
		if list == nil {
			list = []string{}
		}
		*v = Value{list: list, multi: true}
		return nil
	default:
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return fmt.Errorf("answer value must be a string or a list of strings: %w", err)
		}
		*v = Value{text: text}
		return nil
	}
}

// AnswerValue is what the participant entered for one question in one item.
type AnswerValue struct {
	Value Value   `json:"value"`
	Other *string `json:"other,omitempty"`
}

// OtherText returns the "other" detail, empty when unset.
func (a AnswerValue) OtherText() string {
	if a.Other == nil {
		return ""
	}
	return *a.Other
}

// WithOther returns a copy carrying the given "other" detail.
func (a AnswerValue) WithOther(other string) AnswerValue {
	a.Other = &other
	return a
}

// AnswerKey addresses an answer inside Session.Answers.
func AnswerKey(questionID string, repeatIndex int) string {
	return fmt.Sprintf("%s:%d", questionID, repeatIndex)
}

// ParseAnswerKey splits an answer key on its last colon.
func ParseAnswerKey(key string) (questionID string, repeatIndex int, err error) {
	i := strings.LastIndex(key, ":")
	if i <= 0 {
		return "", 0, fmt.Errorf("malformed answer key %q", key)
	}
	repeatIndex, err = strconv.Atoi(key[i+1:])
	if err != nil {
		return "", 0, fmt.Errorf("malformed answer key %q: %w", key, err)
	}
	if repeatIndex < 0 {
		return "", 0, fmt.Errorf("malformed answer key %q: negative repeat index", key)
	}
	return key[:i], repeatIndex, nil
}
