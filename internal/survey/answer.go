package survey

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/health-survey-api/internal/models"
)

// DateLayout is the stored text form of date answers.
const DateLayout = "2006-01-02"

// Answer is a typed answer value. Exactly one payload field is meaningful,
// selected by Kind.
type Answer struct {
	Kind   models.FieldType
	Text   string
	Number float64
	Bool   bool
	Date   time.Time
}

// TextAnswer builds a text answer.
func TextAnswer(v string) Answer { return Answer{Kind: models.FieldTypeText, Text: v} }

// NumberAnswer builds a numeric answer.
func NumberAnswer(v float64) Answer { return Answer{Kind: models.FieldTypeNumber, Number: v} }

// ChoiceAnswer builds a dropdown answer.
func ChoiceAnswer(v string) Answer { return Answer{Kind: models.FieldTypeDropdown, Text: v} }

// CheckboxAnswer builds a checkbox answer.
func CheckboxAnswer(v bool) Answer { return Answer{Kind: models.FieldTypeCheckbox, Bool: v} }

// DateAnswer builds a date answer.
func DateAnswer(v time.Time) Answer { return Answer{Kind: models.FieldTypeDate, Date: v} }

// String renders the answer the way it is persisted.
func (a Answer) String() string {
	switch a.Kind {
	case models.FieldTypeNumber:
		return strconv.FormatFloat(a.Number, 'f', -1, 64)
	case models.FieldTypeCheckbox:
		return strconv.FormatBool(a.Bool)
	case models.FieldTypeDate:
		return a.Date.Format(DateLayout)
	default:
		return a.Text
	}
}

// Blank reports whether the answer counts as unanswered for a required field.
// Zero and an unchecked checkbox count as unanswered.
func (a Answer) Blank() bool {
	switch a.Kind {
	case models.FieldTypeNumber:
		return a.Number == 0
	case models.FieldTypeCheckbox:
		return !a.Bool
	case models.FieldTypeDate:
		return a.Date.IsZero()
	default:
		return strings.TrimSpace(a.Text) == ""
	}
}

// Answers maps field ids to typed answers.
type Answers map[string]Answer

// Collect coerces raw client values, keyed by field id, into typed answers.
// Absent and null values are skipped. Values that cannot be coerced, dropdown
// values outside the option list and fields of unknown type are reported as
// warnings and left unanswered.
func Collect(fields []models.SurveyField, raw map[string]any) (Answers, []string) {
	answers := make(Answers, len(raw))
	var warnings []string
	for _, field := range Ordered(fields) {
		value, ok := raw[field.ID]
		if !ok || value == nil {
			continue
		}
		if !field.Type.Known() {
			warnings = append(warnings, fmt.Sprintf("unsupported field type %q for %q", field.Type, field.Label))
			continue
		}
		answer, present, err := coerce(field, value)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", field.Label, err))
			continue
		}
		if present {
			answers[field.ID] = answer
		}
	}
	return answers, warnings
}

func coerce(field models.SurveyField, value any) (Answer, bool, error) {
	switch field.Type {
	case models.FieldTypeText:
		return TextAnswer(stringify(value)), true, nil
	case models.FieldTypeNumber:
		n, present, err := toNumber(value)
		return NumberAnswer(n), present, err
	case models.FieldTypeDropdown:
		choice := strings.TrimSpace(stringify(value))
		if choice == "" {
			return Answer{}, false, nil
		}
		for _, option := range field.Options {
			if option == choice {
				return ChoiceAnswer(choice), true, nil
			}
		}
		return Answer{}, false, fmt.Errorf("%q is not one of the available choices", choice)
	case models.FieldTypeCheckbox:
		b, err := toBool(value)
		return CheckboxAnswer(b), err == nil, err
	case models.FieldTypeDate:
		s := strings.TrimSpace(stringify(value))
		if s == "" {
			return Answer{}, false, nil
		}
		d, err := toDate(s)
		return DateAnswer(d), err == nil, err
	}
	return Answer{}, false, nil
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func toNumber(value any) (float64, bool, error) {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false, fmt.Errorf("%v is not a finite number", v)
		}
		return v, true, nil
	case float32:
		return float64(v), true, nil
	case int:
		return float64(v), true, nil
	case int64:
		return float64(v), true, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false, fmt.Errorf("%q is not a number", v.String())
		}
		return f, true, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false, fmt.Errorf("%q is not a number", v)
		}
		return f, true, nil
	default:
		return 0, false, fmt.Errorf("unexpected value %v for a number", value)
	}
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case float64:
		return v != 0, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "yes", "1":
			return true, nil
		case "false", "off", "no", "0", "":
			return false, nil
		}
	}
	return false, fmt.Errorf("unexpected value %v for a checkbox", value)
}

func toDate(s string) (time.Time, error) {
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d, nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := ts.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("%q is not a date (expected YYYY-MM-DD)", s)
}
