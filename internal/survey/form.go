package survey

import (
	"fmt"
	"sort"

	"github.com/noah-isme/health-survey-api/internal/models"
)

// Widget names the kind of input a client should draw for a field.
type Widget string

const (
	WidgetText     Widget = "text_input"
	WidgetNumber   Widget = "number_input"
	WidgetSelect   Widget = "select"
	WidgetCheckbox Widget = "checkbox"
	WidgetDate     Widget = "date_input"
)

// Input describes one rendered form control.
type Input struct {
	FieldID  string           `json:"field_id"`
	Label    string           `json:"label"`
	Type     models.FieldType `json:"type"`
	Widget   Widget           `json:"widget"`
	Required bool             `json:"required"`
	Options  []string         `json:"options,omitempty"`
	Order    int              `json:"order"`
}

// Form is the framework-agnostic description of a survey form.
type Form struct {
	SurveyID string   `json:"survey_id"`
	Inputs   []Input  `json:"inputs"`
	Warnings []string `json:"warnings,omitempty"`
}

// Render produces one input per field in display order. Fields of an unknown
// type are reported as warnings and left out of the form.
func Render(surveyID string, fields []models.SurveyField) Form {
	form := Form{SurveyID: surveyID, Inputs: make([]Input, 0, len(fields))}
	for _, field := range Ordered(fields) {
		widget, ok := widgetFor(field.Type)
		if !ok {
			form.Warnings = append(form.Warnings, fmt.Sprintf("unsupported field type %q for %q", field.Type, field.Label))
			continue
		}
		input := Input{
			FieldID:  field.ID,
			Label:    field.Label,
			Type:     field.Type,
			Widget:   widget,
			Required: field.Required,
			Order:    field.Order,
		}
		if field.Type == models.FieldTypeDropdown {
			input.Options = append([]string{}, field.Options...)
			if len(input.Options) == 0 {
				form.Warnings = append(form.Warnings, fmt.Sprintf("dropdown %q has no choices", field.Label))
			}
		}
		form.Inputs = append(form.Inputs, input)
	}
	return form
}

// Ordered returns a copy of fields sorted ascending by order, then id.
func Ordered(fields []models.SurveyField) []models.SurveyField {
	out := append([]models.SurveyField(nil), fields...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func widgetFor(t models.FieldType) (Widget, bool) {
	switch t {
	case models.FieldTypeText:
		return WidgetText, true
	case models.FieldTypeNumber:
		return WidgetNumber, true
	case models.FieldTypeDropdown:
		return WidgetSelect, true
	case models.FieldTypeCheckbox:
		return WidgetCheckbox, true
	case models.FieldTypeDate:
		return WidgetDate, true
	default:
		return "", false
	}
}
