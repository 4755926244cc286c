package survey

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/health-survey-api/internal/models"
)

func sampleFields() []models.SurveyField {
	return []models.SurveyField{
		{ID: "f-age", Label: "Age", Type: models.FieldTypeNumber, Order: 2},
		{ID: "f-name", Label: "Name", Type: models.FieldTypeText, Required: true, Order: 1},
	}
}

func TestRenderOrdersAndDispatchesByType(t *testing.T) {
	fields := []models.SurveyField{
		{ID: "d", Label: "Visited", Type: models.FieldTypeDate, Order: 5},
		{ID: "c", Label: "Consent", Type: models.FieldTypeCheckbox, Order: 4},
		{ID: "s", Label: "Shift", Type: models.FieldTypeDropdown, Options: models.FieldOptions{"Day", "Night"}, Order: 3},
		{ID: "x", Label: "Mood", Type: models.FieldType("slider"), Order: 0},
		{ID: "n", Label: "Count", Type: models.FieldTypeNumber, Order: 2},
		{ID: "t", Label: "Notes", Type: models.FieldTypeText, Order: 1},
	}

	form := Render("survey-1", fields)

	require.Len(t, form.Inputs, 5)
	assert.Equal(t, "survey-1", form.SurveyID)
	assert.Equal(t, []Widget{WidgetText, WidgetNumber, WidgetSelect, WidgetCheckbox, WidgetDate}, []Widget{
		form.Inputs[0].Widget, form.Inputs[1].Widget, form.Inputs[2].Widget, form.Inputs[3].Widget, form.Inputs[4].Widget,
	})
	assert.Equal(t, []string{"Day", "Night"}, form.Inputs[2].Options)
	require.Len(t, form.Warnings, 1)
	assert.Contains(t, form.Warnings[0], "Mood")
}

func TestRenderWarnsOnEmptyDropdown(t *testing.T) {
	form := Render("s", []models.SurveyField{{ID: "a", Label: "Pick", Type: models.FieldTypeDropdown}})
	require.Len(t, form.Inputs, 1)
	assert.Empty(t, form.Inputs[0].Options)
	assert.Len(t, form.Warnings, 1)
}

func TestOrderedIsNonDecreasing(t *testing.T) {
	fields := []models.SurveyField{{ID: "b", Order: 3}, {ID: "a", Order: 1}, {ID: "c", Order: 3}, {ID: "d", Order: -1}}
	ordered := Ordered(fields)
	for i := 1; i < len(ordered); i++ {
		assert.LessOrEqual(t, ordered[i-1].Order, ordered[i].Order)
	}
	assert.Equal(t, "b", ordered[2].ID)
	assert.Equal(t, "b", fields[0].ID, "input slice must not be reordered")
}

func TestCollectCoercesByType(t *testing.T) {
	fields := []models.SurveyField{
		{ID: "t", Label: "Notes", Type: models.FieldTypeText},
		{ID: "n", Label: "Count", Type: models.FieldTypeNumber},
		{ID: "s", Label: "Shift", Type: models.FieldTypeDropdown, Options: models.FieldOptions{"Day", "Night"}},
		{ID: "c", Label: "Consent", Type: models.FieldTypeCheckbox},
		{ID: "d", Label: "Visited", Type: models.FieldTypeDate},
	}
	raw := map[string]any{
		"t": "hello",
		"n": "12.50",
		"s": "Night",
		"c": "on",
		"d": "2024-03-05",
	}

	answers, warnings := Collect(fields, raw)

	assert.Empty(t, warnings)
	assert.Equal(t, "hello", answers["t"].String())
	assert.Equal(t, "12.5", answers["n"].String())
	assert.Equal(t, "Night", answers["s"].String())
	assert.Equal(t, "true", answers["c"].String())
	assert.Equal(t, "2024-03-05", answers["d"].String())
}

func TestCollectRejectsInvalidValues(t *testing.T) {
	fields := []models.SurveyField{
		{ID: "n", Label: "Count", Type: models.FieldTypeNumber},
		{ID: "s", Label: "Shift", Type: models.FieldTypeDropdown, Options: models.FieldOptions{"Day"}},
		{ID: "e", Label: "Empty", Type: models.FieldTypeDropdown},
		{ID: "d", Label: "Visited", Type: models.FieldTypeDate},
		{ID: "u", Label: "Mood", Type: models.FieldType("slider")},
	}
	raw := map[string]any{"n": "abc", "s": "Night", "e": "anything", "d": "05/03/2024", "u": 3.0, "missing": "x"}

	answers, warnings := Collect(fields, raw)

	assert.Empty(t, answers)
	assert.Len(t, warnings, 5)
}

func TestCollectSkipsNullAndBlankNumbers(t *testing.T) {
	answers, warnings := Collect(sampleFields(), map[string]any{"f-name": "", "f-age": nil})
	assert.Empty(t, warnings)
	require.Contains(t, answers, "f-name")
	assert.NotContains(t, answers, "f-age")

	answers, _ = Collect(sampleFields(), map[string]any{"f-age": " "})
	assert.NotContains(t, answers, "f-age")
}

func TestValidateMissingRequired(t *testing.T) {
	answers, _ := Collect(sampleFields(), map[string]any{"f-name": "", "f-age": 30.0})

	assert.Equal(t, []string{"Name"}, Validate(sampleFields(), answers, true))
	assert.Empty(t, Validate(sampleFields(), answers, false))
	assert.Equal(t, []string{"Name"}, Validate(sampleFields(), Answers{}, true))
}

func TestValidateDraftNeverReportsMissing(t *testing.T) {
	assert.Nil(t, Validate(sampleFields(), nil, false))
}

func TestValidateFalsyValues(t *testing.T) {
	fields := []models.SurveyField{
		{ID: "n", Label: "Count", Type: models.FieldTypeNumber, Required: true, Order: 1},
		{ID: "c", Label: "Consent", Type: models.FieldTypeCheckbox, Required: true, Order: 2},
		{ID: "t", Label: "Notes", Type: models.FieldTypeText, Required: true, Order: 3},
	}
	answers := Answers{"n": NumberAnswer(0), "c": CheckboxAnswer(false), "t": TextAnswer("   ")}

	assert.Equal(t, []string{"Count", "Consent", "Notes"}, Validate(fields, answers, true))

	collected, warnings := Collect(fields[:1], map[string]any{"n": 0.0})
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"Count"}, Validate(fields[:1], collected, true))
}

func TestCollectRejectsNonFiniteNumbers(t *testing.T) {
	fields := []models.SurveyField{{ID: "n", Label: "Count", Type: models.FieldTypeNumber}}

	for _, raw := range []any{"NaN", "Inf", "-Inf", " +inf ", json.Number("NaN")} {
		answers, warnings := Collect(fields, map[string]any{"n": raw})
		assert.Empty(t, answers, "%v", raw)
		require.Len(t, warnings, 1, "%v", raw)
		assert.Contains(t, warnings[0], "Count")
	}
}

func TestDetailsStringifiesAnswers(t *testing.T) {
	answers, _ := Collect(sampleFields(), map[string]any{"f-name": "x", "f-age": 5.0})

	details := Details("resp-1", sampleFields(), answers)

	require.Len(t, details, 2)
	assert.Equal(t, models.ResponseDetail{ResponseID: "resp-1", FieldID: "f-name", AnswerValue: "x"}, details[0])
	assert.Equal(t, models.ResponseDetail{ResponseID: "resp-1", FieldID: "f-age", AnswerValue: "5"}, details[1])
}

func TestDayRange(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	at := time.Date(2024, 5, 1, 22, 30, 0, 0, time.UTC) // 01:30 on May 2nd at UTC+3

	start, end := DayRange(at, loc)

	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, loc), start)
	assert.Equal(t, 24*time.Hour, end.Sub(start))
	assert.False(t, at.Before(start))
	assert.True(t, at.Before(end))
}
