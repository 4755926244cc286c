package survey

import "github.com/noah-isme/health-survey-api/internal/models"

// Validate returns the labels of required fields left unanswered, in display
// order. Drafts are never validated.
func Validate(fields []models.SurveyField, answers Answers, isCompleted bool) []string {
	if !isCompleted {
		return nil
	}
	var missing []string
	for _, field := range Ordered(fields) {
		if !field.Required {
			continue
		}
		answer, ok := answers[field.ID]
		if !ok || answer.Blank() {
			missing = append(missing, field.Label)
		}
	}
	return missing
}

// Details converts answers into detail rows for the given response, in field order.
func Details(responseID string, fields []models.SurveyField, answers Answers) []models.ResponseDetail {
	details := make([]models.ResponseDetail, 0, len(answers))
	for _, field := range Ordered(fields) {
		answer, ok := answers[field.ID]
		if !ok {
			continue
		}
		details = append(details, models.ResponseDetail{
			ResponseID:  responseID,
			FieldID:     field.ID,
			AnswerValue: answer.String(),
		})
	}
	return details
}
