package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// FieldType enumerates the supported survey question types.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDropdown FieldType = "dropdown"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeDate     FieldType = "date"
)

// Known reports whether the type is one the form renderer understands.
func (t FieldType) Known() bool {
	switch t {
	case FieldTypeText, FieldTypeNumber, FieldTypeDropdown, FieldTypeCheckbox, FieldTypeDate:
		return true
	}
	return false
}

// Survey is a named set of ordered fields collected from employees.
type Survey struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedBy *string   `db:"created_by" json:"created_by,omitempty"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SurveySummary is a survey row enriched for listings.
type SurveySummary struct {
	Survey
	FieldCount     int  `db:"field_count" json:"field_count"`
	ResponseCount  int  `db:"response_count" json:"response_count"`
	CompletedToday bool `db:"completed_today" json:"completed_today"`
}

// SurveyDetail bundles a survey with its ordered fields and publication list.
type SurveyDetail struct {
	Survey
	Fields         []SurveyField `json:"fields"`
	GovernorateIDs []string      `json:"governorate_ids"`
}

// SurveyField is one question of a survey.
type SurveyField struct {
	ID       string       `db:"id" json:"id"`
	SurveyID string       `db:"survey_id" json:"survey_id"`
	Label    string       `db:"label" json:"label"`
	Type     FieldType    `db:"field_type" json:"type"`
	Options  FieldOptions `db:"options" json:"options,omitempty"`
	Required bool         `db:"is_required" json:"required"`
	Order    int          `db:"field_order" json:"order"`
}

// FieldOptions is the ordered choice list of a dropdown field, persisted as a JSON array.
type FieldOptions []string

// Value marshals the options to JSON, storing NULL when empty.
func (o FieldOptions) Value() (driver.Value, error) {
	if len(o) == 0 {
		return nil, nil
	}
	data, err := json.Marshal([]string(o))
	if err != nil {
		return nil, fmt.Errorf("marshal field options: %w", err)
	}
	return data, nil
}

// Scan decodes a stored JSON array. Undecodable payloads yield no options
// rather than failing the whole field listing.
func (o *FieldOptions) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*o = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for FieldOptions", value)
	}
	var decoded []string
	if err := json.Unmarshal(data, &decoded); err != nil {
		*o = nil
		return nil
	}
	*o = decoded
	return nil
}
