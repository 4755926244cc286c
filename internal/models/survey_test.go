package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldOptionsScan(t *testing.T) {
	var opts FieldOptions
	require.NoError(t, opts.Scan([]byte(`["Yes","No"]`)))
	assert.Equal(t, FieldOptions{"Yes", "No"}, opts)

	require.NoError(t, opts.Scan("not json"))
	assert.Empty(t, opts)

	require.NoError(t, opts.Scan(nil))
	assert.Nil(t, opts)

	assert.Error(t, opts.Scan(42))
}

func TestFieldOptionsValue(t *testing.T) {
	v, err := FieldOptions(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = FieldOptions{"A"}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `["A"]`, string(v.([]byte)))
}

func TestExportJobParamsRoundTrip(t *testing.T) {
	in := ExportJobParams{SurveyID: "s-1", Format: ExportFormatCSV}
	raw, err := in.Value()
	require.NoError(t, err)

	var out ExportJobParams
	require.NoError(t, out.Scan(raw))
	assert.Equal(t, "s-1", out.SurveyID)
	assert.Equal(t, ExportFormatCSV, out.Format)
	assert.NotNil(t, out.Extras)
	assert.Empty(t, out.Extras)
}

func TestExportJobParamsScanKeepsExtras(t *testing.T) {
	var out ExportJobParams
	require.NoError(t, out.Scan(`{"format":"pdf","extras":{"from":"2024-05-01"}}`))
	assert.Equal(t, ExportFormatPDF, out.Format)
	assert.Equal(t, map[string]string{"from": "2024-05-01"}, out.Extras)

	var empty ExportJobParams
	require.NoError(t, empty.Scan(nil))
	assert.NotNil(t, empty.Extras)
}

func TestFieldTypeKnown(t *testing.T) {
	assert.True(t, FieldTypeDate.Known())
	assert.False(t, FieldType("slider").Known())
	assert.True(t, RoleEmployee.Valid())
	assert.False(t, UserRole("SUPERADMIN").Valid())
}
