package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryFilterValidate_Defaults(t *testing.T) {
	filter := HistoryFilter{}

	require.NoError(t, filter.Validate())

	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 20, filter.Limit)
	assert.Equal(t, "desc", filter.SortOrder)
}

func TestHistoryFilterValidate_LimitCap(t *testing.T) {
	filter := HistoryFilter{Limit: 101}

	assert.Error(t, filter.Validate())
}

func TestHistoryFilterValidate_BadStatus(t *testing.T) {
	status := "break_end"
	filter := HistoryFilter{Status: &status}

	assert.Error(t, filter.Validate())
}

func TestHistoryFilterValidate_BadDate(t *testing.T) {
	date := "09-03-2026"
	filter := HistoryFilter{StartDate: &date}

	assert.Error(t, filter.Validate())
}

func TestSummaryRequestValidate(t *testing.T) {
	month, year := 2, 2026
	req := SummaryRequest{Month: &month, Year: &year}

	assert.NoError(t, req.Validate())
}

func TestSummaryRequestValidate_BadEmployeeID(t *testing.T) {
	id := "not-a-uuid"
	req := SummaryRequest{EmployeeID: &id}

	assert.Error(t, req.Validate())
}
