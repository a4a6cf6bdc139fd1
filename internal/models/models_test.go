package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndYearResolve(t *testing.T) {
	assert.Equal(t, 2021, Year(2021).Resolve(2026))
	assert.Equal(t, 2026, Ongoing().Resolve(2026))
}

func TestEndYearJSON(t *testing.T) {
	tests := []struct {
		name string
		in   EndYear
		want string
	}{
		{name: "Closed year", in: Year(2019), want: `2019`},
		{name: "Ongoing", in: Ongoing(), want: `"ongoing"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))

			var decoded EndYear
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, tt.in, decoded)
		})
	}
}

func TestEndYearUnmarshalRejectsUnknownLabel(t *testing.T) {
	var e EndYear
	err := json.Unmarshal([]byte(`"someday"`), &e)
	assert.Error(t, err)
}

func TestExperienceSerialization(t *testing.T) {
	exp := Experience{
		Title:     "Lead Developer",
		Company:   "Acme Corp",
		StartYear: 2021,
		EndYear:   Ongoing(),
	}

	data, err := json.Marshal(exp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"end_date":"ongoing"`)
	assert.Contains(t, string(data), `"start_date":2021`)
}
