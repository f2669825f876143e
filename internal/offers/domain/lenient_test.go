package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLenientUnmarshal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want float64
	}{
		{"number", `{"v": 1234.5}`, 1234.5},
		{"quoted number", `{"v": "99"}`, 99},
		{"null", `{"v": null}`, 0},
		{"empty string", `{"v": ""}`, 0},
		{"garbage string", `{"v": "not a number"}`, 0},
		{"boolean", `{"v": true}`, 0},
		{"missing", `{}`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out struct {
				V Lenient `json:"v"`
			}
			require.NoError(t, json.Unmarshal([]byte(tc.in), &out))
			assert.Equal(t, tc.want, out.V.Float())
		})
	}
}

func TestLenientMarshalSanitizes(t *testing.T) {
	data, err := json.Marshal(Lenient(42.5))
	require.NoError(t, err)
	assert.Equal(t, "42.5", string(data))
}

func TestClampStep(t *testing.T) {
	assert.Equal(t, StepProperty, ClampStep(-3))
	assert.Equal(t, 2, ClampStep(2))
	assert.Equal(t, LastStep, ClampStep(99))
}

func TestNewDraftDefaults(t *testing.T) {
	d := NewDraft()
	assert.Equal(t, FinancingConventional, d.Financing)
	assert.Equal(t, ModePercent, d.DownPaymentMode)
	assert.Equal(t, StepProperty, d.Step)
	assert.NotNil(t, d.Attachments)
	assert.Empty(t, d.ID)
}
