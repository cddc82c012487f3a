package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClass(t *testing.T) {
	tests := []struct {
		label string
		want  Class
		ok    bool
	}{
		{"Dropout", ClassDropout, true},
		{"Enrolled", ClassEnrolled, true},
		{"Graduate", ClassGraduate, true},
		{"graduate", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := ParseClass(tt.label)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
				assert.Equal(t, tt.label, got.String())
			}
		})
	}
}

func TestEncodeClass(t *testing.T) {
	assert.Equal(t, 0.0, EncodeClass("Dropout"))
	assert.Equal(t, 1.0, EncodeClass("Enrolled"))
	assert.Equal(t, 2.0, EncodeClass("Graduate"))
	assert.True(t, math.IsNaN(EncodeClass("Unknown")))
}

func TestPerClassF1_Accessors(t *testing.T) {
	p := NewPerClassF1(0.71, 0.42, 0.83)
	assert.Equal(t, 0.71, p.Dropout())
	assert.Equal(t, 0.42, p.Enrolled())
	assert.Equal(t, 0.83, p.Graduate())
	assert.Equal(t, p.Enrolled(), p.At(ClassEnrolled))
}

func TestPerClassF1_JSON(t *testing.T) {
	var p PerClassF1
	require.NoError(t, json.Unmarshal([]byte(`[0.7, 0.4, 0.8]`), &p))
	assert.Equal(t, NewPerClassF1(0.7, 0.4, 0.8), p)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `[0.7, 0.4, 0.8]`, string(data))

	err = json.Unmarshal([]byte(`[0.7, 0.4]`), &p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 3 values, got 2")
}

func TestModelResult_Type(t *testing.T) {
	tests := []struct {
		name   string
		result ModelResult
		want   string
	}{
		{"plain", ModelResult{}, TypeModel},
		{"baseline", ModelResult{IsBaseline: true}, TypeBaseline},
		{"ensemble", ModelResult{IsEnsemble: true}, TypeEnsemble},
		{"both tags prefers baseline", ModelResult{IsBaseline: true, IsEnsemble: true}, TypeBaseline},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.Type())
		})
	}
}

func TestComparisonRun_Top(t *testing.T) {
	run := ComparisonRun{{ModelName: "a"}, {ModelName: "b"}}

	assert.Len(t, run.Top(3), 2)
	assert.Len(t, run.Top(1), 1)
	assert.Empty(t, run.Top(0))
	assert.Empty(t, run.Top(-1))

	top := run.Top(1)
	top = append(top, ModelResult{ModelName: "x"})
	assert.Equal(t, "b", run[1].ModelName, "appending to Top must not overwrite the run")
	assert.Len(t, top, 2)
}

func TestComparisonRun_Best(t *testing.T) {
	_, ok := ComparisonRun{}.Best()
	assert.False(t, ok)

	best, ok := ComparisonRun{{ModelName: "a"}, {ModelName: "b"}}.Best()
	assert.True(t, ok)
	assert.Equal(t, "a", best.ModelName)
}
