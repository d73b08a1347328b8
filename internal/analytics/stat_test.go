package analytics

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStat_Fmt(t *testing.T) {
	assert.Equal(t, "0.832", Stat(0.8320502943).Fmt(3))
	assert.Equal(t, "N/A", NaN().Fmt(3))
	assert.Equal(t, "N/A", Stat(math.Inf(1)).Fmt(2))
	assert.Equal(t, "12.5%", Stat(12.5).Percent(1))
	assert.Equal(t, "N/A", NaN().Percent(1))
}

func TestStat_JSONNonFinite(t *testing.T) {
	in := struct {
		A Stat `json:"a"`
		B Stat `json:"b"`
		C Stat `json:"c"`
		D Stat `json:"d"`
	}{NaN(), Stat(math.Inf(1)), Stat(math.Inf(-1)), Stat(0.1)}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"NaN","b":"+Inf","c":"-Inf","d":0.1}`, string(data))

	var out struct {
		A Stat `json:"a"`
		B Stat `json:"b"`
		C Stat `json:"c"`
		D Stat `json:"d"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, math.IsNaN(out.A.Float()))
	assert.True(t, math.IsInf(out.B.Float(), 1))
	assert.True(t, math.IsInf(out.C.Float(), -1))
	assert.Equal(t, Stat(0.1), out.D)

	var bad Stat
	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &bad))
}

func TestSummary_MarshalsEmpty(t *testing.T) {
	data, err := json.Marshal(Summarize(nil))
	require.NoError(t, err)

	var back Summary
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, math.IsNaN(back.MAE.Float()))
	assert.Equal(t, Stat(0), back.FlaggedPercent)
}
