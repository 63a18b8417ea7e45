package sink

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clustercore/domuopt/internal/analyze"
)

func TestCounting_IgnoresNoneAndNeverStops(t *testing.T) {
	c := &Counting{}

	assert.True(t, c.Accept(analyze.Result{Level: analyze.AlertLevelNone}))
	assert.True(t, c.Accept(analyze.Result{Level: analyze.AlertLevelLow}))
	assert.True(t, c.Accept(analyze.Result{Level: analyze.AlertLevelCritical}))

	assert.Equal(t, 2, c.Total)
}

func TestCollecting_KeepsEveryResultInOrder(t *testing.T) {
	c := &Collecting{}

	c.Accept(analyze.Result{Label: "first", Level: analyze.AlertLevelNone})
	c.Accept(analyze.Result{Label: "second", Level: analyze.AlertLevelHigh})

	assert.Equal(t, []analyze.Result{
		{Label: "first", Level: analyze.AlertLevelNone},
		{Label: "second", Level: analyze.AlertLevelHigh},
	}, c.Results)
}

func TestWeightSumming_AccumulatesByLevel(t *testing.T) {
	w := &WeightSumming{}

	w.Accept(analyze.Result{Level: analyze.AlertLevelLow})
	w.Accept(analyze.Result{Level: analyze.AlertLevelMedium})
	w.Accept(analyze.Result{Level: analyze.AlertLevelHigh})
	w.Accept(analyze.Result{Level: analyze.AlertLevelCritical})

	assert.Equal(t, 4+8+16+1024, int(w.Total))
}

func TestWeightSumming_PanicsOnNone(t *testing.T) {
	w := &WeightSumming{}

	assert.Panics(t, func() {
		w.Accept(analyze.Result{Level: analyze.AlertLevelNone})
	})
}
