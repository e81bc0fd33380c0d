package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC) }

func TestRunPrintsSignalBook(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-seed", "3", "-ticks", "5", "-market", "forex"}, &out, fixedClock))

	s := out.String()
	assert.Contains(t, s, "seed=3 ticks=5 market=forex")
	assert.Contains(t, s, "EUR/USD")
	assert.NotContains(t, s, "BTC/USDT")
}

func TestRunIsDeterministicPerSeed(t *testing.T) {
	var a, b bytes.Buffer
	args := []string{"-seed", "11", "-ticks", "20", "-market", "commodities", "-timeframe", "long"}
	require.NoError(t, run(args, &a, fixedClock))
	require.NoError(t, run(args, &b, fixedClock))
	assert.Equal(t, a.String(), b.String())
}

func TestRunWithJournalPrintsSummary(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-seed", "5", "-ticks", "3", "-journal", ":memory:"}, &out, fixedClock))
	assert.Contains(t, out.String(), "seed=5 ticks=3 market=crypto")
}

func TestRunRejectsBadInput(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run([]string{"-market", "stocks"}, &out, fixedClock))
	assert.Error(t, run([]string{"-ticks", "-1"}, &out, fixedClock))
}

func TestRunUnknownTimeframeListsNoSignals(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-seed", "3", "-ticks", "2", "-market", "forex", "-timeframe", "weekly"}, &out, fixedClock))

	s := out.String()
	assert.Contains(t, s, "EUR/USD", "instrument table is unaffected")
	assert.NotRegexp(t, `\b(active|completed)\b`, s)
}
