package review_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ginjaninja78/floorplan-filler/internal/config"
	"github.com/ginjaninja78/floorplan-filler/internal/review"
	"github.com/ginjaninja78/floorplan-filler/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var slots = config.HourSlotMap{{Hour: "08:00", Column: "C"}, {Hour: "09:00", Column: "D"}}

func records() []types.SalesRecord {
	return []types.SalesRecord{
		{Hour: "08:00", Count: 12, Amount: 150.5},
		{Hour: "09:00", Count: 5, Amount: 1100.1},
	}
}

func TestSum(t *testing.T) {
	totals := review.Sum(records(), "USD")
	assert.Equal(t, 17, totals.Count)
	assert.Equal(t, int64(125060), totals.Amount.Amount())
	assert.Equal(t, "$1,250.60", totals.Amount.Display())

	assert.Equal(t, "R$1.250,60", review.Sum(records(), "BRL").Amount.Display())
}

func TestSumAvoidsFloatDrift(t *testing.T) {
	many := make([]types.SalesRecord, 10)
	for i := range many {
		many[i] = types.SalesRecord{Hour: "08:00", Amount: 0.1}
	}
	assert.Equal(t, int64(100), review.Sum(many, "USD").Amount.Amount())
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, review.RenderTable(&buf, records(), "USD"))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"#", "HOUR", "COUNT", "AMOUNT"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"1", "08:00", "12", "150.50"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"2", "09:00", "5", "1100.10"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"TOTAL", "17", "$1,250.60"}, strings.Fields(lines[3]))
}

func TestSessionEdits(t *testing.T) {
	in := strings.NewReader("set 1 amount 99,90\nset 2 count x\nset 2 hour 10:00\ndone\n")
	var out bytes.Buffer
	recs := records()

	s := review.NewSession(in, &out, recs, slots, "USD")
	require.NoError(t, s.Run())

	assert.InDelta(t, 99.90, recs[0].Amount, 1e-9)
	assert.Equal(t, 5, recs[1].Count, "rejected edit keeps the previous value")
	assert.Equal(t, "10:00", recs[1].Hour)
	assert.Contains(t, out.String(), "warning:")
	assert.Contains(t, out.String(), "count must be an integer")
}

func TestSessionCheckAndHelp(t *testing.T) {
	in := strings.NewReader("set 2 hour 10:00\ncheck\nhelp\nbogus\nset 1\nlist\ndone\n")
	var out bytes.Buffer

	require.NoError(t, review.NewSession(in, &out, records(), slots, "USD").Run())

	assert.Contains(t, out.String(), "not a configured slot")
	assert.Contains(t, out.String(), "Commands:")
	assert.Contains(t, out.String(), `unknown command "bogus"`)
	assert.Contains(t, out.String(), "usage: set")
}

func TestSessionAbort(t *testing.T) {
	for _, input := range []string{"quit\n", "list\n", ""} {
		err := review.NewSession(strings.NewReader(input), &bytes.Buffer{}, records(), slots, "USD").Run()
		assert.ErrorIs(t, err, review.ErrAborted, "input %q", input)
	}
}

func TestSessionPrompt(t *testing.T) {
	var out bytes.Buffer
	s := review.NewSession(strings.NewReader("done\n"), &out, records(), slots, "USD")
	s.Prompt = "> "

	require.NoError(t, s.Run())
	assert.True(t, strings.HasSuffix(out.String(), "> "))
}
