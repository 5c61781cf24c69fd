package recordsio_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/floorplan-filler/internal/recordsio"
	"github.com/ginjaninja78/floorplan-filler/internal/types"
	"github.com/ginjaninja78/floorplan-filler/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, recordsio.Write(&buf, []types.SalesRecord{
		{Hour: "08:00", Count: 12, Amount: 150.5},
		{Hour: "09:00", Count: 0, Amount: 0},
	}))

	assert.Equal(t, "hour,count,amount\n08:00,12,150.5\n09:00,0,0\n", buf.String())
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.csv")
	records := []types.SalesRecord{
		{Hour: "24:00", Count: 3, Amount: 45.25},
		{Hour: "08:00", Count: 12, Amount: 150.5},
		{Hour: "08:00", Count: 1, Amount: 2},
	}

	require.NoError(t, recordsio.WriteFile(path, records))
	got, err := recordsio.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestRoundTripKeepsPrecision(t *testing.T) {
	records := []types.SalesRecord{
		{Hour: "08:00", Count: 1, Amount: 150.125},
		{Hour: "09:00", Count: 2, Amount: 12.3456},
	}

	var buf bytes.Buffer
	require.NoError(t, recordsio.Write(&buf, records))
	assert.Contains(t, buf.String(), "08:00,1,150.125\n")

	got, err := recordsio.Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestReadLocaleVariants(t *testing.T) {
	input := "\xef\xbb\xbfhour;count;amount\n08:00;12;150,50\n09:00; ;\n"

	got, err := recordsio.Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []types.SalesRecord{
		{Hour: "08:00", Count: 12, Amount: 150.5},
		{Hour: "09:00"},
	}, got)
}

func TestReadReportsBadRows(t *testing.T) {
	input := "hour,count,amount\n08:00,12,150.50\n8h,x,1\n10:00,2,abc\n"

	got, err := recordsio.Read(strings.NewReader(input))
	require.Error(t, err)
	assert.Equal(t, []types.SalesRecord{{Hour: "08:00", Count: 12, Amount: 150.5}}, got)

	var ve *validation.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, 2, ve.Row)
	assert.Contains(t, err.Error(), "row 2, field 'hour'")
	assert.Contains(t, err.Error(), "row 2, field 'count'")
	assert.Contains(t, err.Error(), "row 3, field 'amount'")
}

func TestReadEmpty(t *testing.T) {
	got, err := recordsio.Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = recordsio.Read(strings.NewReader("hour,count,amount\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadFileMissing(t *testing.T) {
	_, err := recordsio.ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
