package sheetwriter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ginjaninja78/tcg-order-processor/internal/config"
	"github.com/ginjaninja78/tcg-order-processor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRecord() types.OrderRecord {
	return types.OrderRecord{
		Date:        "3/7/2025",
		Description: `1x Bloomburrow: "Opt" - #1 - NM`,
		Type:        "Singles",
		Set:         "BLB",
		Store:       "Direct TCGplayer",
		Expense:     "100%",
		Payment:     "Fidelity Magic",
		SellDollars: "$ 9.50",
		Direct:      "$ 0.50",
		Notes:       "AAAAAAAA-000001-00001",
		RawData:     "line one\r\nline \"two\"\n\tend",
	}
}

func TestTSV(t *testing.T) {
	got := TSV([]types.OrderRecord{sampleRecord(), {Set: "Unknown"}})

	rows := strings.Split(got, "\n")
	require.Len(t, rows, 2)

	cells := strings.Split(rows[0], "\t")
	require.Len(t, cells, len(types.Headers))
	assert.Equal(t, "3/7/2025", cells[0])
	assert.Equal(t, `1x Bloomburrow: "Opt" - #1 - NM`, cells[1])
	assert.Equal(t, "9.50", cells[8])
	assert.Equal(t, "0.50", cells[10])
	assert.Equal(t, `"line one | line ""two"" |  end"`, cells[12])

	empty := strings.Split(rows[1], "\t")
	assert.Equal(t, "Unknown", empty[3])
	assert.Equal(t, `""`, empty[12])
}

func TestTSV_NoRecords(t *testing.T) {
	assert.Equal(t, "", TSV(nil))
}

func TestCSV(t *testing.T) {
	got := CSV([]types.OrderRecord{sampleRecord()})

	lines := strings.SplitN(got, "\n", 2)
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Description,Type,Set,Store,Expense,Payment,Buy Dollars,Sell Dollars,Grouping Code,Direct,Notes,Raw Data", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `"3/7/2025","1x Bloomburrow: ""Opt"" - #1 - NM","Singles","BLB",`))
	assert.Contains(t, lines[1], `"$ 9.50"`)
	assert.Contains(t, lines[1], `"","$ 9.50","","$ 0.50"`)
}

func TestCSV_HeaderOnly(t *testing.T) {
	assert.Equal(t, strings.Join(types.Headers, ","), CSV(nil))
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, []types.OrderRecord{sampleRecord()}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, types.Headers, rows[0])
	assert.Equal(t, "$ 9.50", rows[1][8])
	assert.Equal(t, "AAAAAAAA-000001-00001", rows[1][11])
}

func TestWrite_Dispatch(t *testing.T) {
	records := []types.OrderRecord{sampleRecord()}

	var tsv, csv bytes.Buffer
	require.NoError(t, Write(&tsv, config.OutputTSV, records))
	require.NoError(t, Write(&csv, config.OutputCSV, records))
	assert.Equal(t, TSV(records), tsv.String())
	assert.Equal(t, CSV(records), csv.String())

	assert.Error(t, Write(&bytes.Buffer{}, "pdf", records))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "tsv", Extension(config.OutputTSV))
	assert.Equal(t, "csv", Extension(config.OutputCSV))
	assert.Equal(t, "xlsx", Extension(config.OutputXLSX))
}

func TestWriteURLs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteURLs(&buf, []string{"https://a", "https://b"}))
	assert.Equal(t, "https://a\nhttps://b", buf.String())
}
