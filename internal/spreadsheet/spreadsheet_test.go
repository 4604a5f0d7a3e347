package spreadsheet

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Kris2339/MEO-PayDay/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		data    []byte
		want    Format
		wantErr bool
	}{
		{"xlsx by extension", "a.xlsx", nil, FormatXLSX, false},
		{"xls by extension", "a.XLS", nil, FormatXLS, false},
		{"ole magic wins", "a.xlsx", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1}, FormatXLS, false},
		{"zip magic wins", "a.xls", []byte("PK\x03\x04rest"), FormatXLSX, false},
		{"unknown", "a.csv", []byte("a,b"), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.file, tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsSpreadsheet(t *testing.T) {
	assert.True(t, IsSpreadsheet("출고.xlsx"))
	assert.True(t, IsSpreadsheet("입고.xls"))
	assert.False(t, IsSpreadsheet("notes.txt"))
}

func TestRead_XLSX(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{" 출고일 ", "구분", "판매처", "가용출고수량"},
		{time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), "정상출고", "스마트스토어", 3},
		{"2024-01-03", "(-)조정", "", 1},
	})

	table, err := Read("출고.xlsx", data)
	require.NoError(t, err)
	assert.Equal(t, []string{" 출고일 ", "구분", "판매처", "가용출고수량"}, table.Header)
	require.Len(t, table.Rows, 2)
	// Dates arrive as the raw serial number.
	assert.Equal(t, "45293", table.Rows[0][0])
	assert.Equal(t, "정상출고", table.Rows[0][1])
	assert.Equal(t, "3", table.Rows[0][3])
	assert.Equal(t, "2024-01-03", table.Rows[1][0])
}

func TestRead_EmptyWorkbook(t *testing.T) {
	data := buildWorkbook(t, nil)
	table, err := Read("empty.xlsx", data)
	require.NoError(t, err)
	assert.Empty(t, table.Header)
	assert.Empty(t, table.Rows)
}

func TestRead_Corrupt(t *testing.T) {
	_, err := Read("broken.xlsx", []byte("not a workbook"))
	assert.Error(t, err)
}

func TestRead_XLS(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "outbound.xls"))
	require.NoError(t, err)

	table, err := Read("출고.xls", data)
	require.NoError(t, err)
	assert.Equal(t, models.OutboundColumns, table.Header)

	// Row 2 of the sheet is blank and row 3 has no ROW record.
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"2024-01-02", "정상출고", "스마트스토어", "캐비진저", "2", "", "홍길동", "마켓 전용 세트", "", "택배"}, table.Rows[0])
	assert.Empty(t, table.Rows[1])
	assert.Equal(t, []string{"2024-01-03", "(-)조정", "", "캐비진저", "1", "세트 구성 조정"}, table.Rows[2])
}

func TestRead_XLSCorrupt(t *testing.T) {
	fixture, err := os.ReadFile(filepath.Join("testdata", "outbound.xls"))
	require.NoError(t, err)

	// Rename the "Workbook" directory entry so no workbook stream is found.
	noWorkbook := append([]byte(nil), fixture...)
	noWorkbook[1024+128+2] = 'x'

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"ole magic only", append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, make([]byte, 600)...), "failed to open legacy workbook"},
		{"no workbook stream", noWorkbook, "no workbook stream"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read("broken.xls", tt.data)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWriteResult(t *testing.T) {
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	records := []models.LabeledRecord{
		models.NewLabeledRecord(models.TransactionRecord{
			TransactionDate: &date, TransactionType: "정상출고", Counterpart: "스마트스토어",
			ProductName: "캐비진저", Quantity: "2",
		}, models.SourceOutbound, "out.xlsx", "일반"),
		models.NewLabeledRecord(models.TransactionRecord{
			TransactionType: "반품입고", Quantity: "n/a",
		}, models.SourceInbound, "in.xlsx", "반품입고"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, "", records))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{DefaultResultSheet}, f.GetSheetList())
	rows, err := f.GetRows(DefaultResultSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, models.OutputColumns(), rows[0])
	assert.Equal(t, []string{"일반", "", "2024-05-01", "정상출고", "스마트스토어", "캐비진저", "2"}, rows[1][:7])
	assert.Equal(t, "반품입고", rows[2][0])
	assert.Equal(t, "n/a", rows[2][6])
}

func TestWriteResultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", DefaultResultFile)
	require.NoError(t, WriteResultFile(path, "결과", nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{"결과"}, f.GetSheetList())
}

func TestWriteMarketList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarketList(&buf, []string{"캐비진저", "진저샷"}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(MarketSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{MarketColumn}, {"캐비진저"}, {"진저샷"}}, rows)
}

func TestRoundTrip_ResultIsReadable(t *testing.T) {
	records := []models.LabeledRecord{
		models.NewLabeledRecord(models.TransactionRecord{TransactionType: "정상출고", Quantity: "1.5"},
			models.SourceOutbound, "a.xlsx", "마켓"),
	}
	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, "", records))

	table, err := Read("result.xlsx", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, models.OutputColumns(), table.Header)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "1.5", table.Rows[0][6])
}
