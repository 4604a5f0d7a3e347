package batch

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/Kris2339/MEO-PayDay/internal/classifier"
	"github.com/Kris2339/MEO-PayDay/internal/logging"
	"github.com/Kris2339/MEO-PayDay/internal/market"
	"github.com/Kris2339/MEO-PayDay/internal/models"
	"github.com/Kris2339/MEO-PayDay/internal/parsererror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// cryptoRandIntn returns a random int in [0, n) using crypto/rand
func cryptoRandIntn(n int) int {
	if n <= 0 {
		return 0
	}
	result, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(result.Int64())
}

func workbook(t *testing.T, rows ...[]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		require.NoError(t, f.SetSheetRow(sheet, cell, &values))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

var outboundHeader = []string{"출고일", "구분", "판매처", "상품명", "가용출고수량", "비고", "수령자", "판매처상품명", "판매처옵션명", "출고방식"}

var inboundHeader = []string{"입고일", "구분", "공급처", "상품명", "가용입고수량", "비고", "옵션코드", "입고단가", "박스수량", "옵션명"}

func newProcessor() (*Processor, *logging.MockLogger) {
	logger := logging.NewMockLogger()
	return NewProcessor(classifier.New(classifier.PolicyOverride), logger), logger
}

func TestProcess_OutboundThenInbound(t *testing.T) {
	p, logger := newProcessor()
	products := market.NewProductSet("마켓 전용 세트")

	inbound := workbook(t, inboundHeader,
		[]string{"2024-01-05", "반품입고", "공급사", "캐비진저", "1", "", "OPT1", "1000", "1", "옵션A"},
		[]string{"2024-01-05", "정상출고", "공급사", "캐비진저", "1", "", "", "", "", ""},
	)
	outbound := workbook(t, outboundHeader,
		[]string{"2024-01-02", "정상출고", "스마트스토어", "캐비진저", "2", "", "홍길동", "마켓 전용 세트", "", "택배"},
		[]string{"2024-01-02", "(-)조정", "", "캐비진저", "1", "세트 구성 조정", "", "", "", ""},
		[]string{"2024-01-02", "반품입고", "", "캐비진저", "1", "", "", "", "", ""},
	)

	res, err := p.Process(context.Background(), []Input{
		{Name: "입고.xlsx", Data: inbound},
		{Name: "출고.xlsx", Data: outbound},
	}, products)
	require.NoError(t, err)

	require.Len(t, res.Outbound, 2)
	require.Len(t, res.Inbound, 1)
	assert.Empty(t, res.FileErrors)
	assert.NotEmpty(t, res.RunID)

	records := res.Records()
	require.Len(t, records, 3)
	assert.Equal(t, models.CategoryMarket, records[0].ProposedCategory)
	assert.Equal(t, models.CategorySetOutbound, records[1].ProposedCategory)
	assert.Equal(t, models.CategoryReturnReceipt, records[2].ProposedCategory)
	assert.Equal(t, "옵션A", records[2].Record.SellerOptionName)
	assert.Equal(t, "공급사", records[2].Record.Counterpart)
	for _, r := range records {
		assert.Empty(t, r.ConfirmedCategory)
	}

	assert.True(t, logger.HasEntry("INFO", "Classification run finished"))
}

func TestProcess_LegacyWorkbook(t *testing.T) {
	p, logger := newProcessor()
	in, err := InputFromFile(filepath.Join("testdata", "outbound.xls"))
	require.NoError(t, err)

	res, err := p.Process(context.Background(), []Input{in}, market.NewProductSet("마켓 전용 세트"))
	require.NoError(t, err)
	assert.Empty(t, res.FileErrors)
	assert.Empty(t, res.Inbound)

	require.Len(t, res.Outbound, 2)
	first := res.Outbound[0]
	assert.Equal(t, models.CategoryMarket, first.ProposedCategory)
	assert.Equal(t, "2024-01-02", first.Record.DateString())
	assert.Equal(t, "2", first.Record.Quantity)
	assert.Equal(t, "outbound.xls", first.Source)

	second := res.Outbound[1]
	assert.Equal(t, models.CategorySetOutbound, second.ProposedCategory)
	assert.Equal(t, models.TypeMinusAdjustment, second.Record.TransactionType)
	assert.Equal(t, "", second.Record.ShipMethod)

	// Only 정상출고 rows go through the rule table and are explained.
	var explained []logging.LogEntry
	for _, e := range logger.GetEntriesByLevel("DEBUG") {
		if e.Message == "Classified row" {
			explained = append(explained, e)
		}
	}
	require.Len(t, explained, 1)
	var rules interface{}
	for _, f := range explained[0].Fields {
		if f.Key == "rules" {
			rules = f.Value
		}
	}
	assert.Contains(t, rules, "market-product")
}

func TestProcess_CollectsFileErrors(t *testing.T) {
	p, _ := newProcessor()
	products := market.NewProductSet("x")

	good := workbook(t, outboundHeader,
		[]string{"2024-01-02", "정상출고", "", "캐비진저", "2", "", "", "", "", ""})
	notTarget := workbook(t, []string{"날짜", "구분"}, []string{"2024-01-02", "정상출고"})
	missingType := workbook(t, []string{"출고일", "판매처"}, []string{"2024-01-02", "a"})

	res, err := p.Process(context.Background(), []Input{
		{Name: "broken.xlsx", Data: []byte("garbage")},
		{Name: "other.xlsx", Data: notTarget},
		{Name: "nocol.xlsx", Data: missingType},
		{Name: "good.xlsx", Data: good},
	}, products)
	require.NoError(t, err)
	require.Len(t, res.FileErrors, 3)

	var readErr *parsererror.ReadError
	assert.ErrorAs(t, res.FileErrors[0], &readErr)
	var notTargetErr *parsererror.NotTargetError
	assert.ErrorAs(t, res.FileErrors[1], &notTargetErr)
	var missingErr *parsererror.MissingColumnError
	assert.ErrorAs(t, res.FileErrors[2], &missingErr)

	require.Len(t, res.Outbound, 1)
	assert.Equal(t, models.CategoryUnclassified, res.Outbound[0].ProposedCategory)
	assert.Len(t, res.ErrorMessages(), 3)
}

func TestProcess_FatalStops(t *testing.T) {
	p, _ := newProcessor()
	ctx := context.Background()

	_, err := p.Process(ctx, []Input{{Name: "a.xlsx"}}, market.NewProductSet())
	assert.ErrorIs(t, err, parsererror.ErrNoMarketProducts)

	_, err = p.Process(ctx, []Input{{Name: "a.xlsx"}}, nil)
	assert.ErrorIs(t, err, parsererror.ErrNoMarketProducts)

	_, err = p.Process(ctx, nil, market.NewProductSet("x"))
	assert.ErrorIs(t, err, parsererror.ErrNoInputFiles)

	onlyFiltered := workbook(t, outboundHeader,
		[]string{"2024-01-02", "정상입고", "", "캐비진저", "2", "", "", "", "", ""})
	res, err := p.Process(ctx, []Input{
		{Name: "a.xlsx", Data: onlyFiltered},
		{Name: "b.xlsx", Data: []byte("garbage")},
	}, market.NewProductSet("x"))
	assert.ErrorIs(t, err, parsererror.ErrNoValidRows)
	assert.True(t, IsFatal(err))
	require.NotNil(t, res)
	assert.Len(t, res.FileErrors, 1)
}

func TestProcess_CanceledContext(t *testing.T) {
	p, _ := newProcessor()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Process(ctx, []Input{{Name: "a.xlsx"}}, market.NewProductSet("x"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsFatal(err))
}

func TestInputFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "출고.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0600))

	in, err := InputFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "출고.xlsx", in.Name)
	assert.Equal(t, []byte("data"), in.Data)

	_, err = InputFromFile(filepath.Join(dir, "missing.xlsx"))
	var readErr *parsererror.ReadError
	assert.ErrorAs(t, err, &readErr)
}

func TestProperty_RowCountsArePreserved(t *testing.T) {
	// Property: every accepted row of every file appears exactly once in the
	// result, outbound rows before inbound rows, and the summary totals match.
	p, _ := newProcessor()
	products := market.NewProductSet("마켓상품")
	outTypes := []string{"정상출고", "(-)조정", "반품입고"}
	inTypes := []string{"반품입고", "정상입고", "(+)조정", "정상출고"}

	for i := 0; i < 20; i++ {
		t.Run(fmt.Sprintf("iteration_%d", i), func(t *testing.T) {
			wantOut, wantIn := 0, 0
			outRows := [][]string{outboundHeader}
			for n := cryptoRandIntn(8) + 1; n > 0; n-- {
				typ := outTypes[cryptoRandIntn(len(outTypes))]
				if typ != "반품입고" {
					wantOut++
				}
				outRows = append(outRows, []string{"2024-02-01", typ, "스마트스토어", "p", "1", "", "", "마켓상품", "", "택배"})
			}
			inRows := [][]string{inboundHeader}
			for n := cryptoRandIntn(8) + 1; n > 0; n-- {
				typ := inTypes[cryptoRandIntn(len(inTypes))]
				if typ != "정상출고" {
					wantIn++
				}
				inRows = append(inRows, []string{"2024-02-01", typ, "공급사", "p", "1", "", "", "", "", ""})
			}

			res, err := p.Process(context.Background(), []Input{
				{Name: "in.xlsx", Data: workbook(t, inRows...)},
				{Name: "out.xlsx", Data: workbook(t, outRows...)},
			}, products)
			if wantOut+wantIn == 0 {
				assert.ErrorIs(t, err, parsererror.ErrNoValidRows)
				return
			}
			require.NoError(t, err)
			assert.Len(t, res.Outbound, wantOut)
			assert.Len(t, res.Inbound, wantIn)

			records := res.Records()
			for j, r := range records {
				if j < wantOut {
					assert.Equal(t, models.SourceOutbound, r.Kind)
				} else {
					assert.Equal(t, models.SourceInbound, r.Kind)
				}
			}
			summary := res.Summary()
			assert.Equal(t, wantOut, summary.Outbound.Total)
			assert.Equal(t, wantIn, summary.Inbound.Total)
		})
	}
}
