package pdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fineops/internal/config"
	"fineops/internal/models"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func testGenerator(t *testing.T) *Generator {
	t.Helper()
	return NewGenerator(config.BrandingConfig{
		CompanyLeft:  "Alpha",
		CompanyRight: "Beta",
	}, t.TempDir())
}

func testItems(n int) []models.OrderLineRecord {
	items := make([]models.OrderLineRecord, n)
	for i := range items {
		items[i] = models.OrderLineRecord{
			OrderID:     "900100",
			ProductName: "Samsung Galaxy case",
			SKU:         "SKU-1",
			Barcode:     "4600000000001",
			Quantity:    2,
		}
	}
	return items
}

func TestGenerateEmptyManifest(t *testing.T) {
	g := testGenerator(t)

	path, err := g.Generate(nil, Positive, testDate)
	require.NoError(t, err)
	assert.Equal(t, "positive_report_2026-09-01.pdf", filepath.Base(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestGenerateNegativeFilename(t *testing.T) {
	g := testGenerator(t)

	path, err := g.Generate(testItems(1), Negative, testDate)
	require.NoError(t, err)
	assert.Equal(t, "negative_report_2026-09-01.pdf", filepath.Base(path))
}

func TestVariantStatus(t *testing.T) {
	assert.Equal(t, "OK", Positive.status())
	assert.Equal(t, "NO", Negative.status())
	assert.Equal(t, "positive", Positive.filePrefix())
	assert.Equal(t, "negative", Negative.filePrefix())
}

func TestBuildBreaksPages(t *testing.T) {
	g := testGenerator(t)

	doc := g.build(testItems(60), Positive, testDate)
	require.False(t, doc.Err(), doc.Error())
	assert.GreaterOrEqual(t, doc.PageNo(), 2)
}

func TestBuildSinglePageForShortTable(t *testing.T) {
	g := testGenerator(t)

	doc := g.build(testItems(3), Positive, testDate)
	require.False(t, doc.Err(), doc.Error())
	assert.Equal(t, 1, doc.PageNo())
}

func TestRowHeightFollowsTallestCell(t *testing.T) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 9)

	short := []string{"1", "case", "SKU", "900", "460", "2", "OK"}
	assert.Equal(t, lineHeight, rowHeight(doc, short))

	// A name long enough to wrap inside the 70mm column forces the whole
	// row to grow in lineHeight steps.
	long := []string{"1", strings.Repeat("universal waterproof protective cover ", 4), "SKU", "900", "460", "2", "OK"}
	h := rowHeight(doc, long)
	assert.Greater(t, h, lineHeight)
	assert.Equal(t, cellHeight(doc, colWidths[1], long[1]), h)

	lines := len(doc.SplitText(long[1], colWidths[1]))
	assert.Equal(t, float64(lines)*lineHeight, h)
}

func TestCellHeightMinimumOneLine(t *testing.T) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 9)

	assert.Equal(t, lineHeight, cellHeight(doc, colWidths[0], ""))
}

func TestTableGeometry(t *testing.T) {
	require.Len(t, colWidths, len(tableHeaders))
	assert.Equal(t, 190.0, totalWidth())
}

func TestRowCellsStatusColumn(t *testing.T) {
	item := models.OrderLineRecord{
		OrderID:     "900100",
		ProductName: "Case",
		SKU:         "SKU-1",
		Barcode:     "460",
		Quantity:    3,
	}

	cells := rowCells(7, item, Negative)
	require.Len(t, cells, len(tableHeaders))
	assert.Equal(t, "7", cells[0])
	assert.Equal(t, "Case", cells[1])
	assert.Equal(t, "3", cells[5])
	assert.Equal(t, "NO", cells[6])
}

func TestFamilyFallsBackWithoutFont(t *testing.T) {
	g := &Generator{}
	assert.Equal(t, "Helvetica", g.family())

	g.Branding.FontPath = "/opt/fonts/DejaVuSans.ttf"
	assert.Equal(t, fontFamily, g.family())
}
