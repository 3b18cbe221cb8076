// Package pdf renders the accepted/rejected order manifests: an A4
// document with branding header, a bordered table with per-row
// multi-line height measurement, and a signature footer on every page.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fineops/internal/config"
	"fineops/internal/models"

	"github.com/go-pdf/fpdf"
)

// Variant selects the accepted or rejected manifest layout.
type Variant int

const (
	Positive Variant = iota
	Negative
)

func (v Variant) status() string {
	if v == Positive {
		return "OK"
	}
	return "NO"
}

func (v Variant) filePrefix() string {
	if v == Positive {
		return "positive"
	}
	return "negative"
}

var tableHeaders = []string{"№", "Наименование товара", "SKU", "Номер заказа", "Штрихкод", "Кол-во", "Статус"}

var colWidths = []float64{10, 70, 25, 25, 25, 15, 20}

const (
	lineHeight    = 6.0
	bottomReserve = 50.0
	fontFamily    = "DejaVu"
)

// Generator builds manifest PDFs. OutputDir defaults to the working
// directory.
type Generator struct {
	Branding  config.BrandingConfig
	OutputDir string
}

func NewGenerator(branding config.BrandingConfig, outputDir string) *Generator {
	return &Generator{Branding: branding, OutputDir: outputDir}
}

// Generate renders the manifest for items and writes it as
// {positive|negative}_report_{YYYY-MM-DD}.pdf. An empty item list still
// produces a document with header, table header and footer.
func (g *Generator) Generate(items []models.OrderLineRecord, v Variant, date time.Time) (string, error) {
	doc := g.build(items, v, date)
	if doc.Err() {
		return "", fmt.Errorf("render manifest: %w", doc.Error())
	}

	name := fmt.Sprintf("%s_report_%s.pdf", v.filePrefix(), date.Format("2006-01-02"))
	path := filepath.Join(g.outputDir(), name)
	if err := doc.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write manifest %s: %w", path, err)
	}
	return path, nil
}

func (g *Generator) outputDir() string {
	if g.OutputDir == "" {
		return "."
	}
	return g.OutputDir
}

// family returns the font family to render with. Without a configured
// TTF the core Helvetica font is used; it cannot shape Cyrillic but
// keeps the generator usable in tests and bare environments.
func (g *Generator) family() string {
	if g.Branding.FontPath == "" {
		return "Helvetica"
	}
	return fontFamily
}

func (g *Generator) build(items []models.OrderLineRecord, v Variant, date time.Time) *fpdf.Fpdf {
	doc := fpdf.New("P", "mm", "A4", "")
	if g.Branding.FontPath != "" {
		doc.AddUTF8Font(fontFamily, "", g.Branding.FontPath)
		bold := g.Branding.FontBoldPath
		if bold == "" {
			bold = g.Branding.FontPath
		}
		doc.AddUTF8Font(fontFamily, "B", bold)
	}
	family := g.family()

	pageW, pageH := doc.GetPageSize()
	printDate := date.Format("02.01.2006")

	doc.SetHeaderFunc(func() {
		g.drawBrandingHeader(doc, family, pageW, printDate)
	})
	doc.SetFooterFunc(func() {
		g.drawSignatureFooter(doc, family)
	})
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()
	doc.SetFont(family, "", 9)

	if v == Negative {
		g.drawRejectionNotice(doc, family, date)
	}

	leftMargin := (pageW - totalWidth()) / 2
	doc.SetLeftMargin(leftMargin)
	doc.SetX(leftMargin)

	drawTableHeader(doc)
	for idx, item := range items {
		if doc.GetY() > pageH-bottomReserve {
			doc.AddPage()
			doc.SetFont(family, "", 9)
			doc.SetX(leftMargin)
			drawTableHeader(doc)
		}
		cells := rowCells(idx+1, item, v)
		drawRow(doc, cells, leftMargin)
	}

	return doc
}

func totalWidth() float64 {
	var sum float64
	for _, w := range colWidths {
		sum += w
	}
	return sum
}

func (g *Generator) drawBrandingHeader(doc *fpdf.Fpdf, family string, pageW float64, printDate string) {
	// Missing logo files are skipped; a sticky fpdf error from a bad
	// path would poison the whole document.
	if fileExists(g.Branding.LeftLogoPath) {
		doc.Image(g.Branding.LeftLogoPath, 10, 10, 40, 20, false, "", 0, "")
	}
	if fileExists(g.Branding.RightLogoPath) {
		doc.Image(g.Branding.RightLogoPath, pageW-50, 10, 40, 20, false, "", 0, "")
	}
	doc.SetFont(family, "B", 12)
	doc.Ln(25)
	doc.CellFormat(0, 10, fmt.Sprintf("НАКЛАДНАЯ № ____        ОТ %s", printDate), "", 1, "C", false, 0, "")
	doc.Ln(5)
}

func (g *Generator) drawSignatureFooter(doc *fpdf.Fpdf, family string) {
	doc.SetY(-35)
	doc.SetFont(family, "", 9)
	doc.CellFormat(90, 6, fmt.Sprintf("От %s: ________________________________", g.Branding.CompanyLeft), "", 0, "L", false, 0, "")
	doc.CellFormat(10, 6, "", "", 0, "L", false, 0, "")
	doc.CellFormat(90, 6, fmt.Sprintf("От %s: ________________________________", g.Branding.CompanyRight), "", 1, "L", false, 0, "")
	doc.CellFormat(90, 6, "(Ф.И.О., подпись)", "", 0, "L", false, 0, "")
	doc.CellFormat(10, 6, "", "", 0, "L", false, 0, "")
	doc.CellFormat(90, 6, "(Ф.И.О., подпись)", "", 1, "L", false, 0, "")
}

// drawRejectionNotice warns the partner that the goods listed below
// were not supplied for the next day's order.
func (g *Generator) drawRejectionNotice(doc *fpdf.Fpdf, family string, date time.Time) {
	tomorrow := date.AddDate(0, 0, 1).Format("02.01.2006")
	doc.SetFont(family, "B", 16)
	doc.SetTextColor(200, 0, 0)
	doc.CellFormat(0, 12, "Ҳурматли ҳамкор!", "", 1, "C", false, 0, "")
	doc.SetFont(family, "", 10)
	doc.SetTextColor(0, 0, 0)
	doc.MultiCell(0, 6, fmt.Sprintf("%s йилдаги буюртма бўйича кўрсатилган товарлар сизнинг омборингизда мавжуд бўлмаганлиги сабабли тақдим этилмади. Илтимос, ушбу товарларни бошқа омборингиздан етказиб беришни ташкил этинг.", tomorrow), "", "J", false)
	doc.Ln(5)
	doc.SetFont(family, "", 9)
}

func drawTableHeader(doc *fpdf.Fpdf) {
	doc.SetFillColor(240, 240, 240)
	for i, h := range tableHeaders {
		doc.CellFormat(colWidths[i], lineHeight, h, "1", 0, "C", true, 0, "")
	}
	doc.Ln(lineHeight)
}

func rowCells(index int, item models.OrderLineRecord, v Variant) []string {
	return []string{
		fmt.Sprintf("%d", index),
		item.ProductName,
		item.SKU,
		item.OrderID,
		item.Barcode,
		fmt.Sprintf("%d", item.Quantity),
		v.status(),
	}
}

// cellHeight measures the wrapped height of text in a column of width w
// at the current font.
func cellHeight(doc *fpdf.Fpdf, w float64, text string) float64 {
	lines := len(doc.SplitText(text, w))
	if lines < 1 {
		lines = 1
	}
	return float64(lines) * lineHeight
}

// rowHeight is the tallest wrapped cell of the row.
func rowHeight(doc *fpdf.Fpdf, cells []string) float64 {
	var max float64
	for i, text := range cells {
		if h := cellHeight(doc, colWidths[i], text); h > max {
			max = h
		}
	}
	return max
}

// drawRow draws each cell as an independently bordered rectangle of the
// full row height, vertically centering the cell's own wrapped text.
// The product name column is left-aligned, all others centered.
func drawRow(doc *fpdf.Fpdf, cells []string, leftMargin float64) {
	height := rowHeight(doc, cells)
	yTop := doc.GetY()
	x := leftMargin
	for i, text := range cells {
		w := colWidths[i]
		align := "C"
		if i == 1 {
			align = "L"
		}
		doc.Rect(x, yTop, w, height, "D")
		yText := yTop + (height-cellHeight(doc, w, text))/2
		doc.SetXY(x, yText)
		doc.MultiCell(w, lineHeight, text, "", align, false)
		x += w
	}
	doc.SetY(yTop + height)
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
