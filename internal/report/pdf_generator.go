package report

import (
	"bytes"
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf"
	"k8s.io/klog/v2"

	"github.com/user/complexity_analyzer_go/internal/analysis"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)
)

// pdfStyler holds reusable styling and state for PDF generation
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	styles      map[string]func()
	lineHeight  float64
	currentY    float64 // manually tracked Y for flowing content
	pageHeight  float64
	contentTopY float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		styles:      make(map[string]func()),
		lineHeight:  6, // mm
		pageHeight:  pdfPageHeightLandscape - pdfMargin,
		contentTopY: pdfMargin,
	}
	s.currentY = s.contentTopY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
	s.styles["tableCellRed"] = func() { // poor fits
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetTextColor(200, 0, 0)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.newPage()
	}
}

func (s *pdfStyler) newPage() {
	s.pdf.AddPage()
	s.currentY = s.contentTopY
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	lines := s.pdf.SplitLines([]byte(text), pdfContentWidth)
	s.checkAddPage(math.Max(1, float64(len(lines))) * s.lineHeight)

	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width float64, height float64, caption string, styleName string) {
	s.pdf.RegisterImageReader(imageName, "PNG", bytes.NewReader(imageBytes))

	if width > pdfContentWidth {
		ratio := pdfContentWidth / width
		width = pdfContentWidth
		height *= ratio
	}

	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	x := pdfMargin + (pdfContentWidth-width)/2
	s.pdf.Image(imageName, x, s.currentY, width, height, false, "PNG", 0, "")
	s.currentY += height

	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, styleName, "C")
	}
	s.addSpacer(2)
}

// tableCellStyle picks the style of one body cell.
type tableCellStyle func(row, col int) string

// writeTable draws a bordered table with relative column widths.
func (s *pdfStyler) writeTable(headers []string, widthsRel []float64, rows [][]string, cellStyle tableCellStyle) {
	widths := make([]float64, len(widthsRel))
	for i, rel := range widthsRel {
		widths[i] = rel * pdfContentWidth
	}

	s.checkAddPage(s.lineHeight * float64(len(rows)+1))
	sX, sY := pdfMargin, s.currentY
	s.applyStyle("tableHeader")
	for i, header := range headers {
		s.pdf.SetXY(sX, sY)
		s.pdf.CellFormat(widths[i], s.lineHeight, header, "1", 0, "C", true, 0, "")
		sX += widths[i]
	}
	s.currentY = sY + s.lineHeight

	for r, row := range rows {
		s.checkAddPage(s.lineHeight)
		sX, sY = pdfMargin, s.currentY
		for c, cell := range row {
			style := "tableCell"
			if cellStyle != nil {
				style = cellStyle(r, c)
			}
			s.applyStyle(style)
			s.pdf.SetXY(sX, sY)
			s.pdf.CellFormat(widths[c], s.lineHeight, cell, "1", 0, "C", false, 0, "")
			sX += widths[c]
		}
		s.currentY = sY + s.lineHeight
	}
}

// poorFitRSquared highlights segment fits below this R² in red.
const poorFitRSquared = 0.9

// BuildPDFReport creates the PDF report: the fit tables followed by one page
// per chart found in plotImages.
func BuildPDFReport(filepath string, in Input, plotImages map[string][]byte) error {
	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.AddPage()

	styler := newPDFStyler(pdf)

	styler.writeParagraph("SkipList Complexity Analysis Report", "h1", "C")
	styler.addSpacer(5)

	if in.Time == nil && in.Space == nil {
		styler.writeParagraph("No analysis results to display.", "normal", "L")
		return pdf.OutputFileAndClose(filepath)
	}

	if in.Time != nil {
		writeTimeSection(styler, in)
	}
	if in.Space != nil {
		writeSpaceSection(styler, in)
	}

	styler.newPage()
	styler.writeParagraph("Graphical Analysis", "h1", "C")
	styler.addSpacer(5)

	type plotDef struct {
		Key     string
		Title   string
		Caption string
	}
	var plotDefs []plotDef
	if in.Time != nil {
		for _, mf := range in.Time.Metrics {
			plotDefs = append(plotDefs, plotDef{
				Key:     SegmentedPlotName(mf.Metric),
				Title:   SegmentedPlotTitle(mf.Metric),
				Caption: fmt.Sprintf("%s against N*log2(N), one least-squares line per segment", mf.Metric),
			})
		}
		plotDefs = append(plotDefs, plotDef{
			Key:     PlotResidualHeatmap,
			Title:   "Relative Residuals of Segment Fits",
			Caption: "(observed - fitted) / observed per measurement; grey cells have no defined residual",
		})
	}
	if in.Space != nil {
		plotDefs = append(plotDefs, plotDef{
			Key:     PlotSpaceLogLog,
			Title:   "SkipList Space Complexity (Log-Log Scale)",
			Caption: fmt.Sprintf("%s against N with the fitted power law", in.Space.Metric),
		})
	}

	imgWidth := pdfContentWidth * 0.85
	imgHeight := imgWidth * 0.6

	for i, pDef := range plotDefs {
		if i > 0 {
			styler.newPage()
		}
		styler.writeParagraph(pDef.Title, "h2", "L")
		if imgBytes, ok := plotImages[pDef.Key]; ok && len(imgBytes) > 0 {
			styler.addImage(imgBytes, pDef.Key, imgWidth, imgHeight, pDef.Caption, "normal")
		} else {
			klog.Warningf("Plot %s missing from report images", pDef.Key)
			styler.writeParagraph(fmt.Sprintf("Plot for %s not available.", pDef.Title), "normal", "L")
		}
	}

	return pdf.OutputFileAndClose(filepath)
}

func writeTimeSection(styler *pdfStyler, in Input) {
	th := in.Time.Thresholds
	styler.writeParagraph("Time Complexity: 3-Stage Segmented Fit", "h2", "L")
	styler.writeParagraph(fmt.Sprintf("Dataset: %s", seriesLabel(in.TimeSeries)), "normal", "L")
	styler.writeParagraph(fmt.Sprintf("Thresholds: limit1 = %d, limit2 = %d. Model: time = a * N*log2(N) + b. Slopes are shown x %.0e.",
		th.Limit1, th.Limit2, SlopeDisplayScale), "normal", "L")
	styler.addSpacer(2)

	headers := []string{"Metric", "Segment", "N Range", "Points", "Slope (x1e7)", "Intercept (s)", "R^2"}
	widths := []float64{0.14, 0.18, 0.2, 0.08, 0.14, 0.14, 0.12}
	var rows [][]string
	var fits []analysis.FitResult
	for _, mf := range in.Time.Metrics {
		for _, sf := range mf.Segments {
			rows = append(rows, []string{
				mf.Metric,
				sf.Segment.Label,
				fmt.Sprintf("%d - %d", sf.Segment.LowerBound, sf.Segment.UpperBound),
				fmt.Sprintf("%d", len(sf.Segment.Members)),
				fmt.Sprintf("%.4f", sf.Fit.Slope*SlopeDisplayScale),
				fmt.Sprintf("%.6f", sf.Fit.Intercept),
				fmt.Sprintf("%.4f", sf.Fit.RSquared),
			})
			fits = append(fits, sf.Fit)
		}
	}
	styler.writeTable(headers, widths, rows, func(row, col int) string {
		if col == len(headers)-1 && fits[row].RSquared < poorFitRSquared {
			return "tableCellRed"
		}
		return "tableCell"
	})
	styler.addSpacer(5)
}

func writeSpaceSection(styler *pdfStyler, in Input) {
	fit := in.Space.Fit
	styler.writeParagraph("Space Complexity: Log-Log Power Law", "h2", "L")
	styler.writeParagraph(fmt.Sprintf("Dataset: %s", seriesLabel(in.SpaceSeries)), "normal", "L")
	styler.addSpacer(2)

	headers := []string{"Metric", "Exponent k", "Coefficient c", "R^2 (log-log)", "Implies O(N)"}
	widths := []float64{0.2, 0.2, 0.2, 0.2, 0.2}
	linear := fit.ImpliesLinear(in.LinearTolerance)
	verdict := fmt.Sprintf("yes (|k-1| <= %.2f)", in.LinearTolerance)
	if !linear {
		verdict = fmt.Sprintf("no (|k-1| > %.2f)", in.LinearTolerance)
	}
	rows := [][]string{{
		in.Space.Metric,
		fmt.Sprintf("%.4f", fit.Exponent),
		fmt.Sprintf("%.6g", fit.Coefficient),
		fmt.Sprintf("%.4f", fit.RSquared),
		verdict,
	}}
	styler.writeTable(headers, widths, rows, func(_, col int) string {
		if col == len(headers)-1 && !linear {
			return "tableCellRed"
		}
		return "tableCell"
	})
	styler.addSpacer(5)
}
