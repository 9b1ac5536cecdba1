package report

import (
	"bytes"
	"errors"
	"fmt"
	"log"

	"github.com/signintech/gopdf"
)

const (
	fontFamily = "DejaVu"

	marginLeft  = 40.0
	marginTop   = 40.0
	textWidth   = 515.0
	quoteIndent = 20.0
	pageBottom  = 800.0
)

// DefaultFontPaths are the usual DejaVuSans locations on Debian and Alpine.
var DefaultFontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

var ErrNoFont = errors.New("no usable TTF font found")

type style struct {
	size    float64
	lead    float64
	indent  float64
	r, g, b uint8
}

var styles = map[Kind]style{
	KindHeading1:  {size: 16, lead: 22},
	KindHeading2:  {size: 13, lead: 18, r: 30, g: 144, b: 255},
	KindQuote:     {size: 11, lead: 14, indent: quoteIndent, r: 68, g: 84, b: 106},
	KindParagraph: {size: 11, lead: 14},
}

// Renderer turns report blocks into a PDF document.
type Renderer struct {
	fontPaths []string
}

func NewRenderer(extraFontPaths ...string) *Renderer {
	paths := make([]string, 0, len(extraFontPaths)+len(DefaultFontPaths))
	for _, p := range extraFontPaths {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return &Renderer{fontPaths: append(paths, DefaultFontPaths...)}
}

func (r *Renderer) Render(blocks []Block) ([]byte, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.SetMargins(marginLeft, marginTop, marginLeft, marginTop)
	pdf.AddPage()

	if err := r.loadFont(pdf); err != nil {
		return nil, err
	}

	if err := pdf.SetFont(fontFamily, "", 20); err != nil {
		return nil, err
	}
	pdf.SetX(marginLeft)
	if err := pdf.Cell(nil, Title); err != nil {
		return nil, err
	}
	pdf.Br(30)

	for _, b := range blocks {
		if err := writeBlock(pdf, b); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) loadFont(pdf *gopdf.GoPdf) error {
	var lastErr error
	for _, path := range r.fontPaths {
		if err := pdf.AddTTFFont(fontFamily, path); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("%w (last error: %v)", ErrNoFont, lastErr)
}

func writeBlock(pdf *gopdf.GoPdf, b Block) error {
	st, ok := styles[b.Kind]
	if !ok {
		st = styles[KindParagraph]
	}
	if err := pdf.SetFont(fontFamily, "", st.size); err != nil {
		return err
	}
	pdf.SetTextColor(st.r, st.g, st.b)

	if b.Text == "" {
		pdf.Br(st.lead / 2)
		return nil
	}

	lines, err := pdf.SplitText(b.Text, textWidth-st.indent)
	if err != nil {
		// A glyph the font cannot measure; write the line unwrapped.
		log.Printf("report: split text failed, writing raw line: %v", err)
		lines = []string{b.Text}
	}
	for _, l := range lines {
		if pdf.GetY()+st.lead > pageBottom {
			pdf.AddPage()
		}
		pdf.SetX(marginLeft + st.indent)
		if err := pdf.Cell(nil, l); err != nil {
			return err
		}
		pdf.Br(st.lead)
	}
	if b.Kind == KindHeading1 || b.Kind == KindHeading2 {
		pdf.Br(4)
	}
	return nil
}
