package exporter

import (
	"bytes"
	"fmt"
	"image"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/unicode/norm"
)

const (
	pageMargin    = 20.0
	maxImageShare = 0.6
)

// document wraps an A4 portrait PDF with the few layout primitives exports need.
type document struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	images int
}

func newDocument(title string) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(title, true)
	pdf.SetCreator("DreamVisualizer", true)
	pdf.AddPage()
	return &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

// text maps UTF-8 to the core font encoding; composed forms keep accents intact.
func (d *document) text(s string) string {
	return d.tr(norm.NFC.String(s))
}

func (d *document) heading(s string) {
	d.pdf.SetFont("Helvetica", "B", 20)
	d.pdf.MultiCell(0, 10, d.text(s), "", "L", false)
	d.pdf.Ln(6)
}

func (d *document) paragraph(s string) {
	d.pdf.SetFont("Helvetica", "", 12)
	d.pdf.MultiCell(0, 6, d.text(s), "", "L", false)
}

func (d *document) space(h float64) {
	d.pdf.Ln(h)
}

func (d *document) pageBreak() {
	d.pdf.AddPage()
}

// image places img centred at share of the content width, shrinking it when it
// would take more than maxImageShare of the page height.
func (d *document) image(img image.Image, share float64) error {
	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("img%03d", d.images)
	d.images++
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))

	pageW, pageH := d.pdf.GetPageSize()
	left, top, right, bottom := d.pdf.GetMargins()
	contentW := pageW - left - right
	contentH := pageH - top - bottom

	b := img.Bounds()
	w := contentW * share
	h := w * float64(b.Dy()) / float64(b.Dx())
	if maxH := contentH * maxImageShare; h > maxH {
		w *= maxH / h
		h = maxH
	}
	d.pdf.ImageOptions(name, left+(contentW-w)/2, 0, w, h, true, opts, 0, "")
	return d.pdf.Error()
}

func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
