package expopdf

import (
	"bytes"
	"context"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/goliatone/go-expo/expo"
)

const pointsPerCSSPixel = 72.0 / 96.0

// FPDFComposer embeds a bitmap on a single page without a browser.
type FPDFComposer struct {
	Producer string
	Now      func() time.Time
}

// Compose writes a PDF whose only page matches the bitmap logical size.
func (c FPDFComposer) Compose(ctx context.Context, bitmap expo.Bitmap) ([]byte, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	if len(bitmap.PNG) == 0 || bitmap.Width <= 0 || bitmap.Height <= 0 {
		return nil, expo.NewError(expo.KindValidation, "bitmap is empty", nil)
	}

	width, height := bitmap.LogicalSize()
	w, h := width*pointsPerCSSPixel, height*pointsPerCSSPixel

	doc := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: w, Ht: h},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCatalogSort(true)
	if c.Producer != "" {
		doc.SetProducer(c.Producer, true)
	}
	if c.Now != nil {
		now := c.Now()
		doc.SetCreationDate(now)
		doc.SetModificationDate(now)
	}
	doc.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("badge", opts, bytes.NewReader(bitmap.PNG))
	doc.ImageOptions("badge", 0, 0, w, h, false, opts, 0, "")

	var out bytes.Buffer
	if err := doc.Output(&out); err != nil {
		return nil, expo.NewError(expo.KindInternal, "fpdf compose failed", err)
	}
	return out.Bytes(), nil
}
