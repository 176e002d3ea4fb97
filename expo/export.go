package expo

import (
	"context"
	"errors"
	"time"
)

// DefaultExportScale is the oversampling factor applied when rasterizing badges.
const DefaultExportScale = 3.0

// CaptureRequest describes a node capture.
type CaptureRequest struct {
	HTML       string
	Selector   string
	Scale      float64
	Background string
}

// Rasterizer captures a rendered node as a bitmap.
// It returns ErrRenderTargetMissing when the selector matches nothing.
type Rasterizer interface {
	Capture(ctx context.Context, req CaptureRequest) (Bitmap, error)
}

// Composer builds a single page PDF holding bitmap at its logical size.
type Composer interface {
	Compose(ctx context.Context, bitmap Bitmap) ([]byte, error)
}

// Exporter turns badge markup into a downloadable PDF.
type Exporter struct {
	Rasterizer Rasterizer
	Composer   Composer
	Scale      float64
	Timeout    time.Duration
	Logger     Logger
}

// Export rasterizes the badge node of markup and composes it into a PDF named
// after record. A nil record or a missing badge node returns (nil, nil).
func (e *Exporter) Export(ctx context.Context, markup string, record *AttendeeRecord) (*BadgeDocument, error) {
	if record == nil || markup == "" {
		e.logger().Debugf("export skipped: nothing rendered")
		return nil, nil
	}
	if e == nil || e.Rasterizer == nil || e.Composer == nil {
		return nil, NewError(KindNotImpl, "badge exporter not configured", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	scale := e.Scale
	if scale <= 0 {
		scale = DefaultExportScale
	}

	bitmap, err := e.Rasterizer.Capture(ctx, CaptureRequest{
		HTML:       markup,
		Selector:   BadgeSelector,
		Scale:      scale,
		Background: "#ffffff",
	})
	if errors.Is(err, ErrRenderTargetMissing) {
		e.logger().Debugf("export skipped: %s not found", BadgeSelector)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if bitmap.Scale <= 0 {
		bitmap.Scale = scale
	}

	pdf, err := e.Composer.Compose(ctx, bitmap)
	if err != nil {
		return nil, err
	}

	width, height := bitmap.LogicalSize()
	doc := &BadgeDocument{
		Filename:    BadgeFilename(record.Name),
		ContentType: "application/pdf",
		PDF:         pdf,
		ImageWidth:  bitmap.Width,
		ImageHeight: bitmap.Height,
		PageWidth:   width,
		PageHeight:  height,
	}
	e.logger().Infof("badge exported %s (%dx%d px)", doc.Filename, doc.ImageWidth, doc.ImageHeight)
	return doc, nil
}

func (e *Exporter) logger() Logger {
	if e == nil || e.Logger == nil {
		return NopLogger{}
	}
	return e.Logger
}
