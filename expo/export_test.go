package expo

import (
	"context"
	"errors"
	"testing"
)

type stubRasterizer struct {
	bitmap Bitmap
	err    error
	calls  int
	last   CaptureRequest
}

func (s *stubRasterizer) Capture(ctx context.Context, req CaptureRequest) (Bitmap, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return Bitmap{}, s.err
	}
	return s.bitmap, nil
}

type stubComposer struct {
	calls int
	got   Bitmap
}

func (s *stubComposer) Compose(ctx context.Context, bitmap Bitmap) ([]byte, error) {
	s.calls++
	s.got = bitmap
	return []byte("%PDF-stub"), nil
}

func TestExporter_Export(t *testing.T) {
	raster := &stubRasterizer{bitmap: Bitmap{PNG: []byte("png"), Width: 960, Height: 1500}}
	composer := &stubComposer{}
	exporter := &Exporter{Rasterizer: raster, Composer: composer}

	doc, err := exporter.Export(context.Background(), "<div id=\"badge\"></div>", sampleRecord())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if doc == nil {
		t.Fatalf("expected document")
	}
	if raster.last.Selector != BadgeSelector || raster.last.Scale != DefaultExportScale {
		t.Fatalf("unexpected capture request: %+v", raster.last)
	}
	if raster.last.Background != "#ffffff" {
		t.Fatalf("expected white background, got %q", raster.last.Background)
	}
	if doc.Filename != "Majdi B.pdf" {
		t.Fatalf("unexpected filename %q", doc.Filename)
	}
	if doc.PageWidth != 320 || doc.PageHeight != 500 {
		t.Fatalf("expected 320x500 page, got %vx%v", doc.PageWidth, doc.PageHeight)
	}
	if composer.got.Scale != DefaultExportScale {
		t.Fatalf("expected composer to receive scale, got %v", composer.got.Scale)
	}
	if string(doc.PDF) != "%PDF-stub" {
		t.Fatalf("unexpected pdf bytes")
	}
}

func TestExporter_ExportIsRepeatable(t *testing.T) {
	raster := &stubRasterizer{bitmap: Bitmap{PNG: []byte("png"), Width: 960, Height: 1500}}
	exporter := &Exporter{Rasterizer: raster, Composer: &stubComposer{}}

	first, err := exporter.Export(context.Background(), "markup", sampleRecord())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	second, err := exporter.Export(context.Background(), "markup", sampleRecord())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if first.ImageWidth != second.ImageWidth || first.ImageHeight != second.ImageHeight ||
		first.PageWidth != second.PageWidth || first.PageHeight != second.PageHeight {
		t.Fatalf("expected identical dimensions, got %+v and %+v", first, second)
	}
}

func TestExporter_MissingTargetIsNoop(t *testing.T) {
	composer := &stubComposer{}
	exporter := &Exporter{Rasterizer: &stubRasterizer{err: ErrRenderTargetMissing}, Composer: composer}

	doc, err := exporter.Export(context.Background(), "<p>no badge</p>", sampleRecord())
	if err != nil || doc != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", doc, err)
	}
	if composer.calls != 0 {
		t.Fatalf("composer must not run")
	}
}

func TestExporter_NilRecordIsNoop(t *testing.T) {
	raster := &stubRasterizer{}
	exporter := &Exporter{Rasterizer: raster, Composer: &stubComposer{}}
	doc, err := exporter.Export(context.Background(), "", nil)
	if err != nil || doc != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", doc, err)
	}
	if raster.calls != 0 {
		t.Fatalf("rasterizer must not run")
	}
}

func TestExporter_FallbackFilename(t *testing.T) {
	exporter := &Exporter{
		Rasterizer: &stubRasterizer{bitmap: Bitmap{Width: 3, Height: 3}},
		Composer:   &stubComposer{},
	}
	doc, err := exporter.Export(context.Background(), "markup", &AttendeeRecord{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if doc.Filename != "badge.pdf" {
		t.Fatalf("expected badge.pdf, got %q", doc.Filename)
	}
}

func TestExporter_PropagatesCaptureErrors(t *testing.T) {
	boom := errors.New("browser crashed")
	exporter := &Exporter{Rasterizer: &stubRasterizer{err: boom}, Composer: &stubComposer{}}
	if _, err := exporter.Export(context.Background(), "markup", sampleRecord()); !errors.Is(err, boom) {
		t.Fatalf("expected capture error, got %v", err)
	}
}

func TestExporter_NotConfigured(t *testing.T) {
	exporter := &Exporter{}
	_, err := exporter.Export(context.Background(), "markup", sampleRecord())
	if KindFromError(err) != KindNotImpl {
		t.Fatalf("expected not_implemented, got %v", err)
	}
}
