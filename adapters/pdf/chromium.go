package expopdf

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"image/png"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/goliatone/go-expo/expo"
)

// ExternalAssetsPolicy controls network access while rendering.
type ExternalAssetsPolicy string

const (
	ExternalAssetsAllow ExternalAssetsPolicy = "allow"
	ExternalAssetsBlock ExternalAssetsPolicy = "block"
)

// DefaultAssetWait bounds how long Capture waits for images and fonts.
const DefaultAssetWait = 5 * time.Second

const cssPixelsPerInch = 96.0

const assetsReadyJS = `document.readyState === 'complete' &&
	Array.from(document.images).every(function (img) { return img.complete; }) &&
	(!document.fonts || document.fonts.status === 'loaded')`

// ChromiumEngine rasterizes badges and prints PDFs using a shared headless Chromium instance.
type ChromiumEngine struct {
	BrowserPath    string
	Headless       bool
	Timeout        time.Duration
	Args           []string
	BaseURL        string
	ExternalAssets ExternalAssetsPolicy
	AssetWait      time.Duration
	Logger         expo.Logger

	initOnce      sync.Once
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// Capture renders req.HTML in a fresh tab and screenshots the node matching req.Selector.
func (e *ChromiumEngine) Capture(ctx context.Context, req expo.CaptureRequest) (expo.Bitmap, error) {
	if e == nil {
		return expo.Bitmap{}, expo.NewError(expo.KindInternal, "chromium engine is nil", nil)
	}
	scale := req.Scale
	if scale <= 0 {
		scale = expo.DefaultExportScale
	}
	selector := req.Selector
	if selector == "" {
		selector = expo.BadgeSelector
	}
	background, err := parseHexColor(req.Background)
	if err != nil {
		return expo.Bitmap{}, err
	}

	var (
		nodes   []*cdp.Node
		buf     []byte
		missing bool
	)
	actions := []chromedp.Action{
		emulation.SetDefaultBackgroundColorOverride().WithColor(background),
		chromedp.ActionFunc(e.waitForAssets),
		chromedp.Nodes(selector, &nodes, chromedp.ByQuery, chromedp.AtLeast(0)),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if len(nodes) == 0 {
				missing = true
				return nil
			}
			return chromedp.ScreenshotNodes(nodes[:1], scale, &buf).Do(ctx)
		}),
	}

	if err := e.run(ctx, []byte(req.HTML), e.ExternalAssets, actions...); err != nil {
		return expo.Bitmap{}, renderError("chromium capture failed", err)
	}
	if missing {
		return expo.Bitmap{}, expo.ErrRenderTargetMissing
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return expo.Bitmap{}, expo.NewError(expo.KindInternal, "decode capture", err)
	}
	return expo.Bitmap{PNG: buf, Width: cfg.Width, Height: cfg.Height, Scale: scale}, nil
}

// Compose prints bitmap onto a single page sized to its logical dimensions.
func (e *ChromiumEngine) Compose(ctx context.Context, bitmap expo.Bitmap) ([]byte, error) {
	if e == nil {
		return nil, expo.NewError(expo.KindInternal, "chromium engine is nil", nil)
	}
	if len(bitmap.PNG) == 0 || bitmap.Width <= 0 || bitmap.Height <= 0 {
		return nil, expo.NewError(expo.KindValidation, "bitmap is empty", nil)
	}

	width, height := bitmap.LogicalSize()
	params := buildPrintToPDFParams(width, height)

	var pdf []byte
	err := e.run(ctx, imagePageHTML(bitmap.PNG, width, height), ExternalAssetsAllow,
		chromedp.ActionFunc(e.waitForAssets),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = params.Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, renderError("chromium pdf compose failed", err)
	}
	return pdf, nil
}

// Close releases Chromium resources if they have been initialized.
func (e *ChromiumEngine) Close() error {
	if e == nil {
		return nil
	}
	if e.browserCancel != nil {
		e.browserCancel()
	}
	if e.allocCancel != nil {
		e.allocCancel()
	}
	return nil
}

func (e *ChromiumEngine) run(ctx context.Context, htmlInput []byte, policy ExternalAssetsPolicy, steps ...chromedp.Action) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := e.ensureBrowser(); err != nil {
		return expo.NewError(expo.KindInternal, "chromium engine init failed", err)
	}

	tabCtx, cancel := chromedp.NewContext(e.browserCtx)
	defer cancel()

	execCtx, cancelReq := context.WithCancel(tabCtx)
	defer cancelReq()
	go func() {
		select {
		case <-ctx.Done():
			cancelReq()
		case <-execCtx.Done():
		}
	}()
	if e.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		execCtx, cancelTimeout = context.WithTimeout(execCtx, e.Timeout)
		defer cancelTimeout()
	}

	htmlInput = injectBaseURL(htmlInput, e.BaseURL)

	actions := []chromedp.Action{}
	if policy == ExternalAssetsBlock {
		actions = append(actions,
			network.Enable(),
			network.SetBlockedURLs([]string{"http://*", "https://*"}),
		)
	}
	actions = append(actions,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(htmlInput)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	actions = append(actions, steps...)

	err := chromedp.Run(execCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// waitForAssets polls until images and fonts settle. A timeout is not fatal.
func (e *ChromiumEngine) waitForAssets(ctx context.Context) error {
	wait := e.AssetWait
	if wait <= 0 {
		wait = DefaultAssetWait
	}
	var ready bool
	err := chromedp.Poll(assetsReadyJS, &ready, chromedp.WithPollingTimeout(wait)).Do(ctx)
	if errors.Is(err, chromedp.ErrPollingTimeout) {
		e.logger().Infof("chromium: assets not ready after %s, capturing anyway", wait)
		return nil
	}
	return err
}

func (e *ChromiumEngine) ensureBrowser() error {
	e.initOnce.Do(func() {
		options := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
		if e.BrowserPath != "" {
			options = append(options, chromedp.ExecPath(e.BrowserPath))
		}
		options = append(options, chromedp.Flag("headless", e.Headless))
		options = append(options, allocatorOptionsFromArgs(e.Args)...)

		e.allocCtx, e.allocCancel = chromedp.NewExecAllocator(context.Background(), options...)
		e.browserCtx, e.browserCancel = chromedp.NewContext(e.allocCtx)
	})
	if e.allocCtx == nil || e.browserCtx == nil {
		return errors.New("chromium allocator unavailable")
	}
	return nil
}

func (e *ChromiumEngine) logger() expo.Logger {
	if e.Logger == nil {
		return expo.NopLogger{}
	}
	return e.Logger
}

func renderError(msg string, err error) error {
	switch expo.KindFromError(err) {
	case expo.KindTimeout, expo.KindCanceled:
		return err
	}
	var expoErr *expo.Error
	if errors.As(err, &expoErr) {
		return err
	}
	return expo.NewError(expo.KindInternal, msg, err)
}

func buildPrintToPDFParams(widthPx, heightPx float64) *page.PrintToPDFParams {
	return page.PrintToPDF().
		WithPaperWidth(widthPx / cssPixelsPerInch).
		WithPaperHeight(heightPx / cssPixelsPerInch).
		WithMarginTop(0).
		WithMarginBottom(0).
		WithMarginLeft(0).
		WithMarginRight(0).
		WithPrintBackground(true).
		WithPreferCSSPageSize(false).
		WithPageRanges("1")
}

func imagePageHTML(pngData []byte, widthPx, heightPx float64) []byte {
	w := strconv.FormatFloat(widthPx, 'f', -1, 64)
	h := strconv.FormatFloat(heightPx, 'f', -1, 64)
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><style>")
	fmt.Fprintf(&b, "@page{size:%spx %spx;margin:0}", w, h)
	b.WriteString("html,body{margin:0;padding:0;background:#ffffff}")
	fmt.Fprintf(&b, "img{display:block;width:%spx;height:%spx}", w, h)
	b.WriteString("</style></head><body><img alt=\"\" src=\"data:image/png;base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(pngData))
	b.WriteString("\"></body></html>")
	return []byte(b.String())
}

func parseHexColor(value string) (*cdp.RGBA, error) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "#")
	if value == "" {
		value = "ffffff"
	}
	if len(value) == 3 {
		value = string([]byte{value[0], value[0], value[1], value[1], value[2], value[2]})
	}
	if len(value) != 6 {
		return nil, expo.NewError(expo.KindValidation, "invalid background color: #"+value, nil)
	}
	rgb, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return nil, expo.NewError(expo.KindValidation, "invalid background color: #"+value, err)
	}
	return &cdp.RGBA{
		R: int64(rgb >> 16 & 0xff),
		G: int64(rgb >> 8 & 0xff),
		B: int64(rgb & 0xff),
		A: 1,
	}, nil
}

func injectBaseURL(htmlInput []byte, baseURL string) []byte {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return htmlInput
	}

	lower := strings.ToLower(string(htmlInput))
	if strings.Contains(lower, "<base") {
		return htmlInput
	}

	baseTag := fmt.Sprintf(`<base href="%s">`, html.EscapeString(baseURL))
	if headIdx := strings.Index(lower, "<head"); headIdx >= 0 {
		if end := strings.Index(lower[headIdx:], ">"); end >= 0 {
			insertPos := headIdx + end + 1
			return append(append([]byte{}, htmlInput[:insertPos]...), append([]byte(baseTag), htmlInput[insertPos:]...)...)
		}
	}

	return append([]byte(baseTag), htmlInput...)
}

func allocatorOptionsFromArgs(args []string) []chromedp.ExecAllocatorOption {
	options := make([]chromedp.ExecAllocatorOption, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimPrefix(strings.TrimSpace(arg), "--")
		if arg == "" {
			continue
		}
		if name, value, ok := strings.Cut(arg, "="); ok {
			options = append(options, chromedp.Flag(name, value))
			continue
		}
		options = append(options, chromedp.Flag(arg, true))
	}
	return options
}
