package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PDFExporter prints HTML to PDF with headless Chrome.
type PDFExporter struct {
	// ChromePath is the browser binary; empty searches the usual locations.
	ChromePath string
	Timeout    time.Duration
	Logger     *slog.Logger
}

// createBrowserContext starts a headless browser suitable for printing.
func (e *PDFExporter) createBrowserContext(parent context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-extensions", true),
	)
	if e.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(e.ChromePath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancel2 := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...interface{}) {
		msg := fmt.Sprintf(format, v...)
		if strings.Contains(msg, "could not unmarshal event") {
			return
		}
		if e.Logger != nil {
			e.Logger.Debug("chrome", "msg", msg)
		}
	}))

	return ctx, func() {
		cancel2()
		cancel()
	}
}

// Export loads html into a blank page and prints it on A4 with backgrounds.
func (e *PDFExporter) Export(ctx context.Context, html []byte) ([]byte, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
	defer cancelTimeout()

	ctx, cancel := e.createBrowserContext(ctx)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome: %w", err)
	}
	return pdf, nil
}
