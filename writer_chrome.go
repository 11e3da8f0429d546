package ficha

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/victor-trinidad/Generar-Ficha-de-Riesgo/internal/fileutil"
	"github.com/victor-trinidad/Generar-Ficha-de-Riesgo/internal/process"
)

// pdfRenderer abstracts printing an HTML file to PDF to enable testing without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *proto.PagePrintToPDF) ([]byte, error)
	Close() error
}

var _ pdfRenderer = (*rodRenderer)(nil)

// mmPerInch converts millimetres to the inches Chrome expects.
const mmPerInch = 25.4

// chromeWriter prints the HTML output through headless Chrome. The header
// and footer become Chrome's print templates so they repeat on every page.
// It owns a browser and is not safe for concurrent use.
type chromeWriter struct {
	html     *htmlWriter
	renderer pdfRenderer
}

func newChromeWriter(timeout time.Duration) *chromeWriter {
	return &chromeWriter{
		html:     newHTMLWriter(),
		renderer: newRodRenderer(timeout),
	}
}

func (w *chromeWriter) write(ctx context.Context, doc *Document) ([]byte, error) {
	content, err := w.html.page(ctx, doc, nil, nil)
	if err != nil {
		return nil, err
	}

	opts, err := chromePrintOptions(doc)
	if err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(string(content), "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	defer cleanup()

	return w.renderer.RenderFromFile(ctx, tmpPath, opts)
}

func (w *chromeWriter) close() error {
	if w.renderer != nil {
		return w.renderer.Close()
	}
	return nil
}

// chromePrintOptions maps the spec geometry and print templates to Chrome options.
func chromePrintOptions(doc *Document) (*proto.PagePrintToPDF, error) {
	spec := doc.Spec
	w, h := spec.PageDimensions()
	m := spec.Margins

	header, err := chromeHeaderTemplate(doc)
	if err != nil {
		return nil, err
	}
	footer, err := chromeFooterTemplate(doc)
	if err != nil {
		return nil, err
	}

	return &proto.PagePrintToPDF{
		PaperWidth:          floatPtr(w / mmPerInch),
		PaperHeight:         floatPtr(h / mmPerInch),
		MarginTop:           floatPtr(m.Top / mmPerInch),
		MarginBottom:        floatPtr(m.Bottom / mmPerInch),
		MarginLeft:          floatPtr(m.Left / mmPerInch),
		MarginRight:         floatPtr(m.Right / mmPerInch),
		PrintBackground:     true,
		DisplayHeaderFooter: true,
		HeaderTemplate:      header,
		FooterTemplate:      footer,
	}, nil
}

// chromeHeaderTemplate renders the header grid for Chrome's header band.
// Page tokens become Chrome's pageNumber and totalPages placeholders.
func chromeHeaderTemplate(doc *Document) (string, error) {
	spec := doc.Spec
	view := chromeBandView{
		Box: template.CSS(fmt.Sprintf("width: 100%%; box-sizing: border-box; padding: %.2fmm %.2fmm 0 %.2fmm;",
			spec.HeaderDistance, spec.Margins.Right, spec.Margins.Left)),
		CSS:   template.CSS(buildGridCSS(spec) + buildRoleCSS(spec)),
		Table: newTableView(doc.Header, chromePageMarkup),
	}
	return executeBand("header", view)
}

// chromeFooterTemplate renders the footer lines for Chrome's footer band.
func chromeFooterTemplate(doc *Document) (string, error) {
	spec := doc.Spec
	view := chromeBandView{
		Box: template.CSS(fmt.Sprintf("width: 100%%; box-sizing: border-box; padding: 0 %.2fmm %.2fmm %.2fmm;",
			spec.Margins.Right, spec.FooterDistance, spec.Margins.Left)),
		CSS:    template.CSS(buildRoleCSS(spec) + "footer { margin: 0; } p { margin: 0; white-space: nowrap; }"),
		Footer: newParagraphView(doc.Footer),
	}
	return executeBand("chromefooter", view)
}

func executeBand(name string, view chromeBandView) (string, error) {
	var buf bytes.Buffer
	if err := documentTemplate.ExecuteTemplate(&buf, name, view); err != nil {
		return "", fmt.Errorf("%w: %s template: %v", ErrSerialization, name, err)
	}
	return buf.String(), nil
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// rodRenderer implements pdfRenderer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodRenderer struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l

	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		r.stopLauncher()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources and kills any helper processes left behind.
func (r *rodRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	r.stopLauncher()
	return err
}

// stopLauncher kills the browser process tree and removes its profile directory.
func (r *rodRenderer) stopLauncher() {
	if r.launcher == nil {
		return
	}
	process.KillTree(r.launcher.PID())
	r.launcher.Kill()
	r.launcher.Cleanup()
	r.launcher = nil
}

// RenderFromFile opens a local HTML file in headless Chrome and prints it to PDF.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *proto.PagePrintToPDF) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	// Wait for page to load with timeout from context or default
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	if !bytes.HasPrefix(pdfBuf, []byte("%PDF")) {
		return nil, fmt.Errorf("%w: output is not a PDF", ErrPDFGeneration)
	}
	return pdfBuf, nil
}
