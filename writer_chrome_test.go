package ficha

// Notes:
// - The browser is replaced by mockRenderer; rodRenderer itself needs
//   Chrome and is only checked for lazy start and idempotent Close.
// - The mock reads the temp HTML during the call since the writer removes
//   it afterwards.

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/proto"
)

type mockRenderer struct {
	result []byte
	err    error
	html   string
	opts   *proto.PagePrintToPDF
	closed bool
}

func (m *mockRenderer) RenderFromFile(_ context.Context, filePath string, opts *proto.PagePrintToPDF) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	m.html = string(data)
	m.opts = opts
	return m.result, m.err
}

func (m *mockRenderer) Close() error {
	m.closed = true
	return nil
}

// newMockChromeWriter returns a chrome writer over mock.
func newMockChromeWriter(mock *mockRenderer) *chromeWriter {
	return &chromeWriter{html: newHTMLWriter(), renderer: mock}
}

// ---------------------------------------------------------------------------
// TestChromeWriter_Write - Page handed to the browser
// ---------------------------------------------------------------------------

func TestChromeWriter_Write(t *testing.T) {
	t.Parallel()

	mock := &mockRenderer{result: []byte("%PDF-1.4 fake")}
	w := newMockChromeWriter(mock)

	out, err := w.write(context.Background(), buildDoc(t, sampleRecord()))
	if err != nil {
		t.Fatalf("write() error = %v", err)
	}
	if string(out) != "%PDF-1.4 fake" {
		t.Errorf("write() = %q, want the renderer output", out)
	}

	if !strings.Contains(mock.html, "Pagos duplicados a proveedores") {
		t.Error("page should contain the record body")
	}
	if strings.Contains(mock.html, "<header>") || strings.Contains(mock.html, "<footer") {
		t.Error("header and footer belong to the print templates, not the page")
	}

	if err := w.close(); err != nil || !mock.closed {
		t.Errorf("close() = %v, closed = %v", err, mock.closed)
	}
}

func TestChromeWriter_RendererError(t *testing.T) {
	t.Parallel()

	mock := &mockRenderer{err: ErrPageLoad}
	_, err := newMockChromeWriter(mock).write(context.Background(), buildDoc(t, sampleRecord()))
	if !errors.Is(err, ErrPageLoad) {
		t.Errorf("write() error = %v, want ErrPageLoad", err)
	}
}

// ---------------------------------------------------------------------------
// TestChromePrintOptions - Geometry and print templates
// ---------------------------------------------------------------------------

func TestChromePrintOptions(t *testing.T) {
	t.Parallel()

	spec := DefaultLayoutSpec()
	spec.Orientation = OrientationLandscape
	doc := buildDoc(t, sampleRecord(), WithLayout(spec))

	opts, err := chromePrintOptions(doc)
	if err != nil {
		t.Fatalf("chromePrintOptions() error = %v", err)
	}

	inches := map[string]struct {
		got  *float64
		want float64
	}{
		"PaperWidth":   {opts.PaperWidth, 297 / mmPerInch},
		"PaperHeight":  {opts.PaperHeight, 210 / mmPerInch},
		"MarginTop":    {opts.MarginTop, 34 / mmPerInch},
		"MarginBottom": {opts.MarginBottom, 22 / mmPerInch},
		"MarginLeft":   {opts.MarginLeft, 19.05 / mmPerInch},
		"MarginRight":  {opts.MarginRight, 19.05 / mmPerInch},
	}
	for name, v := range inches {
		if v.got == nil || !approx(*v.got, v.want) {
			t.Errorf("%s = %v, want %v", name, v.got, v.want)
		}
	}
	if !opts.DisplayHeaderFooter || !opts.PrintBackground {
		t.Error("header/footer display and backgrounds should be enabled")
	}

	header := opts.HeaderTemplate
	for _, want := range []string{
		`<span class="pageNumber"></span>-<span class="totalPages"></span>`,
		"LMM_ORG_05",
		"Vigencia:",
		".r-header-title {",
	} {
		if !strings.Contains(header, want) {
			t.Errorf("header template should contain %q", want)
		}
	}
	if strings.Contains(header, PageToken) {
		t.Error("header template still has page tokens")
	}
	if !strings.Contains(opts.FooterTemplate, "Queda prohibida") {
		t.Error("footer template should contain the notice")
	}
}

func TestChromePageMarkup(t *testing.T) {
	t.Parallel()

	got := string(chromePageMarkup("<b>" + PageToken + " de " + PagesToken))
	want := "&lt;b&gt;" + chromePageNumber + " de " + chromeTotalPages
	if got != want {
		t.Errorf("chromePageMarkup() = %q, want %q", got, want)
	}
}

func TestRodRenderer_CloseWithoutBrowser(t *testing.T) {
	t.Parallel()

	r := newRodRenderer(time.Second)
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestRodRenderer_CancelledBeforeLaunch(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newRodRenderer(time.Second)
	if _, err := r.RenderFromFile(ctx, "unused.html", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("RenderFromFile() error = %v, want context.Canceled", err)
	}
	if r.browser != nil {
		t.Error("browser should not start for a cancelled context")
	}
}
