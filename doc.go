// Package ficha renders risk register records as paginated corporate
// risk sheets ("fichas de riesgo").
//
// # Quick Start
//
// Create a renderer, render a record, and close when done:
//
//	r, err := ficha.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	rec := ficha.RiskRecord{
//	    ID:          "R-01",
//	    Description: "Pagos duplicados a proveedores",
//	    Severity:    "3",
//	    Probability: "4",
//	    Product:     "12",
//	    Scale:       "Alto",
//	}
//	pdf, err := r.Render(rec)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(ficha.FileName(rec, "pdf"), pdf, 0644)
//
// # Rendering Pipeline
//
// Rendering happens in two stages:
//
//  1. The layout engine maps a RiskRecord to a backend-neutral Document:
//     a repeating header grid and footer, plus body blocks (headings,
//     paragraphs, key/value sections and bordered tables).
//  2. A writer serializes the Document. FormatPDF draws it with fpdf core
//     fonts; FormatHTML emits a standalone page; FormatChrome prints that
//     page through headless Chrome (go-rod).
//
// Use Renderer.Build to inspect the Document without serializing it.
//
// # Layout
//
// LayoutSpec holds everything that does not vary per record: page size,
// margins, header and footer bands, column widths, the style of every
// StyleRole and the template wording. DefaultLayoutSpec returns the
// corporate template; pass a modified copy with WithLayout:
//
//	spec := ficha.DefaultLayoutSpec()
//	spec.Text.Validity = "01/03/2025"
//	r, err := ficha.NewRenderer(ficha.WithLayout(spec), ficha.WithFormat(ficha.FormatHTML))
//
// The header's page cell may use {page} and {pages}. The PDF writer
// resolves both; the HTML writer shows a single page.
//
// # Logo
//
// The header shows logo.png from the directories given to WithLogoDir.
// When the logo is missing or cannot be decoded, the header prints the
// fallback text instead and rendering continues.
//
// # Parallel Processing
//
// FormatPDF and FormatHTML renderers are safe for concurrent use. For
// FormatChrome, use a RendererPool so each goroutine gets its own browser:
//
//	pool, err := ficha.NewRendererPool(ficha.ResolvePoolSize(0), ficha.WithFormat(ficha.FormatChrome))
//	defer pool.Close()
//
//	r, err := pool.Acquire(ctx)
//	defer pool.Release(r)
//	out, err := r.RenderContext(ctx, rec)
//
// # Browser Requirements
//
// FormatChrome requires Chrome/Chromium. The go-rod library downloads a
// managed Chromium instance on first run (~/.cache/rod/browser/). Use
// ROD_BROWSER_BIN to specify a custom Chrome binary.
package ficha
