// Package printing renders order invoices to PDF.
//
// Invoices are HTML templates executed with html/template and printed by a
// headless Chrome driven through chromedp. The browser is started once and
// shared; every render opens its own tab.
//
// Example usage:
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer renderer.Close()
//
//	printer, err := NewInvoicePrinter(renderer, PaperSizeA4)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pdf, err := printer.RenderInvoice(ctx, data)
package printing
