// Package expopdf turns rendered badges into bitmaps and printable PDFs.
//
// ChromiumEngine renders badge documents in a shared headless Chromium
// instance, captures the badge node at an oversampling factor and can print
// the captured bitmap onto a page of its logical size. FPDFComposer builds the
// same single page document with go-pdf/fpdf when a browser print is not wanted.
package expopdf
