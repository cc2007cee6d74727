package scraper

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"

	errs "relevador/pkg/errors"
)

// extractPDFText pulls the embedded text stream out of a PDF. Malformed
// brochures are common; the underlying reader can panic on them, so the
// recover turns that into an extraction error instead of killing the run.
func extractPDFText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = errs.NewExtraction("pdf text", fmt.Errorf("%v", r))
		}
	}()

	reader, rerr := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if rerr != nil {
		return "", errs.NewExtraction("pdf open", rerr)
	}

	plain, rerr := reader.GetPlainText()
	if rerr != nil {
		return "", errs.NewExtraction("pdf text", rerr)
	}

	var buf bytes.Buffer
	if _, rerr := io.Copy(&buf, plain); rerr != nil {
		return "", errs.NewExtraction("pdf text", rerr)
	}
	return buf.String(), nil
}
