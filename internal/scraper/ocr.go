package scraper

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	errs "relevador/pkg/errors"
)

// OCR is the optional capability used when a brochure PDF carries no usable
// embedded text (scanned pages). A nil OCR means the capability is absent
// and the fallback silently degrades to "no result".
type OCR interface {
	ExtractText(pdfData []byte) (string, error)
}

// ocrRequest is the payload sent to the OCR sidecar service
type ocrRequest struct {
	Document  string  `json:"document"`
	Languages string  `json:"languages"`
	Scale     float64 `json:"scale"`
}

// ocrResponse is the sidecar's reply
type ocrResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text,omitempty"`
	Pages   int    `json:"pages,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ServiceOCR implements OCR against a tesseract sidecar service. The sidecar
// rasterizes each page at the requested upscale factor and runs combined
// Spanish+English models, returning the concatenated per-page text.
type ServiceOCR struct {
	serviceURL string
	client     *http.Client
}

// NewServiceOCR creates an OCR client, or nil when no service is configured
func NewServiceOCR(serviceURL string) *ServiceOCR {
	if serviceURL == "" {
		return nil
	}
	return &ServiceOCR{
		serviceURL: serviceURL,
		client: &http.Client{
			// OCR on a multi-page brochure is slow
			Timeout: 120 * time.Second,
		},
	}
}

// ExtractText sends the PDF to the sidecar and returns the recognized text
func (o *ServiceOCR) ExtractText(pdfData []byte) (string, error) {
	payload := ocrRequest{
		Document:  base64.StdEncoding.EncodeToString(pdfData),
		Languages: "spa+eng",
		Scale:     2.2,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", errs.NewExtraction("ocr request", err)
	}

	resp, err := o.client.Post(o.serviceURL+"/ocr", "application/json", bytes.NewReader(data))
	if err != nil {
		return "", errs.NewCapability("ocr service")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errs.NewExtraction("ocr response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", errs.NewHTTP(resp.StatusCode, o.serviceURL)
	}

	var parsed ocrResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errs.NewExtraction("ocr response", err)
	}
	if !parsed.Success {
		return "", errs.NewExtraction("ocr", fmt.Errorf("%s", parsed.Error))
	}
	return parsed.Text, nil
}
