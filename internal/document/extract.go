// Package document pulls plain text out of uploaded patient documents.
// Extraction never fails: unreadable input yields an empty string so the
// consultation simply goes ahead without that context.
package document

import (
	"bytes"
	"log"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/lu4p/cat/docxtxt"
)

const (
	TypePDF  = "application/pdf"
	TypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypePNG  = "image/png"
	TypeJPEG = "image/jpeg"
	TypeJPG  = "image/jpg"
)

// ImagePlaceholder stands in for image uploads, which are not parsed.
const ImagePlaceholder = "An image file was uploaded. Please describe its contents in the symptoms or medical history fields if relevant."

// MaxUploadBytes bounds the size of an accepted upload.
const MaxUploadBytes = 10 << 20

var extTypes = map[string]string{
	".pdf":  TypePDF,
	".docx": TypeDOCX,
	".png":  TypePNG,
	".jpg":  TypeJPEG,
	".jpeg": TypeJPEG,
}

// DetectType resolves the upload type from the declared content type, falling
// back to the file extension.
func DetectType(fileName, contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch ct {
	case TypePDF, TypeDOCX, TypePNG, TypeJPEG, TypeJPG:
		return ct
	}
	return extTypes[strings.ToLower(filepath.Ext(fileName))]
}

// Extract returns the text content of an upload.
func Extract(fileName, contentType string, data []byte) string {
	switch DetectType(fileName, contentType) {
	case TypePDF:
		return extractPDF(data)
	case TypeDOCX:
		return extractDOCX(data)
	case TypePNG, TypeJPEG, TypeJPG:
		return ImagePlaceholder
	default:
		return ""
	}
}

func extractPDF(data []byte) (text string) {
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("document: pdf parser panic: %v", r)
			text = ""
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		log.Printf("document: unreadable pdf: %v", err)
		return ""
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pageText, err := p.GetPlainText(nil)
		if err != nil {
			log.Printf("document: pdf page %d: %v", i, err)
			continue
		}
		pages = append(pages, pageText)
	}
	return strings.Join(pages, "\n")
}

func extractDOCX(data []byte) (text string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("document: docx parser panic: %v", r)
			text = ""
		}
	}()

	text, err := docxtxt.BytesToStr(data)
	if err != nil {
		log.Printf("document: unreadable docx: %v", err)
		return ""
	}
	return strings.TrimSpace(text)
}
