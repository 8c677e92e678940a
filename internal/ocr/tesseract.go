// Package ocr extracts text from receipt images using Tesseract.
package ocr

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TextExtractor reads the text content of an uploaded receipt image.
type TextExtractor interface {
	ExtractText(fileHeader *multipart.FileHeader) (string, error)
}

// TesseractExtractor runs local Tesseract OCR on uploaded images.
type TesseractExtractor struct {
	languages []string
}

// NewTesseractExtractor creates an extractor for the given tesseract
// language list, separated by "," or "+", e.g. "eng" or "eng+hin".
func NewTesseractExtractor(languages string) *TesseractExtractor {
	langs := strings.FieldsFunc(languages, func(r rune) bool { return r == ',' || r == '+' })
	if len(langs) == 0 {
		langs = []string{"eng"}
	}
	return &TesseractExtractor{languages: langs}
}

// ExtractText copies the upload to a temp file and runs OCR on it.
// gosseract needs a path on disk, it cannot read from a stream.
func (t *TesseractExtractor) ExtractText(fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	tempPath, err := writeTempFile(file, fileHeader.Filename)
	if err != nil {
		return "", fmt.Errorf("failed to stage upload: %w", err)
	}
	defer os.Remove(tempPath)

	return t.extract(tempPath)
}

func (t *TesseractExtractor) extract(path string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.languages...); err != nil {
		return "", fmt.Errorf("failed to set OCR language: %w", err)
	}
	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("failed to load image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR extraction failed: %w", err)
	}
	return text, nil
}

func writeTempFile(file multipart.File, filename string) (string, error) {
	tempFile, err := os.CreateTemp("", "receipt-*"+filepath.Ext(filename))
	if err != nil {
		return "", err
	}
	defer tempFile.Close()

	if _, err := io.Copy(tempFile, file); err != nil {
		os.Remove(tempFile.Name())
		return "", err
	}
	return tempFile.Name(), nil
}
