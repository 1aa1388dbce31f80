//go:build cgo

package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognizes images with the gosseract client. A fresh client is
// created per call; the factory is injectable for tests.
type Tesseract struct {
	clientFactory func() *gosseract.Client
}

// NewTesseract constructs a Tesseract-backed OCR engine.
func NewTesseract() *Tesseract {
	return &Tesseract{clientFactory: gosseract.NewClient}
}

// Name implements Engine.
func (e *Tesseract) Name() string { return "tesseract" }

// Recognize implements Engine.
func (e *Tesseract) Recognize(ctx context.Context, in Input) (Result, error) {
	if err := validateInput(in); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	c := e.clientFactory()
	defer func() { _ = c.Close() }()

	lang := strings.TrimSpace(in.Language)
	if err := c.SetLanguage(lang); err != nil {
		return Result{}, fmt.Errorf("set ocr language %q: %w", lang, err)
	}
	if err := c.SetImage(in.Path); err != nil {
		return Result{}, fmt.Errorf("set ocr image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return Result{}, fmt.Errorf("recognize text: %w", err)
	}
	return Result{Text: strings.TrimSpace(text), Language: lang}, nil
}
