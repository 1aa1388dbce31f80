//go:build !cgo

package ocr

import (
	"context"
	"fmt"
)

// Tesseract requires cgo to link libtesseract; gosseract's client only
// exists in cgo builds. This no-cgo variant keeps the same API and fails
// when a recognition is actually requested.
type Tesseract struct{}

// NewTesseract constructs a Tesseract-backed OCR engine.
func NewTesseract() *Tesseract {
	return &Tesseract{}
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
	return Result{}, fmt.Errorf("tesseract ocr engine requires a cgo build (binary was built with CGO_ENABLED=0)")
}
