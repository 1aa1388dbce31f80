// Package ocr defines the OCR engine contract behind the ocr tool and its
// Tesseract implementation. Engines are transport-agnostic so tests can plug
// in fakes without a native Tesseract install.
package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Input is a single image submitted for recognition.
type Input struct {
	// Path is the image file to read.
	Path string
	// Language is the Tesseract trained-data code (e.g. "eng", "ara"),
	// passed through unchanged.
	Language string
}

// Result is the recognized text for one input.
type Result struct {
	Text     string
	Language string
}

// Engine is the OCR provider contract: one image in, one result out.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, in Input) (Result, error)
}

// TextFile is a degraded engine that reads the input file as UTF-8 text.
// It backs the ocr tool when Tesseract is disabled, so the pipeline still
// runs end to end against plain-text samples.
type TextFile struct{}

// Name implements Engine.
func (TextFile) Name() string { return "textfile" }

// Recognize implements Engine.
func (TextFile) Recognize(ctx context.Context, in Input) (Result, error) {
	if err := validateInput(in); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	data, err := os.ReadFile(in.Path)
	if err != nil {
		return Result{}, fmt.Errorf("read input file: %w", err)
	}
	return Result{Text: strings.TrimSpace(string(data)), Language: in.Language}, nil
}

func validateInput(in Input) error {
	if strings.TrimSpace(in.Path) == "" {
		return fmt.Errorf("ocr input path is required")
	}
	if strings.TrimSpace(in.Language) == "" {
		return fmt.Errorf("ocr language hint is required (e.g. 'eng', 'ara')")
	}
	if _, err := os.Stat(in.Path); err != nil {
		return fmt.Errorf("ocr input file: %w", err)
	}
	return nil
}
