package ocr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"BacBoScanner/internal/ports"
)

// Tesseract recognizes text by shelling out to the tesseract binary. The
// engine is a black box: PNG in, transcript out. Whether the binary exists
// is probed once at construction; absence is a process-lifetime condition
// that simply disables the screenshot pipeline.
type Tesseract struct {
	binary    string
	language  string
	available bool
	logger    *slog.Logger
}

var _ ports.TextRecognizer = (*Tesseract)(nil)

// New probes for the binary. An empty binary name means "tesseract" on
// PATH; an empty language means English.
func New(binary, language string, logger *slog.Logger) *Tesseract {
	if binary == "" {
		binary = "tesseract"
	}
	if language == "" {
		language = "eng"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		logger.Warn("tesseract not found, screenshot extraction disabled", "binary", binary)
		return &Tesseract{binary: binary, language: language, logger: logger}
	}
	return &Tesseract{binary: path, language: language, available: true, logger: logger}
}

// Available reports whether the binary was found at startup.
func (t *Tesseract) Available() bool {
	return t.available
}

// Recognize feeds the image through tesseract and returns the transcript.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) (string, error) {
	if !t.available {
		return "", fmt.Errorf("tesseract unavailable")
	}
	if len(image) == 0 {
		return "", fmt.Errorf("empty image")
	}

	cmd := exec.CommandContext(ctx, t.binary, "stdin", "stdout", "-l", t.language)
	cmd.Stdin = bytes.NewReader(image)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("run tesseract: %w: %s", err, detail)
		}
		return "", fmt.Errorf("run tesseract: %w", err)
	}
	return out.String(), nil
}
