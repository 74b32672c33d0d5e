package ocr

import (
	"context"
	"fmt"
	"regexp"
)

// stray box-drawing characters tesseract emits around table rules
var reBoxNoise = regexp.MustCompile(`[\x{2500}-\x{257F}]+`)

func (e *Extractor) tesseractOCR(ctx context.Context, path, lang string) (string, []string, error) {
	args := []string{path, "stdout", "-l", lang}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}

	// minor cleanup of obvious line noise
	txt := reBoxNoise.ReplaceAllString(string(out), "")
	return txt, nil, nil
}
