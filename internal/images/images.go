package images

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Record is one embedded raster image, re-encoded for transport.
type Record struct {
	ID          string `json:"id"`
	Page        int    `json:"page"`
	Description string `json:"description,omitempty"`
	MIMEType    string `json:"mime_type"`
	Data        string `json:"data"`
}

// Extractor pulls embedded images out of PDF documents.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// FromPDF extracts every supported embedded image, page by page.
// Individual decode failures are logged and skipped; they never abort
// the remaining images.
func (e *Extractor) FromPDF(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return nil, err
	}

	var out []Record
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		pageImages, err := pdfcpu.ExtractPageImages(ctx, pageNr, false)
		if err != nil {
			e.logger.Debug("images.page.failed", "page", pageNr, "error", err)
			continue
		}
		for _, img := range pageImages {
			decoded, _, err := image.Decode(img)
			if err != nil {
				e.logger.Debug("images.decode.skipped",
					"page", pageNr, "name", img.Name, "type", img.FileType, "error", err)
				continue
			}
			rec, ok := Encode(decoded, pageNr)
			if !ok {
				e.logger.Debug("images.colorspace.skipped", "page", pageNr, "name", img.Name)
				continue
			}
			out = append(out, rec)
		}
	}
	return out, nil
}

// Encode re-encodes a decoded image for transport. Color spaces with
// four or more non-alpha channels are unsupported and skipped. Images
// with an alpha channel become PNG, everything else JPEG.
func Encode(img image.Image, page int) (Record, bool) {
	if isCMYK(img) {
		return Record{}, false
	}

	var buf bytes.Buffer
	mime := "image/jpeg"
	if hasAlpha(img) {
		mime = "image/png"
		if err := png.Encode(&buf, img); err != nil {
			return Record{}, false
		}
	} else {
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			return Record{}, false
		}
	}

	return Record{
		ID:       uuid.NewString(),
		Page:     page,
		MIMEType: mime,
		Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, true
}

func isCMYK(img image.Image) bool {
	_, ok := img.(*image.CMYK)
	return ok
}

// hasAlpha reports whether the pixel format carries an alpha channel,
// whether or not any pixel actually uses it. A fully opaque NRGBA image
// still round-trips through PNG so the channel survives re-encoding.
func hasAlpha(img image.Image) bool {
	switch img.(type) {
	case *image.NRGBA, *image.NRGBA64, *image.RGBA, *image.RGBA64, *image.Alpha, *image.Alpha16:
		return true
	}
	return false
}
