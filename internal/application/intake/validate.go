package intake

import (
	"bytes"
	"image"
	"mime"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register decoder webp

	"github.com/bryanwahyu/laporkerja/internal/domain/media"
)

const (
	// MaxBytes batas ukuran file 10 MB
	MaxBytes = 10 * 1024 * 1024
	// MinDimension sisi minimum, di bawah ini dianggap thumbnail
	MinDimension = 400
	// MaxPixels batas jumlah piksel sebelum decode penuh (50 MP)
	MaxPixels = 50_000_000
)

var allowedTypes = map[string]bool{
	media.TypeJPEG: true,
	media.TypePNG:  true,
	media.TypeWEBP: true,
}

// Validated gambar yang lolos semua cek, sudah di-decode
type Validated struct {
	Input  media.RawInput
	Image  image.Image
	Width  int
	Height int
}

// NormalizeType buang parameter dan samakan huruf, "image/jpg" dianggap jpeg
func NormalizeType(declared string) string {
	mt, _, err := mime.ParseMediaType(declared)
	if err != nil {
		mt = declared
	}
	mt = strings.ToLower(strings.TrimSpace(mt))
	if mt == "image/jpg" || mt == "image/pjpeg" {
		return media.TypeJPEG
	}
	return mt
}

// Validate cek berurutan: tipe, ukuran, header, resolusi, decode.
// Berhenti di kegagalan pertama. Dimensi dibaca dari header dulu supaya
// file kecil yang mengklaim resolusi raksasa tidak pernah di-decode.
func Validate(in media.RawInput) (*Validated, error) {
	if !allowedTypes[NormalizeType(in.MediaType)] {
		return nil, unsupported()
	}
	if in.Size() > MaxBytes {
		return nil, tooLarge()
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(in.Data))
	if err != nil {
		return nil, corrupt()
	}
	if cfg.Width < MinDimension || cfg.Height < MinDimension {
		return nil, tooSmall(cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, tooManyPixels(cfg.Width, cfg.Height)
	}

	// orientasi EXIF diikutkan, sama seperti dimensi yang dilihat user
	img, err := imaging.Decode(bytes.NewReader(in.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, corrupt()
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < MinDimension || h < MinDimension {
		return nil, tooSmall(w, h)
	}

	return &Validated{Input: in, Image: img, Width: w, Height: h}, nil
}
