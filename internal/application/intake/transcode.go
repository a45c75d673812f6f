package intake

import (
	"bytes"
	"fmt"
	"math"

	"github.com/disintegration/imaging"

	"github.com/bryanwahyu/laporkerja/internal/domain/media"
)

const (
	// MaxLongEdge sisi terpanjang setelah resize
	MaxLongEdge = 1280
	// JPEGQuality kualitas encode (0.7)
	JPEGQuality = 70
)

// TargetSize hitung ukuran output, aspect ratio tetap
func TargetSize(w, h int) (int, int) {
	if w <= MaxLongEdge && h <= MaxLongEdge {
		return w, h
	}
	if w > h {
		nh := int(math.Round(float64(h) * MaxLongEdge / float64(w)))
		return MaxLongEdge, max(nh, 1)
	}
	nw := int(math.Round(float64(w) * MaxLongEdge / float64(h)))
	return max(nw, 1), MaxLongEdge
}

// Transcode resize kalau perlu lalu encode ulang ke JPEG.
// Selalu encode ulang walau sudah kecil.
func Transcode(v *Validated) (media.EncodedImage, error) {
	if v == nil || v.Image == nil {
		return "", fmt.Errorf("%w: no image", ErrTranscodeFailed)
	}

	img := v.Image
	w, h := TargetSize(v.Width, v.Height)
	if w != v.Width || h != v.Height {
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscodeFailed, err)
	}
	return media.NewEncodedImage(media.TypeJPEG, buf.Bytes()), nil
}

// Prepare validate + transcode, fase "compressing"
func Prepare(in media.RawInput) (media.EncodedImage, error) {
	v, err := Validate(in)
	if err != nil {
		return "", err
	}
	return Transcode(v)
}
