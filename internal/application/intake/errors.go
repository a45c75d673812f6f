package intake

import (
	"errors"
	"fmt"
)

// Kind jenis penolakan validasi
type Kind string

const (
	KindUnsupportedType Kind = "unsupported_type"
	KindTooLarge        Kind = "too_large"
	KindTooSmall        Kind = "too_small"
	KindCorrupt         Kind = "corrupt"
)

// ValidationError ditolak di device, pesan bisa langsung ditampilkan ke user
type ValidationError struct {
	Kind    Kind
	Message string
	Width   int
	Height  int
}

func (e *ValidationError) Error() string { return e.Message }

// ErrTranscodeFailed encode ulang gagal
var ErrTranscodeFailed = errors.New("transcode failed")

func unsupported() error {
	return &ValidationError{Kind: KindUnsupportedType, Message: "Mohon upload file gambar (JPG, PNG, WEBP)."}
}

func tooLarge() error {
	return &ValidationError{Kind: KindTooLarge, Message: "Ukuran file terlalu besar (Max 10MB)."}
}

func tooManyPixels(w, h int) error {
	return &ValidationError{
		Kind:    KindTooLarge,
		Width:   w,
		Height:  h,
		Message: fmt.Sprintf("Resolusi gambar terlalu besar (%dx%dpx). Maksimal 50 megapiksel.", w, h),
	}
}

func corrupt() error {
	return &ValidationError{Kind: KindCorrupt, Message: "File gambar rusak atau tidak valid."}
}

func tooSmall(w, h int) error {
	return &ValidationError{
		Kind:   KindTooSmall,
		Width:  w,
		Height: h,
		Message: fmt.Sprintf("Resolusi gambar terlalu rendah (%dx%dpx). \n\n"+
			"Sistem menolak gambar yang terlihat seperti Thumbnail atau unduhan Google. "+
			"Harap gunakan foto asli dari kamera.", w, h),
	}
}

// AsValidation helper errors.As
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
