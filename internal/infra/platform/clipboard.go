package platform

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/bryanwahyu/laporkerja/internal/domain/delivery"
)

// SystemClipboard clipboard OS lewat atotto/clipboard. Hanya teks;
// clipboard gambar tidak didukung library ini.
type SystemClipboard struct{}

func (SystemClipboard) CanWriteText() bool  { return !clipboard.Unsupported }
func (SystemClipboard) CanWriteImage() bool { return false }

func (SystemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return delivery.ErrCapabilityUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard write: %w", err)
	}
	return nil
}

func (SystemClipboard) WriteImage(string, []byte) error {
	return fmt.Errorf("%w: image clipboard", delivery.ErrCapabilityUnavailable)
}
