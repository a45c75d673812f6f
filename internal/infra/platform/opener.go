package platform

import (
	"fmt"
	"io"

	"github.com/pkg/browser"
)

// BrowserOpener serahkan URL (wa.me, mailto:, spreadsheet) ke handler default OS
type BrowserOpener struct{}

func NewBrowserOpener() BrowserOpener {
	// output xdg-open dkk jangan bocor ke stdout CLI
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return BrowserOpener{}
}

func (BrowserOpener) Open(url string) error {
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("open url: %w", err)
	}
	return nil
}
