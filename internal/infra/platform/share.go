package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bryanwahyu/laporkerja/internal/domain/delivery"
)

// DirSharer "share" ke folder lokal (mis. folder sinkron Drive/Dropbox):
// foto + teks laporan ditulis berdampingan
type DirSharer struct {
	Dir string
}

func (d DirSharer) CanShareFiles() bool {
	if d.Dir == "" {
		return false
	}
	info, err := os.Stat(d.Dir)
	return err == nil && info.IsDir()
}

// Share tidak cek ulang folder; kalau hilang setelah probe, error tulis
// yang dikembalikan
func (d DirSharer) Share(ctx context.Context, req delivery.ShareRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name := filepath.Base(req.FileName)
	if err := os.WriteFile(filepath.Join(d.Dir, name), req.Data, 0o644); err != nil {
		return fmt.Errorf("write shared image: %w", err)
	}
	txt := name[:len(name)-len(filepath.Ext(name))] + ".txt"
	if err := os.WriteFile(filepath.Join(d.Dir, txt), []byte(req.Title+"\n\n"+req.Text+"\n"), 0o644); err != nil {
		return fmt.Errorf("write shared text: %w", err)
	}
	return nil
}
