package main

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	appreports "github.com/bryanwahyu/laporkerja/internal/application/reports"
	"github.com/bryanwahyu/laporkerja/internal/domain/delivery"
	"github.com/bryanwahyu/laporkerja/internal/domain/media"
	"github.com/bryanwahyu/laporkerja/internal/domain/reports"
	"github.com/bryanwahyu/laporkerja/internal/middleware"
)

func newSubmitCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <foto>",
		Short: "Analisis satu foto pekerjaan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			view, err := c.app.Reports.Submit(ctx, media.RawInput{
				Name:      filepath.Base(args[0]),
				MediaType: mediaType(args[0], data),
				Data:      data,
			})
			if err != nil {
				return err
			}
			// tunggu auto-locate / auto-upload supaya lokasi & link ikut tampil
			c.app.Delivery.Wait()
			return c.printView(ctx, cmd, view)
		},
	}
}

func mediaType(path string, data []byte) string {
	if mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); mt != "" {
		return mt
	}
	return http.DetectContentType(data)
}

func newStateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Tampilkan state laporan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.printView(cmd.Context(), cmd, c.app.Reports.View())
		},
	}
}

func newResetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Tutup laporan aktif dan hapus sesi terakhir (riwayat tetap)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			// proses baru selalu Idle; sesi tersimpan tetap harus dibuang
			if c.app.Reports.View().State == appreports.StateIdle {
				return c.app.Reports.Dismiss(ctx)
			}
			return c.app.Reports.Reset(ctx)
		},
	}
}

func newRestoreCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Pulihkan laporan dari sesi terakhir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := c.app.Reports.Restore(cmd.Context())
			if err != nil {
				return err
			}
			return c.printView(cmd.Context(), cmd, view)
		},
	}
}

func newDismissCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss",
		Short: "Buang sesi terakhir tanpa memulihkan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Reports.Dismiss(cmd.Context())
		},
	}
}

func newHistoryCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Riwayat laporan",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Daftar riwayat, terbaru di atas",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				items, err := c.app.Reports.ListHistory(cmd.Context())
				if err != nil {
					return err
				}
				return c.printHistory(cmd, items)
			},
		},
		&cobra.Command{
			Use:   "load <id>",
			Short: "Buka laporan dari riwayat",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				view, err := c.app.Reports.LoadHistory(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return c.printView(cmd.Context(), cmd, view)
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Hapus satu item riwayat",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.app.Reports.DeleteHistory(cmd.Context(), args[0])
			},
		},
	)
	return cmd
}

func newSettingsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Pengaturan tujuan laporan",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Tampilkan pengaturan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := c.app.Settings.Load(cmd.Context())
			if err != nil {
				return err
			}
			return c.printSettings(cmd, st.Redacted())
		},
	}

	var (
		whatsapp, email, sheet, uploadURL, uploadToken string
		autoUpload                                     bool
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Ubah pengaturan (hanya flag yang diisi)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			st, err := c.app.Settings.Load(ctx)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("whatsapp") {
				st.WhatsAppNumber = middleware.SanitizeString(whatsapp)
			}
			if flags.Changed("email") {
				st.EmailAddress = middleware.SanitizeString(email)
			}
			if flags.Changed("spreadsheet") {
				st.SpreadsheetURL = middleware.SanitizeString(sheet)
			}
			if flags.Changed("upload-url") {
				st.UploadURL = middleware.SanitizeString(uploadURL)
			}
			if flags.Changed("upload-token") {
				st.UploadToken = uploadToken
			}
			if flags.Changed("auto-upload") {
				st.AutoUpload = autoUpload
			}
			if err := middleware.ValidateSettings(st); err != nil {
				return err
			}
			if err := c.app.Settings.Save(ctx, st); err != nil {
				return err
			}
			return c.printSettings(cmd, st.Redacted())
		},
	}
	set.Flags().StringVar(&whatsapp, "whatsapp", "", "Nomor WhatsApp tujuan")
	set.Flags().StringVar(&email, "email", "", "Email kantor")
	set.Flags().StringVar(&sheet, "spreadsheet", "", "URL spreadsheet")
	set.Flags().StringVar(&uploadURL, "upload-url", "", "Endpoint upload foto")
	set.Flags().StringVar(&uploadToken, "upload-token", "", "Bearer token endpoint upload")
	set.Flags().BoolVar(&autoUpload, "auto-upload", false, "Upload otomatis setelah analisa")

	cmd.AddCommand(show, set)
	return cmd
}

func newLocationCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "location",
		Short: "Lokasi laporan aktif",
	}
	var historyID string
	cmd.PersistentFlags().StringVar(&historyID, "history", "", "Pakai laporan dari riwayat")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <lokasi...>",
			Short: "Isi lokasi secara manual",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				r, err := c.active(ctx, historyID)
				if err != nil {
					return err
				}
				loc := middleware.SanitizeString(strings.Join(args, " "))
				if err := c.app.Delivery.Relocate(ctx, r, loc); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), c.app.Delivery.Location(ctx, r))
				return nil
			},
		},
		&cobra.Command{
			Use:   "detect",
			Short: "Deteksi lokasi dari geolocation",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ctx := cmd.Context()
				r, err := c.active(ctx, historyID)
				if err != nil {
					return err
				}
				loc, ok := c.app.Delivery.Locate(ctx, r)
				if !ok {
					return errors.New("lokasi tidak dapat dideteksi")
				}
				fmt.Fprintln(cmd.OutOrStdout(), loc)
				return nil
			},
		},
	)
	return cmd
}

func newDeliverCmd(c *cli) *cobra.Command {
	var (
		historyID string
		outPath   string
	)
	cmd := &cobra.Command{
		Use:       "deliver <channel>",
		Short:     "Kirim laporan aktif (send, whatsapp, email, spreadsheet, share, cloud, copy, export)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"send", "whatsapp", "email", "spreadsheet", "share", "cloud", "copy", "export"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ch, ok := delivery.ParseChannel(args[0])
			if !ok {
				return fmt.Errorf("%w: %q", delivery.ErrUnknownChannel, args[0])
			}
			r, err := c.active(ctx, historyID)
			if err != nil {
				return err
			}

			out, err := c.app.Delivery.Dispatch(ctx, r, ch)
			var cm *delivery.ConfigurationMissingError
			if errors.As(err, &cm) {
				// spreadsheet tetap menyalin teks walau URL belum diatur
				c.printOutcome(cmd, out)
				return errors.New(cm.Message())
			}
			if err != nil {
				return err
			}

			if out.Artifact != nil {
				path := outPath
				if path == "" {
					path = out.Artifact.FileName
				}
				if err := os.WriteFile(path, out.Artifact.Data, 0o644); err != nil {
					return fmt.Errorf("tulis %s: %w", path, err)
				}
				c.logger().Info("export written", zap.String("path", path), zap.Int("pages", out.Artifact.Pages))
				out.Handoff = path
			}
			c.printOutcome(cmd, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&historyID, "history", "", "Kirim laporan dari riwayat")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Path file hasil export")
	return cmd
}

// active laporan yang dioperasikan: riwayat kalau diminta, laporan yang
// sedang tampil, atau sesi terakhir (proses CLI selalu mulai dari Idle)
func (c *cli) active(ctx context.Context, historyID string) (reports.Report, error) {
	if historyID != "" {
		if _, err := c.app.Reports.LoadHistory(ctx, historyID); err != nil {
			return reports.Report{}, err
		}
		return c.app.Reports.Active()
	}
	if r, err := c.app.Reports.Active(); err == nil {
		return r, nil
	}
	if _, err := c.app.Reports.Restore(ctx); err != nil {
		if errors.Is(err, reports.ErrNoSnapshot) {
			return reports.Report{}, errors.New("belum ada laporan aktif, jalankan submit atau pakai --history")
		}
		return reports.Report{}, err
	}
	return c.app.Reports.Active()
}
