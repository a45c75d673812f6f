package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	appdelivery "github.com/bryanwahyu/laporkerja/internal/application/delivery"
	appreports "github.com/bryanwahyu/laporkerja/internal/application/reports"
	"github.com/bryanwahyu/laporkerja/internal/domain/delivery"
	"github.com/bryanwahyu/laporkerja/internal/domain/reports"
	"github.com/bryanwahyu/laporkerja/internal/domain/settings"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) printView(ctx context.Context, cmd *cobra.Command, v appreports.View) error {
	w := cmd.OutOrStdout()
	var location, link string
	if v.State == appreports.StateSuccess && v.Report != nil {
		location = c.app.Delivery.Location(ctx, *v.Report)
		link = c.app.Delivery.Link(ctx, *v.Report)
	}

	if c.jsonOut {
		if v.Report != nil {
			// data URL foto terlalu besar untuk terminal
			r := *v.Report
			r.Image = ""
			v.Report = &r
		}
		return writeJSON(w, struct {
			appreports.View
			Location string `json:"location,omitempty"`
			Link     string `json:"link,omitempty"`
		}{v, location, link})
	}

	switch v.State {
	case appreports.StateSuccess:
		fmt.Fprintf(w, "ID: %s\n\n", v.Report.ID)
		fmt.Fprintln(w, appdelivery.RenderText(*v.Report, location, link))
	case appreports.StateError:
		fmt.Fprintf(w, "Gagal (%s): %s\n", v.Failure.Kind, v.Failure.Message)
	case appreports.StateAnalyzing:
		fmt.Fprintf(w, "Sedang diproses (%s)\n", v.Phase)
	default:
		fmt.Fprintln(w, "Belum ada laporan aktif.")
		if v.RestoreAvailable {
			fmt.Fprintln(w, "Sesi terakhir tersedia: jalankan `laporkerja restore` atau `laporkerja dismiss`.")
		}
	}
	return nil
}

func (c *cli) printHistory(cmd *cobra.Command, items []reports.HistoryItem) error {
	w := cmd.OutOrStdout()
	if c.jsonOut {
		type row struct {
			ID                   string  `json:"id"`
			ReportID             string  `json:"reportId"`
			Timestamp            string  `json:"timestamp"`
			CompletionPercentage float64 `json:"completionPercentage"`
			Summary              string  `json:"summary"`
		}
		rows := make([]row, 0, len(items))
		for _, it := range items {
			rows = append(rows, row{
				ID:                   it.ID,
				ReportID:             string(it.Report.ID),
				Timestamp:            it.Report.DisplayTime(),
				CompletionPercentage: it.Report.CompletionPercentage,
				Summary:              it.Report.Summary,
			})
		}
		return writeJSON(w, rows)
	}
	if len(items) == 0 {
		fmt.Fprintln(w, "Riwayat kosong.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWAKTU\tPROGRESS\tRINGKASAN")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s%%\t%s\n", it.ID, it.Report.DisplayTime(),
			appdelivery.FormatPercent(it.Report.CompletionPercentage), it.Report.Summary)
	}
	return tw.Flush()
}

func (c *cli) printSettings(cmd *cobra.Command, st settings.Settings) error {
	w := cmd.OutOrStdout()
	if c.jsonOut {
		return writeJSON(w, st)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "WhatsApp\t%s\n", st.WhatsAppNumber)
	fmt.Fprintf(tw, "Email\t%s\n", st.EmailAddress)
	fmt.Fprintf(tw, "Spreadsheet\t%s\n", st.SpreadsheetURL)
	fmt.Fprintf(tw, "Upload URL\t%s\n", st.UploadURL)
	fmt.Fprintf(tw, "Upload token\t%s\n", st.UploadToken)
	fmt.Fprintf(tw, "Auto upload\t%t\n", st.AutoUpload)
	return tw.Flush()
}

func (c *cli) printOutcome(cmd *cobra.Command, out delivery.Outcome) {
	w := cmd.OutOrStdout()
	if c.jsonOut {
		_ = writeJSON(w, out)
		return
	}
	if out.Via != "" {
		fmt.Fprintf(w, "Dikirim via %s\n", out.Via)
	}
	if out.Link != "" {
		fmt.Fprintf(w, "Link foto: %s\n", out.Link)
	}
	if out.Handoff != "" && !out.Opened {
		fmt.Fprintf(w, "Buka: %s\n", out.Handoff)
	}
	if out.Guidance != "" {
		fmt.Fprintln(w, out.Guidance)
	}
	if out.Text != "" && !out.TextCopied && out.Channel == delivery.ChannelCopy {
		fmt.Fprintln(w, out.Text)
	}
}
