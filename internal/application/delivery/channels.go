package delivery

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	domain "github.com/bryanwahyu/laporkerja/internal/domain/delivery"
	"github.com/bryanwahyu/laporkerja/internal/domain/reports"
	"github.com/bryanwahyu/laporkerja/internal/domain/settings"
)

// Guidance pesan lanjutan untuk user
const (
	guideWhatsAppPaste   = "Foto telah disalin ke Clipboard. Silakan PASTE di chat WhatsApp."
	guideWhatsAppManual  = "Info: Foto tidak dapat disalin otomatis. Silakan lampirkan foto secara manual di WhatsApp."
	guideMailPaste       = "Foto telah disalin ke Clipboard. Silakan PASTE (Ctrl+V) di badan email."
	guideMailManual      = "Info: Foto tidak dapat dilampirkan otomatis. Silakan lampirkan foto secara manual."
	guideSheetPaste      = "Teks laporan disalin. Silakan paste di baris baru Spreadsheet."
	guideSheetManual     = "Salin teks laporan secara manual ke Spreadsheet."
	guideCloudDone       = "Data Berhasil Disimpan ke Cloud!"
	guideCloudAlready    = "Laporan sudah tersimpan di Cloud."
	guideCopyDone        = "Teks laporan berhasil disalin!"
	guideCopyUnavailable = "Clipboard tidak tersedia, salin teks laporan secara manual."
)

// Dispatch jalankan satu channel untuk laporan r. Error channel tidak
// pernah mengubah laporan atau state lifecycle.
func (s *Service) Dispatch(ctx context.Context, r reports.Report, ch domain.Channel) (domain.Outcome, error) {
	if _, ok := domain.ParseChannel(string(ch)); !ok {
		return domain.Outcome{}, fmt.Errorf("%w: %q", domain.ErrUnknownChannel, ch)
	}
	sess := s.session(ctx, r)

	st, err := s.loadSettings(ctx)
	if err != nil {
		return domain.Outcome{Channel: ch}, err
	}

	target := ch
	if ch == domain.ChannelSend {
		target, err = primaryChannel(st)
		if err != nil {
			return domain.Outcome{Channel: ch}, err
		}
	}

	if !sess.acquire(target) {
		return domain.Outcome{Channel: ch}, fmt.Errorf("%w: %s", domain.ErrDispatchInFlight, target)
	}
	defer sess.release(target)

	out, err := s.run(ctx, r, sess, st, target)
	out.Channel = ch
	if ch == domain.ChannelSend {
		out.Via = target
	}
	if err != nil {
		s.log().Info("dispatch failed",
			zap.String("report_id", string(r.ID)),
			zap.String("channel", string(target)),
			zap.Error(err),
		)
	}
	return out, err
}

// primaryChannel urutan prioritas: whatsapp > email > spreadsheet
func primaryChannel(st settings.Settings) (domain.Channel, error) {
	switch {
	case st.HasWhatsApp():
		return domain.ChannelWhatsApp, nil
	case st.HasEmail():
		return domain.ChannelEmail, nil
	case st.HasSpreadsheet():
		return domain.ChannelSpreadsheet, nil
	}
	return "", &domain.ConfigurationMissingError{
		Fields: []string{settings.FieldWhatsApp, settings.FieldEmail, settings.FieldSpreadsheet},
	}
}

func (s *Service) run(ctx context.Context, r reports.Report, sess *session, st settings.Settings, ch domain.Channel) (domain.Outcome, error) {
	switch ch {
	case domain.ChannelWhatsApp:
		return s.whatsapp(ctx, r, sess, st), nil
	case domain.ChannelEmail:
		return s.email(ctx, r, sess, st), nil
	case domain.ChannelSpreadsheet:
		return s.spreadsheet(r, sess, st)
	case domain.ChannelShare:
		return s.share(ctx, r, sess)
	case domain.ChannelCloud:
		return s.cloud(ctx, r, sess, st)
	case domain.ChannelCopy:
		return s.copyText(r, sess)
	case domain.ChannelExport:
		return s.export(ctx, r, sess)
	}
	return domain.Outcome{}, fmt.Errorf("%w: %q", domain.ErrUnknownChannel, ch)
}

func (s *Service) whatsapp(ctx context.Context, r reports.Report, sess *session, st settings.Settings) domain.Outcome {
	up, ok := s.resolve(st)
	link := s.tryUpload(ctx, r, sess, up, ok)
	copied := s.copyImage(r)

	text := RenderText(r, sess.currentLocation(), link)
	out := domain.Outcome{
		Link:        link,
		Handoff:     WhatsAppURL(st.WhatsAppNumber, text),
		ImageCopied: copied,
		Text:        text,
	}
	out.Opened = s.open(out.Handoff)
	if copied {
		out.Guidance = guideWhatsAppPaste
	} else {
		out.Guidance = guideWhatsAppManual
	}
	return out
}

func (s *Service) email(ctx context.Context, r reports.Report, sess *session, st settings.Settings) domain.Outcome {
	up, ok := s.resolve(st)
	link := s.tryUpload(ctx, r, sess, up, ok)
	copied := s.copyImage(r)

	text := RenderText(r, sess.currentLocation(), link)
	out := domain.Outcome{
		Link:        link,
		Handoff:     MailtoURL(st.EmailAddress, MailSubject(r), text),
		ImageCopied: copied,
		Text:        text,
	}
	out.Opened = s.open(out.Handoff)
	switch {
	case copied:
		out.Guidance = guideMailPaste
	case link == "":
		out.Guidance = guideMailManual
	}
	return out
}

func (s *Service) spreadsheet(r reports.Report, sess *session, st settings.Settings) (domain.Outcome, error) {
	link := sess.currentLink()
	text := RenderText(r, sess.currentLocation(), link)
	out := domain.Outcome{Link: link, Text: text, TextCopied: s.copyString(text)}
	if out.TextCopied {
		out.Guidance = guideSheetPaste
	} else {
		out.Guidance = guideSheetManual
	}

	if !st.HasSpreadsheet() {
		return out, &domain.ConfigurationMissingError{Fields: []string{settings.FieldSpreadsheet}}
	}
	out.Handoff = st.SpreadsheetURL
	out.Opened = s.open(out.Handoff)
	return out, nil
}

func (s *Service) share(ctx context.Context, r reports.Report, sess *session) (domain.Outcome, error) {
	if s.Sharer == nil || !s.Sharer.CanShareFiles() {
		return domain.Outcome{}, fmt.Errorf("%w: native share", domain.ErrCapabilityUnavailable)
	}
	data, err := r.Image.Bytes()
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("decode report image: %w", err)
	}

	link := sess.currentLink()
	text := RenderText(r, sess.currentLocation(), link)
	req := domain.ShareRequest{
		FileName:  ShareFileName(r),
		MediaType: r.Image.MediaType(),
		Data:      data,
		Title:     "Laporan Kerja Harian",
		Text:      text,
	}
	if err := s.Sharer.Share(ctx, req); err != nil {
		return domain.Outcome{Text: text}, fmt.Errorf("share: %w", err)
	}
	return domain.Outcome{Link: link, Text: text, Handoff: req.FileName, Opened: true}, nil
}

func (s *Service) cloud(ctx context.Context, r reports.Report, sess *session, st settings.Settings) (domain.Outcome, error) {
	if link := sess.currentLink(); link != "" {
		return domain.Outcome{Link: link, AlreadyUploaded: true, Guidance: guideCloudAlready}, nil
	}
	up, ok := s.resolve(st)
	if !ok {
		return domain.Outcome{}, &domain.ConfigurationMissingError{Fields: []string{settings.FieldUpload}}
	}
	link, err := s.ensureLink(ctx, r, sess, up)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("%w: %w", domain.ErrUploadFailed, err)
	}
	return domain.Outcome{Link: link, Guidance: guideCloudDone}, nil
}

func (s *Service) copyText(r reports.Report, sess *session) (domain.Outcome, error) {
	text := RenderText(r, sess.currentLocation(), sess.currentLink())
	out := domain.Outcome{Text: text}
	if !s.copyString(text) {
		out.Guidance = guideCopyUnavailable
		return out, fmt.Errorf("%w: clipboard", domain.ErrCapabilityUnavailable)
	}
	out.TextCopied = true
	out.Guidance = guideCopyDone
	return out, nil
}

func (s *Service) export(ctx context.Context, r reports.Report, sess *session) (domain.Outcome, error) {
	if s.Renderer == nil {
		return domain.Outcome{}, fmt.Errorf("%w: document export", domain.ErrCapabilityUnavailable)
	}
	data, err := r.Image.Bytes()
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("decode report image: %w", err)
	}
	art, err := s.Renderer.Render(ctx, domain.ExportRequest{
		Report:   r,
		Location: sess.currentLocation(),
		Image:    data,
	})
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("export: %w", err)
	}
	if art.FileName == "" {
		art.FileName = ExportFileName(r)
	}
	return domain.Outcome{Artifact: &art, Handoff: art.FileName}, nil
}

// copyImage best-effort, false kalau platform tidak mendukung
func (s *Service) copyImage(r reports.Report) bool {
	if s.Clipboard == nil || !s.Clipboard.CanWriteImage() {
		return false
	}
	data, err := r.Image.Bytes()
	if err != nil {
		return false
	}
	if err := s.Clipboard.WriteImage(r.Image.MediaType(), data); err != nil {
		s.log().Info("clipboard image write failed", zap.Error(err))
		return false
	}
	return true
}

func (s *Service) copyString(text string) bool {
	if s.Clipboard == nil || !s.Clipboard.CanWriteText() {
		return false
	}
	if err := s.Clipboard.WriteText(text); err != nil {
		s.log().Info("clipboard text write failed", zap.Error(err))
		return false
	}
	return true
}

// open serahkan URL ke handler eksternal; false = caller buka sendiri
func (s *Service) open(target string) bool {
	if s.Opener == nil || target == "" {
		return false
	}
	if err := s.Opener.Open(target); err != nil {
		if !errors.Is(err, domain.ErrCapabilityUnavailable) {
			s.log().Info("open external handler failed", zap.Error(err))
		}
		return false
	}
	return true
}
