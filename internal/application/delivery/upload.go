package delivery

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domain "github.com/bryanwahyu/laporkerja/internal/domain/delivery"
	"github.com/bryanwahyu/laporkerja/internal/domain/reports"
)

// ensureLink upload paling banyak sekali per laporan. Pemanggil concurrent
// menunggu upload yang sama dan dapat link yang sama.
func (s *Service) ensureLink(ctx context.Context, r reports.Report, sess *session, up domain.Uploader) (string, error) {
	if link := sess.currentLink(); link != "" {
		return link, nil
	}

	v, err, _ := s.flight.Do(string(r.ID), func() (any, error) {
		if link := sess.currentLink(); link != "" {
			return link, nil
		}

		timeout := s.UploadTimeout
		if timeout <= 0 {
			timeout = DefaultUploadTimeout
		}
		uctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		req, err := s.uploadRequest(r, sess.currentLocation())
		if err != nil {
			return "", err
		}
		res, err := up.Upload(uctx, req)
		if err != nil {
			return "", err
		}

		link := res.Link
		if link == "" {
			link = domain.PlaceholderLink
		}
		link = sess.setLink(link)
		s.log().Info("report uploaded", zap.String("report_id", string(r.ID)), zap.String("link", link))

		if s.Tracker != nil {
			if err := s.Tracker.Link(uctx, r.ID, link); err != nil {
				s.log().Warn("track upload link", zap.String("report_id", string(r.ID)), zap.Error(err))
			}
		}
		if s.Records != nil {
			rec := r
			rec.UploadedLink = link
			rec.Location = req.Location
			if err := s.Records.Save(uctx, rec); err != nil {
				s.log().Warn("report record insert failed", zap.String("report_id", string(r.ID)), zap.Error(err))
			}
		}
		return link, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (s *Service) uploadRequest(r reports.Report, location string) (domain.UploadRequest, error) {
	data, err := r.Image.Bytes()
	if err != nil {
		return domain.UploadRequest{}, fmt.Errorf("decode report image: %w", err)
	}
	mt := r.Image.MediaType()
	return domain.UploadRequest{
		Report:      r,
		FileName:    UploadFileName(r),
		Image:       data,
		MediaType:   mt,
		Location:    location,
		GeneratedAt: s.now(),
	}, nil
}

// tryUpload upload best-effort sebelum messaging/mail; gagal diabaikan
func (s *Service) tryUpload(ctx context.Context, r reports.Report, sess *session, up domain.Uploader, ok bool) string {
	if link := sess.currentLink(); link != "" || !ok {
		return link
	}
	link, err := s.ensureLink(ctx, r, sess, up)
	if err != nil {
		s.log().Warn("opportunistic upload failed", zap.String("report_id", string(r.ID)), zap.Error(err))
		return ""
	}
	return link
}
