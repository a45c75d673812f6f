package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/bryanwahyu/laporkerja/internal/domain/delivery"
)

type Store struct {
	client     *minio.Client
	bucketName string
	region     string
	publicURL  string
}

// New buat koneksi MinIO
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	// pastikan bucket ada
	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	return &Store{client: cli, bucketName: bucket, region: region}, nil
}

// WithPublicURL base URL publik (CDN / reverse proxy) untuk link hasil upload
func (s *Store) WithPublicURL(base string) *Store {
	s.publicURL = strings.TrimRight(base, "/")
	return s
}

// Upload simpan foto + report.json, balikan link foto
func (s *Store) Upload(ctx context.Context, req delivery.UploadRequest) (delivery.UploadResult, error) {
	imageKey, sidecarKey := objectKeys(req)

	ct := req.MediaType
	if ct == "" {
		ct = "image/jpeg"
	}
	_, err := s.client.PutObject(ctx, s.bucketName, imageKey, bytes.NewReader(req.Image), int64(len(req.Image)),
		minio.PutObjectOptions{ContentType: ct})
	if err != nil {
		return delivery.UploadResult{}, fmt.Errorf("put image: %w", err)
	}

	meta, err := json.Marshal(newReportPayload(req))
	if err != nil {
		return delivery.UploadResult{}, fmt.Errorf("encode report: %w", err)
	}
	_, err = s.client.PutObject(ctx, s.bucketName, sidecarKey, bytes.NewReader(meta), int64(len(meta)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return delivery.UploadResult{}, fmt.Errorf("put report: %w", err)
	}

	return delivery.UploadResult{Link: s.objectURL(imageKey)}, nil
}

// URL publik (jika bucket public), kalau private harus generate presigned URL
func (s *Store) objectURL(key string) string {
	base := s.publicURL
	if base == "" {
		u := s.client.EndpointURL()
		base = fmt.Sprintf("%s://%s", u.Scheme, u.Host)
	}
	return fmt.Sprintf("%s/%s/%s", base, s.bucketName, key)
}
