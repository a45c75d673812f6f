package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/bryanwahyu/laporkerja/internal/domain/delivery"
)

// AzureStore upload target Azure Blob Storage
type AzureStore struct {
	client    *azblob.Client
	container string
	publicURL string
}

// NewAzure buat client dari connection string dan pastikan container ada
func NewAzure(ctx context.Context, connectionString, container string) (*AzureStore, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	if _, err := client.CreateContainer(ctx, container, nil); err != nil {
		if !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			return nil, fmt.Errorf("create container %s: %w", container, err)
		}
	}

	return &AzureStore{client: client, container: container}, nil
}

// WithPublicURL base URL publik untuk link hasil upload
func (a *AzureStore) WithPublicURL(base string) *AzureStore {
	a.publicURL = strings.TrimRight(base, "/")
	return a
}

func (a *AzureStore) put(ctx context.Context, key string, r io.Reader, contentType string) error {
	opts := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}
	if _, err := a.client.UploadStream(ctx, a.container, key, r, opts); err != nil {
		return fmt.Errorf("upload blob %s: %w", key, err)
	}
	return nil
}

// Upload simpan foto + report.json, balikan link blob foto
func (a *AzureStore) Upload(ctx context.Context, req delivery.UploadRequest) (delivery.UploadResult, error) {
	imageKey, sidecarKey := objectKeys(req)

	ct := req.MediaType
	if ct == "" {
		ct = "image/jpeg"
	}
	if err := a.put(ctx, imageKey, bytes.NewReader(req.Image), ct); err != nil {
		return delivery.UploadResult{}, err
	}

	meta, err := json.Marshal(newReportPayload(req))
	if err != nil {
		return delivery.UploadResult{}, fmt.Errorf("encode report: %w", err)
	}
	if err := a.put(ctx, sidecarKey, bytes.NewReader(meta), "application/json"); err != nil {
		return delivery.UploadResult{}, err
	}

	base := a.publicURL
	if base == "" {
		base = strings.TrimRight(a.client.URL(), "/")
	}
	return delivery.UploadResult{Link: base + "/" + a.container + "/" + imageKey}, nil
}
