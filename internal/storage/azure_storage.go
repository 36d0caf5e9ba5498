package storage

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

type azureStorage struct {
	client   *azblob.Client
	maxBytes int64
}

// NewAzureStorage creates a fetcher for https://<account>.blob.core.windows.net/<container>/<blob> URLs
func NewAzureStorage(accountName string, accountKey string, maxBytes int64) (ImageFetcher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid azure credentials: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net/", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("creating azure blob client: %w", err)
	}

	return &azureStorage{client: client, maxBytes: maxBytes}, nil
}

func (s *azureStorage) FetchImage(ctx context.Context, blobURL string) (*Download, error) {
	containerName, blobName, err := splitBlobURL(blobURL)
	if err != nil {
		return nil, err
	}

	downloadResponse, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	retryReader := downloadResponse.Body
	defer retryReader.Close()

	if s.maxBytes > 0 && downloadResponse.ContentLength != nil && *downloadResponse.ContentLength > s.maxBytes {
		return nil, fmt.Errorf("%w (limit: %d bytes)", ErrTooLarge, s.maxBytes)
	}
	data, err := readLimited(retryReader, s.maxBytes)
	if err != nil {
		return nil, err
	}

	var contentType string
	if downloadResponse.ContentType != nil {
		contentType = *downloadResponse.ContentType
	}
	return &Download{Data: data, ContentType: contentType, Source: blobURL}, nil
}

// splitBlobURL extracts the container and blob names from a blob URL
func splitBlobURL(blobURL string) (string, string, error) {
	parts, err := azblob.ParseURL(blobURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid blob URL: %w", err)
	}
	if parts.ContainerName == "" || parts.BlobName == "" {
		return "", "", fmt.Errorf("invalid blob URL %q: container and blob name are required", blobURL)
	}
	return parts.ContainerName, parts.BlobName, nil
}
