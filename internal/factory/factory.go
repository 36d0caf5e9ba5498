package factory

import (
	"context"
	"fmt"

	"github.com/anime-shed/ai-image-detector/internal/config"
	"github.com/anime-shed/ai-image-detector/internal/storage"
	"github.com/anime-shed/ai-image-detector/pkg/validation"
)

// StorageType represents different types of storage backends
type StorageType string

const (
	// HTTPStorage for HTTP-based image fetching
	HTTPStorage StorageType = "http"
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = "azure"
)

// StorageFactory creates storage implementations
type StorageFactory interface {
	CreateStorage(storageType StorageType) (storage.ImageFetcher, error)
}

// storageFactory implements StorageFactory
type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

// CreateStorage creates a storage implementation based on the specified type
func (f *storageFactory) CreateStorage(storageType StorageType) (storage.ImageFetcher, error) {
	switch storageType {
	case HTTPStorage:
		return storage.NewHTTPImageFetcher(f.cfg.ImageFetchTimeout, f.cfg.MaxUploadSize), nil
	case AzureStorage:
		if !f.cfg.AzureEnabled() {
			return nil, fmt.Errorf("azure storage requires AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY")
		}
		return storage.NewAzureStorage(f.cfg.AzureStorageAccount, f.cfg.AzureStorageKey, f.cfg.MaxUploadSize)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// RoutingFetcher sends Azure Blob URLs to the blob client when one is configured
// and everything else over plain HTTP.
type RoutingFetcher struct {
	http  storage.ImageFetcher
	azure storage.ImageFetcher
}

// NewRoutingFetcher builds the fetcher used by the URL endpoint
func NewRoutingFetcher(f StorageFactory, azureEnabled bool) (*RoutingFetcher, error) {
	httpFetcher, err := f.CreateStorage(HTTPStorage)
	if err != nil {
		return nil, err
	}
	r := &RoutingFetcher{http: httpFetcher}
	if azureEnabled {
		if r.azure, err = f.CreateStorage(AzureStorage); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// FetchImage implements storage.ImageFetcher
func (r *RoutingFetcher) FetchImage(ctx context.Context, imageURL string) (*storage.Download, error) {
	return r.route(imageURL).FetchImage(ctx, imageURL)
}

func (r *RoutingFetcher) route(imageURL string) storage.ImageFetcher {
	if r.azure != nil && validation.IsAzureBlobURL(imageURL) {
		return r.azure
	}
	return r.http
}
