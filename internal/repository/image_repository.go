package repository

import (
	"context"
	"fmt"

	"github.com/anime-shed/ai-image-detector/internal/storage"
	"github.com/anime-shed/ai-image-detector/pkg/validation"
)

// ImageRepository resolves remote image URLs into detector input
type ImageRepository interface {
	// FetchImage downloads and loads the image at imageURL
	FetchImage(ctx context.Context, imageURL string) (*LoadedImage, error)

	// ValidateImageURL validates if the provided URL is acceptable
	ValidateImageURL(imageURL string) error
}

// RemoteImageRepository implements ImageRepository on top of a storage fetcher
type RemoteImageRepository struct {
	fetcher   storage.ImageFetcher
	loader    ImageLoader
	validator *validation.URLValidator
}

// NewRemoteImageRepository creates a repository for HTTP and blob URLs
func NewRemoteImageRepository(fetcher storage.ImageFetcher, loader ImageLoader, validator *validation.URLValidator) ImageRepository {
	return &RemoteImageRepository{
		fetcher:   fetcher,
		loader:    loader,
		validator: validator,
	}
}

// FetchImage retrieves an image from a URL and decodes it
func (r *RemoteImageRepository) FetchImage(ctx context.Context, imageURL string) (*LoadedImage, error) {
	download, err := r.fetcher.FetchImage(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageFetchFailed, err)
	}
	return r.loader.Load(download.Data)
}

// ValidateImageURL validates if the provided URL is acceptable
func (r *RemoteImageRepository) ValidateImageURL(imageURL string) error {
	if err := r.validator.ValidateImageURL(imageURL); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidImageURL, err)
	}
	return nil
}
