package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrTooLarge is returned when a remote image exceeds the configured byte limit.
var ErrTooLarge = errors.New("remote image exceeds size limit")

// Download is the raw body of a fetched image. Decoding is left to the loader.
type Download struct {
	Data        []byte
	ContentType string
	Source      string
}

// ImageFetcher retrieves encoded image bytes from a remote location
type ImageFetcher interface {
	FetchImage(ctx context.Context, imageURL string) (*Download, error)
}

// readLimited reads at most maxBytes from r. A body one byte over the limit is rejected.
// A non-positive limit disables the check.
func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w (limit: %d bytes)", ErrTooLarge, maxBytes)
	}
	return data, nil
}
