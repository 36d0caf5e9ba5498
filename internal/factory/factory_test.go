package factory

import (
	"context"
	"testing"
	"time"

	"github.com/anime-shed/ai-image-detector/internal/config"
	"github.com/anime-shed/ai-image-detector/internal/storage"
)

type stubFetcher struct {
	name string
}

func (s *stubFetcher) FetchImage(ctx context.Context, imageURL string) (*storage.Download, error) {
	return &storage.Download{Source: s.name}, nil
}

func testConfig() *config.Config {
	return &config.Config{ImageFetchTimeout: time.Second, MaxUploadSize: 1 << 20}
}

func TestCreateStorage(t *testing.T) {
	f := NewStorageFactory(testConfig())

	if _, err := f.CreateStorage(HTTPStorage); err != nil {
		t.Errorf("Expected HTTP storage, got %v", err)
	}
	if _, err := f.CreateStorage(AzureStorage); err == nil {
		t.Error("Expected azure storage to require credentials")
	}
	if _, err := f.CreateStorage("ftp"); err == nil {
		t.Error("Expected unsupported storage type error")
	}

	cfg := testConfig()
	cfg.AzureStorageAccount = "acct"
	cfg.AzureStorageKey = "a2V5"
	if _, err := NewStorageFactory(cfg).CreateStorage(AzureStorage); err != nil {
		t.Errorf("Expected azure storage with credentials, got %v", err)
	}
}

func TestRoutingFetcher(t *testing.T) {
	router := &RoutingFetcher{
		http:  &stubFetcher{name: "http"},
		azure: &stubFetcher{name: "azure"},
	}

	testCases := map[string]string{
		"https://example.com/cat.png":                     "http",
		"https://acct.blob.core.windows.net/images/c.png": "azure",
	}
	for url, expected := range testCases {
		download, err := router.FetchImage(context.Background(), url)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if download.Source != expected {
			t.Errorf("%s: expected %s fetcher, got %s", url, expected, download.Source)
		}
	}

	// Without blob credentials every URL goes over HTTP.
	router.azure = nil
	download, _ := router.FetchImage(context.Background(), "https://acct.blob.core.windows.net/images/c.png")
	if download.Source != "http" {
		t.Errorf("Expected http fallback, got %s", download.Source)
	}
}

func TestNewRoutingFetcher(t *testing.T) {
	router, err := NewRoutingFetcher(NewStorageFactory(testConfig()), false)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if router.azure != nil {
		t.Error("Expected no azure fetcher when disabled")
	}

	if _, err := NewRoutingFetcher(NewStorageFactory(testConfig()), true); err == nil {
		t.Error("Expected error when azure is enabled without credentials")
	}
}
