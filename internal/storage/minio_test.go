package storage

import (
	"testing"

	"github.com/andresuchdata/stockroom/backend-go/internal/config"
)

func TestNewMinioClientRequiresSettings(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StorageConfig
	}{
		{"no endpoint", config.StorageConfig{AccessKey: "a", SecretKey: "s", Bucket: "b"}},
		{"no credentials", config.StorageConfig{Endpoint: "localhost:9000", Bucket: "b"}},
		{"no bucket", config.StorageConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewMinioClient(tt.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNewMinioClientStripsScheme(t *testing.T) {
	c, err := NewMinioClient(config.StorageConfig{
		Endpoint:  "https://objects.example.com/",
		AccessKey: "a",
		SecretKey: "s",
		Bucket:    "reports",
		UseSSL:    true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.client.EndpointURL().Host; got != "objects.example.com" {
		t.Errorf("endpoint host: got %q", got)
	}
	var _ ObjectStorage = c
}
