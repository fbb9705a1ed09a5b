package drivers

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalFSDriver stores bundles on local disk with directory hashing
type LocalFSDriver struct {
	BaseDir   string
	PublicURL string
}

// NewLocalFSDriver creates a new LocalFSDriver.
// baseDir is where bundles will be stored.
// publicURL is the base URL used to generate public links (e.g., /api/archives).
func NewLocalFSDriver(baseDir, publicURL string) (*LocalFSDriver, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &LocalFSDriver{BaseDir: baseDir, PublicURL: publicURL}, nil
}

// getHashedPath generates a two-level deep path for a key to avoid flat directory issues.
func (d *LocalFSDriver) getHashedPath(key string) string {
	if len(key) < 4 {
		return key
	}
	return filepath.Join(key[0:2], key[2:4], key)
}

// resolve maps a key to its on-disk path. Keys that would escape the
// base directory are refused; keys arrive from the HTTP layer.
func (d *LocalFSDriver) resolve(key string) (string, error) {
	if key == "" || !filepath.IsLocal(key) {
		return "", fmt.Errorf("invalid bundle key: %q", key)
	}
	return filepath.Join(d.BaseDir, d.getHashedPath(key)), nil
}

func (d *LocalFSDriver) Save(ctx context.Context, key string, body io.Reader, contentType string) error {
	fullPath, err := d.resolve(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create hashed directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, body); err != nil {
		file.Close()
		os.Remove(fullPath)
		return fmt.Errorf("failed to save bundle content: %w", err)
	}

	// Content type lives in a sidecar so Get can report it back
	metaPath := fullPath + ".meta"
	if err := os.WriteFile(metaPath, []byte(contentType), 0644); err != nil {
		os.Remove(fullPath)
		return fmt.Errorf("failed to save metadata: %w", err)
	}

	return nil
}

func (d *LocalFSDriver) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	fullPath, err := d.resolve(key)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(fullPath)
	if err != nil {
		return nil, "", err
	}

	// Bundles written before the sidecar existed have no .meta file;
	// their extension still tells us what they are.
	contentType := "application/octet-stream"
	if strings.HasSuffix(key, ".jsonl") {
		contentType = "application/jsonl"
	}
	if metaBytes, err := os.ReadFile(fullPath + ".meta"); err == nil {
		contentType = string(metaBytes)
	}

	return f, contentType, nil
}

func (d *LocalFSDriver) Delete(ctx context.Context, key string) error {
	fullPath, err := d.resolve(key)
	if err != nil {
		return err
	}
	os.Remove(fullPath + ".meta") // Ignore error if meta doesn't exist
	err = os.Remove(fullPath)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (d *LocalFSDriver) GenerateURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	// For local storage the URL is relative to our API; the router serves
	// /api/archives/{key}.
	if d.PublicURL == "" {
		return key, nil
	}
	return fmt.Sprintf("%s/%s", d.PublicURL, key), nil
}
