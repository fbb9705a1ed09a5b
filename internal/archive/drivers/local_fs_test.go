package drivers

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalFSDriver_DirectoryHashing(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "localfs-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	driver, err := NewLocalFSDriver(tempDir, "/api/archives")
	if err != nil {
		t.Fatalf("failed to create driver: %v", err)
	}

	ctx := context.Background()
	key := "abcdef123456.jsonl"
	content := []byte(`{"id":1,"query":"RETURN 1"}` + "\n")

	// Test Save
	err = driver.Save(ctx, key, bytes.NewReader(content), "application/jsonl")
	if err != nil {
		t.Errorf("Save failed: %v", err)
	}

	// Verify Hashing: key "abcdef123456.jsonl" should be at ab/cd/abcdef123456.jsonl
	expectedSubPath := filepath.Join("ab", "cd", key)
	fullPath := filepath.Join(tempDir, expectedSubPath)

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		t.Errorf("bundle not found at hashed path: %s", fullPath)
	}

	// Test Get
	reader, contentType, err := driver.Get(ctx, key)
	if err != nil {
		t.Errorf("Get failed: %v", err)
	}
	defer reader.Close()

	if contentType != "application/jsonl" {
		t.Errorf("expected content type application/jsonl, got %s", contentType)
	}

	// Verify URL
	url, err := driver.GenerateURL(ctx, key, 0)
	if err != nil {
		t.Errorf("GenerateURL failed: %v", err)
	}
	if !strings.HasSuffix(url, key) || !strings.Contains(url, "/api/archives") {
		t.Errorf("unexpected URL: %s", url)
	}

	// Test Delete
	err = driver.Delete(ctx, key)
	if err != nil {
		t.Errorf("Delete failed: %v", err)
	}

	if _, err := os.Stat(fullPath); !os.IsNotExist(err) {
		t.Error("bundle still exists after deletion")
	}
}

func TestLocalFSDriver_ShortKeyIsNotHashed(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "localfs-short")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	driver, err := NewLocalFSDriver(tempDir, "")
	if err != nil {
		t.Fatalf("failed to create driver: %v", err)
	}

	ctx := context.Background()
	if err := driver.Save(ctx, "ab", bytes.NewReader([]byte("x")), "text/plain"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tempDir, "ab")); err != nil {
		t.Errorf("expected short key at base dir root: %v", err)
	}

	// With no public URL the key itself is the URL
	url, err := driver.GenerateURL(ctx, "ab", 0)
	if err != nil {
		t.Fatalf("GenerateURL failed: %v", err)
	}
	if url != "ab" {
		t.Errorf("unexpected URL: %s", url)
	}
}

func TestLocalFSDriver_RejectsNonLocalKeys(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "localfs-nonlocal")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	driver, err := NewLocalFSDriver(tempDir, "")
	if err != nil {
		t.Fatalf("failed to create driver: %v", err)
	}

	ctx := context.Background()

	if err := driver.Save(ctx, "../escape.jsonl", bytes.NewReader([]byte("x")), "application/jsonl"); err == nil {
		t.Error("Save accepted a key escaping the base directory")
	}
	if _, _, err := driver.Get(ctx, "../escape.jsonl"); err == nil {
		t.Error("Get accepted a key escaping the base directory")
	}
	if err := driver.Delete(ctx, "../escape.jsonl"); err == nil {
		t.Error("Delete accepted a key escaping the base directory")
	}
	if _, _, err := driver.Get(ctx, ""); err == nil {
		t.Error("Get accepted an empty key")
	}
}

func TestLocalFSDriver_DeleteMissingIsNoop(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "localfs-missing")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	driver, err := NewLocalFSDriver(tempDir, "")
	if err != nil {
		t.Fatalf("failed to create driver: %v", err)
	}

	if err := driver.Delete(context.Background(), "never-saved.jsonl"); err != nil {
		t.Errorf("Delete of missing bundle should be a no-op, got: %v", err)
	}
}
