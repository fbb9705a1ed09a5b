package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/querybank/querybank/internal/task"
)

const bundleContentType = "application/jsonl"

// bundleLine is the wire form of a single record inside a bundle. The
// query string is carried verbatim; the identifier is whatever the record
// holds.
type bundleLine struct {
	ID    any    `json:"id"`
	Query string `json:"query"`
}

// ArchiveService serializes query task records into bundles and stores
// them via a driver
type ArchiveService struct {
	Driver StorageDriver
}

func NewArchiveService(driver StorageDriver) *ArchiveService {
	return &ArchiveService{Driver: driver}
}

// Export serializes the records as JSON Lines, saves the bundle via the
// driver, and returns its metadata. One line per record, in input order.
func (s *ArchiveService) Export(ctx context.Context, name string, records []task.Task) (*ArchiveMetadata, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("cannot export an empty record set")
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	for _, rec := range records {
		if err := encoder.Encode(bundleLine{ID: rec.ID(), Query: rec.Query()}); err != nil {
			return nil, fmt.Errorf("failed to encode record: %w", err)
		}
	}

	id := uuid.New()
	key := fmt.Sprintf("%s.jsonl", id.String())
	size := int64(buf.Len())

	if err := s.Driver.Save(ctx, key, &buf, bundleContentType); err != nil {
		return nil, fmt.Errorf("storage driver failed: %w", err)
	}

	url, err := s.Driver.GenerateURL(ctx, key, 0)
	if err != nil {
		if delErr := s.Driver.Delete(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "failed to cleanup orphaned bundle", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to generate URL: %w", err)
	}

	metadata := &ArchiveMetadata{
		ID:          id,
		Name:        name,
		Key:         key,
		URL:         url,
		Size:        size,
		RecordCount: len(records),
	}

	slog.InfoContext(ctx, "Bundle exported successfully", "id", id, "key", key, "records", len(records))
	return metadata, nil
}

// Open retrieves a stored bundle and its MIME type
func (s *ArchiveService) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return s.Driver.Get(ctx, key)
}
