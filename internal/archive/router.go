package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/querybank/querybank/internal/catalog"
	"github.com/querybank/querybank/internal/task"
)

type ArchiveRouter struct {
	as *ArchiveService
	cs *catalog.CatalogService
}

func NewArchiveRouter(as *ArchiveService, cs *catalog.CatalogService) *ArchiveRouter {
	return &ArchiveRouter{as: as, cs: cs}
}

// HandleExport handles POST /api/archives requests
// Request body: ExportRequestDTO
// Response: ArchiveMetadata
func (ar *ArchiveRouter) HandleExport(w http.ResponseWriter, r *http.Request) {
	var exportReq ExportRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&exportReq); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if len(exportReq.TaskIDs) == 0 {
		http.Error(w, "taskIds cannot be empty", http.StatusBadRequest)
		return
	}

	queryTasks, err := ar.cs.GetTasksByIDs(r.Context(), exportReq.TaskIDs)
	if err != nil {
		if errors.Is(err, catalog.ErrTaskNotFound) {
			http.Error(w, "one or more tasks not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("failed to load tasks: %v", err), http.StatusInternalServerError)
		return
	}

	records := make([]task.Task, len(queryTasks))
	for i, queryTask := range queryTasks {
		records[i] = queryTask.Record()
	}

	metadata, err := ar.as.Export(r.Context(), exportReq.Name, records)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to export: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(metadata); err != nil {
		http.Error(w, fmt.Sprintf("failed to encode response: %v", err), http.StatusInternalServerError)
		return
	}
}

// validBundleKey reports whether key has the shape Export produces,
// "<uuid>.jsonl". Anything else never names a bundle and must not reach
// the storage driver; keys are client-controlled path input.
func validBundleKey(key string) bool {
	id, ok := strings.CutSuffix(key, ".jsonl")
	if !ok {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// HandleDownload handles GET /api/archives/{key} requests
func (ar *ArchiveRouter) HandleDownload(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if !validBundleKey(key) {
		http.Error(w, "invalid bundle key", http.StatusBadRequest)
		return
	}

	reader, contentType, err := ar.as.Open(r.Context(), key)
	if err != nil {
		http.Error(w, "bundle not found", http.StatusNotFound)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", contentType)
	io.Copy(w, reader)
}
