package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

type CatalogRouter struct {
	cs *CatalogService
}

func NewCatalogRouter(cs *CatalogService) *CatalogRouter {
	return &CatalogRouter{cs: cs}
}

// HandleCreateTask handles POST /api/tasks requests
// Request body: CreateQueryTaskDTO
// Response: QueryTask
func (cr *CatalogRouter) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	var createReq CreateQueryTaskDTO
	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	queryTask, err := cr.cs.CreateTask(r.Context(), &createReq)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to create task: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(queryTask); err != nil {
		http.Error(w, fmt.Sprintf("failed to encode response: %v", err), http.StatusInternalServerError)
		return
	}
}

// HandleCreateTasks handles POST /api/tasks/batch requests
// Request body: CreateQueryTaskBatchDTO
// Response: array of created task IDs
func (cr *CatalogRouter) HandleCreateTasks(w http.ResponseWriter, r *http.Request) {
	var createReq CreateQueryTaskBatchDTO
	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if len(createReq.Tasks) == 0 {
		http.Error(w, "tasks cannot be empty", http.StatusBadRequest)
		return
	}

	taskIDs, err := cr.cs.CreateTasks(r.Context(), createReq.Tasks)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to create tasks: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(map[string][]uuid.UUID{"taskIds": taskIDs}); err != nil {
		http.Error(w, fmt.Sprintf("failed to encode response: %v", err), http.StatusInternalServerError)
		return
	}
}

// HandleGetTask handles GET /api/tasks/{taskID} requests
func (cr *CatalogRouter) HandleGetTask(w http.ResponseWriter, r *http.Request) {
	taskIDStr := r.PathValue("taskID")
	if taskIDStr == "" {
		http.Error(w, "missing taskID in path", http.StatusBadRequest)
		return
	}

	taskID, err := uuid.Parse(taskIDStr)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid taskID: %v", err), http.StatusBadRequest)
		return
	}

	queryTask, err := cr.cs.GetTaskByID(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			http.Error(w, fmt.Sprintf("task %s not found", taskID), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("failed to get task: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(queryTask); err != nil {
		http.Error(w, fmt.Sprintf("failed to encode response: %v", err), http.StatusInternalServerError)
		return
	}
}

// HandleListTasks handles GET /api/tasks requests
// Optional Query Filters: nameStartsWith, label, offset, limit
func (cr *CatalogRouter) HandleListTasks(w http.ResponseWriter, r *http.Request) {
	var filter QueryTaskFilter

	if nameStartsWith := r.URL.Query().Get("nameStartsWith"); nameStartsWith != "" {
		filter.NameStartsWith = &nameStartsWith
	}

	if label := r.URL.Query().Get("label"); label != "" {
		filter.Label = &label
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			http.Error(w, "invalid 'limit' query parameter, must be an integer", http.StatusBadRequest)
			return
		}
		filter.Limit = &limit
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			http.Error(w, "invalid 'offset' query parameter, must be an integer", http.StatusBadRequest)
			return
		}
		filter.Offset = &offset
	}

	queryTasks, err := cr.cs.ListTasks(r.Context(), filter)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to list tasks: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(queryTasks); err != nil {
		http.Error(w, fmt.Sprintf("failed to encode response: %v", err), http.StatusInternalServerError)
		return
	}
}

// HandleUpdateLabels handles PUT /api/tasks/{taskID}/labels requests
// Request body: UpdateLabelsDTO
func (cr *CatalogRouter) HandleUpdateLabels(w http.ResponseWriter, r *http.Request) {
	taskIDStr := r.PathValue("taskID")
	if taskIDStr == "" {
		http.Error(w, "missing taskID in path", http.StatusBadRequest)
		return
	}

	taskID, err := uuid.Parse(taskIDStr)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid taskID: %v", err), http.StatusBadRequest)
		return
	}

	var updateReq UpdateLabelsDTO
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := cr.cs.UpdateLabels(r.Context(), taskID, updateReq.Labels); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			http.Error(w, fmt.Sprintf("task %s not found", taskID), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("failed to update labels: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteTask handles DELETE /api/tasks/{taskID} requests
func (cr *CatalogRouter) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	taskIDStr := r.PathValue("taskID")
	if taskIDStr == "" {
		http.Error(w, "missing taskID in path", http.StatusBadRequest)
		return
	}

	taskID, err := uuid.Parse(taskIDStr)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid taskID: %v", err), http.StatusBadRequest)
		return
	}

	if err := cr.cs.DeleteTask(r.Context(), taskID); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			http.Error(w, fmt.Sprintf("task %s not found", taskID), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("failed to delete task: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
