package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/DFSguan/Collaborative-Task-Management-System/services"
)

type SubtaskHandler struct {
	service *services.SubtaskService
}

func NewSubtaskHandler(service *services.SubtaskService) *SubtaskHandler {
	return &SubtaskHandler{service: service}
}

func (h *SubtaskHandler) CreateSubtask(w http.ResponseWriter, r *http.Request) {
	var in services.CreateSubtaskInput
	if !decodeBody(w, r, &in) {
		return
	}

	id, err := h.service.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Subtask created successfully",
		"subtaskID": id,
	})
}

func (h *SubtaskHandler) GetSubtask(w http.ResponseWriter, r *http.Request) {
	subtask, err := h.service.Get(r.Context(), mux.Vars(r)["subtaskID"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"subtask": subtask})
}

// GetSubtasks takes the parent task from the path when present, otherwise from the query.
func (h *SubtaskHandler) GetSubtasks(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskID"]
	if taskID == "" {
		taskID = r.URL.Query().Get("taskID")
	}

	subtasks, err := h.service.List(r.Context(), taskID, r.URL.Query().Get("assignedTo"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"subtasks": subtasks})
}

func (h *SubtaskHandler) UpdateSubtask(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateTaskInput
	if !decodeBody(w, r, &in) {
		return
	}

	subtask, err := h.service.Update(r.Context(), mux.Vars(r)["subtaskID"], in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Subtask updated successfully",
		"subtask": subtask,
	})
}

func (h *SubtaskHandler) DeleteSubtask(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["subtaskID"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Subtask deleted successfully"})
}
