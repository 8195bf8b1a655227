package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/DFSguan/Collaborative-Task-Management-System/services"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var in services.CreateTaskInput
	if !decodeBody(w, r, &in) {
		return
	}

	id, err := h.service.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Task created successfully",
		"taskID":  id,
	})
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.service.Get(r.Context(), mux.Vars(r)["taskID"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"task": task})
}

func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tasks, err := h.service.List(r.Context(), q.Get("projectID"), q.Get("assignedTo"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tasks": tasks})
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateTaskInput
	if !decodeBody(w, r, &in) {
		return
	}

	task, err := h.service.Update(r.Context(), mux.Vars(r)["taskID"], in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Task updated successfully",
		"task":    task,
	})
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["taskID"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Task deleted successfully"})
}
