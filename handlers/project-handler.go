package handlers

import (
	"net/http"

	"github.com/DFSguan/Collaborative-Task-Management-System/apperrors"
	"github.com/DFSguan/Collaborative-Task-Management-System/services"
)

type ProjectHandler struct {
	service *services.ProjectService
}

func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var in services.CreateProjectInput
	if !decodeBody(w, r, &in) {
		return
	}

	id, err := h.service.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Project created successfully!",
		"projectID": id,
	})
}

// GetProjects serves one project by projectID or every project of userID.
func (h *ProjectHandler) GetProjects(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("projectID")
	userID := r.URL.Query().Get("userID")

	switch {
	case projectID != "" && userID == "":
		detail, err := h.service.GetByID(r.Context(), projectID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, detail)
	case userID != "" && projectID == "":
		projects, err := h.service.ListForUser(r.Context(), userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"projects": projects})
	default:
		writeError(w, r, apperrors.Validation("Provide either projectID or userID"))
	}
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateProjectInput
	if !decodeBody(w, r, &in) {
		return
	}

	project, err := h.service.Update(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Project updated successfully!",
		"project": project,
	})
}

func (h *ProjectHandler) GetProjectOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context(), r.URL.Query().Get("projectID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}
