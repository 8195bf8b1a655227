package handlers

import (
	"net/http"

	"github.com/DFSguan/Collaborative-Task-Management-System/services"
)

type CommentHandler struct {
	service *services.CommentService
}

func NewCommentHandler(service *services.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var in services.AddCommentInput
	if !decodeBody(w, r, &in) {
		return
	}

	id, err := h.service.Add(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Comment added successfully",
		"commentId": id,
	})
}

func (h *CommentHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.List(r.Context(), r.URL.Query().Get("taskID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}
