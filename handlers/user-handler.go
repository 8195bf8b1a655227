package handlers

import (
	"net/http"

	"github.com/DFSguan/Collaborative-Task-Management-System/services"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var in services.SignupInput
	if !decodeBody(w, r, &in) {
		return
	}

	user, err := h.service.Signup(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User created successfully",
		"userId":  user.ID,
		"avatar":  user.Avatar,
	})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if !decodeBody(w, r, &in) {
		return
	}

	res, err := h.service.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"email":   res.User.Email,
		"userID":  res.User.ID,
		"name":    res.User.Name,
		"role":    res.User.Role,
		"avatar":  res.User.Avatar,
		"idToken": res.IDToken,
	})
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}
