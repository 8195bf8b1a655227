package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/DFSguan/Collaborative-Task-Management-System/middleware"
)

// Handlers groups every route handler served by the API.
type Handlers struct {
	Users         *UserHandler
	Projects      *ProjectHandler
	Tasks         *TaskHandler
	Subtasks      *SubtaskHandler
	Comments      *CommentHandler
	Notifications *NotificationHandler
}

// NewRouter registers all routes and wraps them with token checks, recovery, request logging and CORS.
// A nil tokenSecret disables the token check.
func NewRouter(h Handlers, corsOrigin string, tokenSecret []byte) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", Health).Methods(http.MethodGet)

	r.HandleFunc("/signup", h.Users.Signup).Methods(http.MethodPost)
	r.HandleFunc("/login", h.Users.Login).Methods(http.MethodPost)
	r.HandleFunc("/users", h.Users.ListUsers).Methods(http.MethodGet)

	r.HandleFunc("/create_project", h.Projects.CreateProject).Methods(http.MethodPost)
	r.HandleFunc("/get_projects", h.Projects.GetProjects).Methods(http.MethodGet)
	r.HandleFunc("/update_project", h.Projects.UpdateProject).Methods(http.MethodPut)
	r.HandleFunc("/get_project_overview", h.Projects.GetProjectOverview).Methods(http.MethodGet)

	r.HandleFunc("/create_task", h.Tasks.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/get_task/{taskID}", h.Tasks.GetTask).Methods(http.MethodGet)
	r.HandleFunc("/get_tasks", h.Tasks.GetTasks).Methods(http.MethodGet)
	r.HandleFunc("/update_task/{taskID}", h.Tasks.UpdateTask).Methods(http.MethodPut)
	r.HandleFunc("/delete_task/{taskID}", h.Tasks.DeleteTask).Methods(http.MethodDelete)

	r.HandleFunc("/create_subtask", h.Subtasks.CreateSubtask).Methods(http.MethodPost)
	r.HandleFunc("/get_subtask/{subtaskID}", h.Subtasks.GetSubtask).Methods(http.MethodGet)
	r.HandleFunc("/get_subtasks", h.Subtasks.GetSubtasks).Methods(http.MethodGet)
	r.HandleFunc("/get_subtasks/{taskID}", h.Subtasks.GetSubtasks).Methods(http.MethodGet)
	r.HandleFunc("/update_subtask/{subtaskID}", h.Subtasks.UpdateSubtask).Methods(http.MethodPut)
	r.HandleFunc("/delete_subtask/{subtaskID}", h.Subtasks.DeleteSubtask).Methods(http.MethodDelete)

	r.HandleFunc("/add_comment", h.Comments.AddComment).Methods(http.MethodPost)
	r.HandleFunc("/get_comments", h.Comments.GetComments).Methods(http.MethodGet)

	r.HandleFunc("/get_notifications", h.Notifications.GetNotifications).Methods(http.MethodGet)
	r.HandleFunc("/mark_notification_read", h.Notifications.MarkAsRead).Methods(http.MethodPut)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Route not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	})

	return middleware.CORS(corsOrigin)(middleware.RequestLogger(middleware.Recover(middleware.Authenticate(tokenSecret)(r))))
}

func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
