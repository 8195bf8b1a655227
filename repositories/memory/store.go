// Package memory keeps every collection in process memory. It backs STORE=memory and the tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/DFSguan/Collaborative-Task-Management-System/models"
	"github.com/DFSguan/Collaborative-Task-Management-System/repositories"
)

type Store struct {
	mu            sync.RWMutex
	seq           int64
	users         map[string]*models.User
	userOrder     map[string]int64
	projects      map[string]*models.Project
	projectOrder  map[string]int64
	tasks         map[string]*models.Task
	taskOrder     map[string]int64
	subtasks      map[string]*models.Subtask
	subtaskOrder  map[string]int64
	comments      map[string]*models.Comment
	commentOrder  map[string]int64
	credentials   map[string]*models.Credential
	notifications map[string][]models.Notification
}

func NewStore() *Store {
	return &Store{
		users:         make(map[string]*models.User),
		userOrder:     make(map[string]int64),
		projects:      make(map[string]*models.Project),
		projectOrder:  make(map[string]int64),
		tasks:         make(map[string]*models.Task),
		taskOrder:     make(map[string]int64),
		subtasks:      make(map[string]*models.Subtask),
		subtaskOrder:  make(map[string]int64),
		comments:      make(map[string]*models.Comment),
		commentOrder:  make(map[string]int64),
		credentials:   make(map[string]*models.Credential),
		notifications: make(map[string][]models.Notification),
	}
}

func (s *Store) Users() repositories.UserRepository                 { return &userRepo{s} }
func (s *Store) Projects() repositories.ProjectRepository           { return &projectRepo{s} }
func (s *Store) Tasks() repositories.TaskRepository                 { return &taskRepo{s} }
func (s *Store) Subtasks() repositories.SubtaskRepository           { return &subtaskRepo{s} }
func (s *Store) Comments() repositories.CommentRepository           { return &commentRepo{s} }
func (s *Store) Credentials() repositories.CredentialRepository     { return &credentialRepo{s} }
func (s *Store) Notifications() repositories.NotificationRepository { return &notificationRepo{s} }

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

// sortedIDs orders ids by insertion sequence.
func sortedIDs(order map[string]int64, ids []string) []string {
	sort.Slice(ids, func(i, j int) bool { return order[ids[i]] < order[ids[j]] })
	return ids
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// users

type userRepo struct{ s *Store }

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Projects = copyStrings(u.Projects)
	return &c
}

func (r *userRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; ok {
		return fmt.Errorf("user %s: %w", user.ID, repositories.ErrDuplicate)
	}
	r.s.users[user.ID] = cloneUser(user)
	r.s.userOrder[user.ID] = r.s.next()
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *userRepo) findFirst(match func(*models.User) bool) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := make([]string, 0, len(r.s.users))
	for id := range r.s.users {
		ids = append(ids, id)
	}
	for _, id := range sortedIDs(r.s.userOrder, ids) {
		if u := r.s.users[id]; match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return r.findFirst(func(u *models.User) bool { return u.Email == email })
}

func (r *userRepo) FindByName(_ context.Context, name string) (*models.User, error) {
	return r.findFirst(func(u *models.User) bool { return u.Name == name })
}

func (r *userRepo) List(_ context.Context) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := make([]string, 0, len(r.s.users))
	for id := range r.s.users {
		ids = append(ids, id)
	}
	users := make([]models.User, 0, len(ids))
	for _, id := range sortedIDs(r.s.userOrder, ids) {
		users = append(users, *cloneUser(r.s.users[id]))
	}
	return users, nil
}

func (r *userRepo) AddProject(_ context.Context, userID, projectID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	for _, p := range u.Projects {
		if p == projectID {
			return nil
		}
	}
	u.Projects = append(u.Projects, projectID)
	return nil
}

// projects

type projectRepo struct{ s *Store }

func cloneProject(p *models.Project) *models.Project {
	c := *p
	c.Members = copyStrings(p.Members)
	c.UpdatedAt = copyTime(p.UpdatedAt)
	return &c
}

func (r *projectRepo) Create(_ context.Context, project *models.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.projects[project.ID]; ok {
		return fmt.Errorf("project %s: %w", project.ID, repositories.ErrDuplicate)
	}
	r.s.projects[project.ID] = cloneProject(project)
	r.s.projectOrder[project.ID] = r.s.next()
	return nil
}

func (r *projectRepo) FindByID(_ context.Context, id string) (*models.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneProject(p), nil
}

func (r *projectRepo) FindByMember(_ context.Context, userID string) ([]models.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for id, p := range r.s.projects {
		if p.HasMember(userID) {
			ids = append(ids, id)
		}
	}
	projects := make([]models.Project, 0, len(ids))
	for _, id := range sortedIDs(r.s.projectOrder, ids) {
		projects = append(projects, *cloneProject(r.s.projects[id]))
	}
	return projects, nil
}

func (r *projectRepo) Update(_ context.Context, id string, update models.ProjectUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if update.Title != nil {
		p.Title = *update.Title
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Deadline != nil {
		p.Deadline = *update.Deadline
	}
	if update.Members != nil {
		p.Members = copyStrings(*update.Members)
	}
	if !update.UpdatedAt.IsZero() {
		p.UpdatedAt = copyTime(&update.UpdatedAt)
	}
	return nil
}

// tasks

type taskRepo struct{ s *Store }

func cloneTask(t *models.Task) *models.Task {
	c := *t
	c.UpdatedAt = copyTime(t.UpdatedAt)
	return &c
}

func (r *taskRepo) Create(_ context.Context, task *models.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[task.ID]; ok {
		return fmt.Errorf("task %s: %w", task.ID, repositories.ErrDuplicate)
	}
	r.s.tasks[task.ID] = cloneTask(task)
	r.s.taskOrder[task.ID] = r.s.next()
	return nil
}

func (r *taskRepo) FindByID(_ context.Context, id string) (*models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneTask(t), nil
}

func (r *taskRepo) Find(_ context.Context, filter repositories.TaskFilter) ([]models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for id, t := range r.s.tasks {
		if filter.ProjectID != "" && t.ProjectID != filter.ProjectID {
			continue
		}
		if filter.AssignedTo != "" && t.AssignedTo != filter.AssignedTo {
			continue
		}
		ids = append(ids, id)
	}
	tasks := make([]models.Task, 0, len(ids))
	for _, id := range sortedIDs(r.s.taskOrder, ids) {
		tasks = append(tasks, *cloneTask(r.s.tasks[id]))
	}
	return tasks, nil
}

func applyTaskUpdate(update models.TaskUpdate, title, description, status, priority, dueDate, assignedTo *string, updatedAt **time.Time) {
	if update.Title != nil {
		*title = *update.Title
	}
	if update.Description != nil {
		*description = *update.Description
	}
	if update.Status != nil {
		*status = *update.Status
	}
	if update.Priority != nil {
		*priority = *update.Priority
	}
	if update.DueDate != nil {
		*dueDate = *update.DueDate
	}
	if update.AssignedTo != nil {
		*assignedTo = *update.AssignedTo
	}
	if !update.UpdatedAt.IsZero() {
		*updatedAt = copyTime(&update.UpdatedAt)
	}
}

func (r *taskRepo) Update(_ context.Context, id string, update models.TaskUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return repositories.ErrNotFound
	}
	applyTaskUpdate(update, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate, &t.AssignedTo, &t.UpdatedAt)
	return nil
}

func (r *taskRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.tasks, id)
	delete(r.s.taskOrder, id)
	return nil
}

// subtasks

type subtaskRepo struct{ s *Store }

func cloneSubtask(t *models.Subtask) *models.Subtask {
	c := *t
	c.UpdatedAt = copyTime(t.UpdatedAt)
	return &c
}

func (r *subtaskRepo) Create(_ context.Context, subtask *models.Subtask) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.subtasks[subtask.ID]; ok {
		return fmt.Errorf("subtask %s: %w", subtask.ID, repositories.ErrDuplicate)
	}
	r.s.subtasks[subtask.ID] = cloneSubtask(subtask)
	r.s.subtaskOrder[subtask.ID] = r.s.next()
	return nil
}

func (r *subtaskRepo) FindByID(_ context.Context, id string) (*models.Subtask, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.subtasks[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneSubtask(t), nil
}

func (r *subtaskRepo) Find(_ context.Context, filter repositories.SubtaskFilter) ([]models.Subtask, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for id, t := range r.s.subtasks {
		if filter.TaskID != "" && t.TaskID != filter.TaskID {
			continue
		}
		if filter.AssignedTo != "" && t.AssignedTo != filter.AssignedTo {
			continue
		}
		ids = append(ids, id)
	}
	subtasks := make([]models.Subtask, 0, len(ids))
	for _, id := range sortedIDs(r.s.subtaskOrder, ids) {
		subtasks = append(subtasks, *cloneSubtask(r.s.subtasks[id]))
	}
	return subtasks, nil
}

func (r *subtaskRepo) Update(_ context.Context, id string, update models.TaskUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.subtasks[id]
	if !ok {
		return repositories.ErrNotFound
	}
	applyTaskUpdate(update, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate, &t.AssignedTo, &t.UpdatedAt)
	return nil
}

func (r *subtaskRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.subtasks[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.subtasks, id)
	delete(r.s.subtaskOrder, id)
	return nil
}

// comments

type commentRepo struct{ s *Store }

func (r *commentRepo) Create(_ context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[comment.ID]; ok {
		return fmt.Errorf("comment %s: %w", comment.ID, repositories.ErrDuplicate)
	}
	c := *comment
	r.s.comments[comment.ID] = &c
	r.s.commentOrder[comment.ID] = r.s.next()
	return nil
}

func (r *commentRepo) ListByTask(_ context.Context, taskID string) ([]models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	comments := make([]models.Comment, 0)
	for _, c := range r.s.comments {
		if c.TaskID == taskID {
			comments = append(comments, *c)
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return r.s.commentOrder[comments[i].ID] < r.s.commentOrder[comments[j].ID]
	})
	return comments, nil
}

func (r *commentRepo) CountByTask(_ context.Context, taskID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, c := range r.s.comments {
		if c.TaskID == taskID {
			n++
		}
	}
	return n, nil
}

// credentials

type credentialRepo struct{ s *Store }

func (r *credentialRepo) Create(_ context.Context, cred *models.Credential) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.credentials[cred.Email]; ok {
		return fmt.Errorf("credential %s: %w", cred.Email, repositories.ErrDuplicate)
	}
	c := *cred
	r.s.credentials[cred.Email] = &c
	return nil
}

func (r *credentialRepo) FindByEmail(_ context.Context, email string) (*models.Credential, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.credentials[email]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *c
	return &out, nil
}

// notifications

type notificationRepo struct{ s *Store }

func (r *notificationRepo) Create(_ context.Context, n *models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.notifications[n.UserID] = append(r.s.notifications[n.UserID], *n)
	return nil
}

func (r *notificationRepo) ListByUser(_ context.Context, userID string) ([]models.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	src := r.s.notifications[userID]
	out := make([]models.Notification, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		out = append(out, src[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *notificationRepo) MarkRead(_ context.Context, userID, notificationID string, createdAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := r.s.notifications[userID]
	for i := range list {
		if list[i].ID == notificationID && list[i].CreatedAt.Equal(createdAt) {
			list[i].IsRead = true
			return nil
		}
	}
	return repositories.ErrNotFound
}
