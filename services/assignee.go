package services

import (
	"context"
	"errors"

	"github.com/DFSguan/Collaborative-Task-Management-System/apperrors"
	"github.com/DFSguan/Collaborative-Task-Management-System/models"
	"github.com/DFSguan/Collaborative-Task-Management-System/repositories"
)

// people resolves user ids and display names for tasks, subtasks and comments.
type people struct {
	users repositories.UserRepository
}

// requireUser fails with a not-found error carrying msg when id does not resolve.
func (p people) requireUser(ctx context.Context, id, msg string) (*models.User, error) {
	user, err := p.users.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NotFound("%s", msg)
	}
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load user %s", id)
	}
	return user, nil
}

// idForName returns the id of the first user with the given display name.
// An empty name resolves to the empty id, which clears an assignment.
func (p people) idForName(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	user, err := p.users.FindByName(ctx, name)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", apperrors.NotFound("Assigned username not found")
	}
	if err != nil {
		return "", apperrors.Internal(err, "failed to look up user %q", name)
	}
	return user.ID, nil
}

type display struct {
	name   string
	avatar string
}

// lookup memoizes profile lookups for a single read.
type lookup struct {
	people
	seen map[string]display
}

func (p people) newLookup() *lookup {
	return &lookup{people: p, seen: make(map[string]display)}
}

// resolve returns the current name and avatar for id, or fallback when id is empty.
func (l *lookup) resolve(ctx context.Context, id, fallback string) (display, error) {
	if id == "" {
		return display{name: fallback}, nil
	}
	if d, ok := l.seen[id]; ok {
		return d, nil
	}

	user, err := l.users.FindByID(ctx, id)
	var d display
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		d = display{name: models.UnknownUser}
	case err != nil:
		return display{}, apperrors.Internal(err, "failed to load user %s", id)
	default:
		d = display{name: user.Name, avatar: user.Avatar}
	}
	l.seen[id] = d
	return d, nil
}
