package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/DFSguan/Collaborative-Task-Management-System/apperrors"
	"github.com/DFSguan/Collaborative-Task-Management-System/logging"
	"github.com/DFSguan/Collaborative-Task-Management-System/models"
	"github.com/DFSguan/Collaborative-Task-Management-System/repositories"
	"github.com/DFSguan/Collaborative-Task-Management-System/utils"
)

const avatarSeedLength = 10

type UserService struct {
	users         repositories.UserRepository
	identity      IdentityProvider
	avatarBaseURL string
}

func NewUserService(users repositories.UserRepository, identity IdentityProvider, avatarBaseURL string) *UserService {
	return &UserService{
		users:         users,
		identity:      identity,
		avatarBaseURL: avatarBaseURL,
	}
}

type SignupInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role"`
}

// Signup registers the credential with the identity provider, then writes the profile
// keyed by the provider's uid. A failed profile write leaves the credential in place.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in, "Name, email and password are required"); err != nil {
		return nil, err
	}

	identity, err := s.identity.SignUp(ctx, in.Email, in.Password)
	if err != nil {
		logging.Logger.Warnf("Event ID: SIGNUP_REJECTED, Description: Identity provider rejected signup for %s: %v", in.Email, err)
		return nil, err
	}

	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = models.DefaultRole
	}

	user := &models.User{
		ID:        identity.UID,
		Name:      in.Name,
		Email:     in.Email,
		Role:      role,
		Avatar:    utils.AvatarURL(s.avatarBaseURL, utils.NewAvatarSeed(avatarSeedLength)),
		Projects:  []string{},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.Internal(err, "failed to save user profile")
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User %s registered", user.ID)
	return user, nil
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	User    *models.User
	IDToken string
}

func (s *UserService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in, "Email and password required"); err != nil {
		return nil, err
	}

	identity, err := s.identity.SignIn(ctx, in.Email, in.Password)
	if err != nil {
		logging.Logger.Warnf("Event ID: LOGIN_FAILED, Description: Sign-in failed for %s: %v", in.Email, err)
		return nil, err
	}

	email := identity.Email
	if email == "" {
		email = in.Email
	}
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NotFound("User profile not found")
	}
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load user profile")
	}

	logging.Logger.Infof("Event ID: LOGIN_SUCCESS, Description: User %s logged in", user.ID)
	return &LoginResult{User: user, IDToken: identity.IDToken}, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list users")
	}
	if len(users) == 0 {
		return nil, apperrors.NotFound("No users found")
	}

	summaries := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, models.UserSummary{UserID: u.ID, Username: u.Name, Avatar: u.Avatar})
	}
	return summaries, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
