package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"golang.org/x/crypto/bcrypt"

	"github.com/DFSguan/Collaborative-Task-Management-System/apperrors"
	"github.com/DFSguan/Collaborative-Task-Management-System/logging"
	"github.com/DFSguan/Collaborative-Task-Management-System/models"
	"github.com/DFSguan/Collaborative-Task-Management-System/repositories"
	"github.com/DFSguan/Collaborative-Task-Management-System/utils"
)

// Identity is what a provider returns for a verified credential.
type Identity struct {
	UID     string
	Email   string
	IDToken string
}

// IdentityProvider creates and verifies email/password credentials.
// SignUp failures are KindUpstreamAuth errors, SignIn rejections are KindAuth errors.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string) (*Identity, error)
	SignIn(ctx context.Context, email, password string) (*Identity, error)
}

// FirebaseIdentity talks to the Identity Toolkit REST API.
type FirebaseIdentity struct {
	baseURL string
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewFirebaseIdentity(baseURL, apiKey string, client *http.Client) *FirebaseIdentity {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "IdentityProviderCB",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		// A rejected credential or a caller that went away says nothing about provider health.
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			_, ok := apperrors.As(err)
			return ok
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	return &FirebaseIdentity{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
		breaker: breaker,
	}
}

type firebaseRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type firebaseResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (f *FirebaseIdentity) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	return f.call(ctx, "accounts:signUp", email, password, apperrors.UpstreamAuth)
}

func (f *FirebaseIdentity) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	return f.call(ctx, "accounts:signInWithPassword", email, password, apperrors.Auth)
}

func (f *FirebaseIdentity) call(ctx context.Context, method, email, password string, reject func(string, ...interface{}) *apperrors.Error) (*Identity, error) {
	result, err := f.breaker.Execute(func() (interface{}, error) {
		body, err := json.Marshal(firebaseRequest{Email: email, Password: password, ReturnSecureToken: true})
		if err != nil {
			return nil, err
		}

		url := fmt.Sprintf("%s/v1/%s?key=%s", f.baseURL, method, f.apiKey)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		var out firebaseResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, fmt.Errorf("decode identity provider response (status %d): %w", resp.StatusCode, err)
		}
		if out.Error != nil {
			return nil, reject("%s", out.Error.Message)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
		}
		return &Identity{UID: out.LocalID, Email: out.Email, IDToken: out.IDToken}, nil
	})
	if err != nil {
		if _, ok := apperrors.As(err); ok {
			return nil, err
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logging.Logger.Warnf("Event ID: IDENTITY_PROVIDER_UNAVAILABLE, Description: Circuit open for %s", method)
			return nil, apperrors.Internal(err, "identity provider unavailable")
		}
		logging.Logger.Errorf("Event ID: IDENTITY_PROVIDER_ERROR, Description: %s failed: %v", method, err)
		return nil, apperrors.Internal(err, "identity provider request failed")
	}
	return result.(*Identity), nil
}

// LocalIdentity keeps bcrypt hashed credentials in the document store and issues HS256 tokens.
type LocalIdentity struct {
	credentials repositories.CredentialRepository
	secret      []byte
	tokenTTL    time.Duration
}

func NewLocalIdentity(credentials repositories.CredentialRepository, secret []byte, tokenTTL time.Duration) *LocalIdentity {
	return &LocalIdentity{credentials: credentials, secret: secret, tokenTTL: tokenTTL}
}

func (l *LocalIdentity) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to hash password")
	}

	cred := &models.Credential{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashed),
		CreatedAt:    time.Now().UTC(),
	}
	if err := l.credentials.Create(ctx, cred); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.UpstreamAuth("EMAIL_EXISTS")
		}
		return nil, apperrors.Internal(err, "failed to store credentials")
	}

	token, err := utils.GenerateToken(l.secret, cred.UID, cred.Email, l.tokenTTL)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to generate token")
	}
	return &Identity{UID: cred.UID, Email: cred.Email, IDToken: token}, nil
}

func (l *LocalIdentity) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	cred, err := l.credentials.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Auth("INVALID_LOGIN_CREDENTIALS")
	}
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.Auth("INVALID_LOGIN_CREDENTIALS")
	}

	token, err := utils.GenerateToken(l.secret, cred.UID, cred.Email, l.tokenTTL)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to generate token")
	}
	return &Identity{UID: cred.UID, Email: cred.Email, IDToken: token}, nil
}
