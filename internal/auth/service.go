// Package auth covers the three ways into SecretReels: Google OAuth,
// anonymous guest identities, and moderator password sign-in.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"secretreels/internal/database"
	"secretreels/internal/models"
	"secretreels/internal/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleUserInfo is the userinfo payload returned by Google.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

type Service struct {
	store  database.Store
	google *oauth2.Config
}

func NewService(store database.Store, clientID, clientSecret, redirectURL string) *Service {
	return &Service{
		store: store,
		google: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

// GenerateStateToken mints the random state value for the OAuth round trip.
func GenerateStateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// GoogleLoginURL returns the consent-screen URL for the given state.
func (s *Service) GoogleLoginURL(state string) string {
	return s.google.AuthCodeURL(state)
}

// HandleGoogleCallback exchanges the authorization code, fetches the
// Google profile, and upserts the matching user.
func (s *Service) HandleGoogleCallback(ctx context.Context, code string) (*models.User, error) {
	token, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrUnauthenticated, "Google code exchange failed", err)
	}

	client := s.google.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrUnauthenticated, "failed to fetch Google profile", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, utils.NewAppError(utils.ErrUnauthenticated,
			fmt.Sprintf("Google profile request returned %d", resp.StatusCode), nil)
	}

	var info GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, utils.NewAppError(utils.ErrUnauthenticated, "failed to decode Google profile", err)
	}
	if info.ID == "" {
		return nil, utils.NewAppError(utils.ErrUnauthenticated, "Google profile has no ID", nil)
	}

	user, err := s.store.GetUserByGoogleID(ctx, info.ID)
	if err == nil {
		user.LastActive = time.Now()
		if saveErr := s.store.SaveUser(ctx, user); saveErr != nil {
			return nil, saveErr
		}
		return user, nil
	}
	if !utils.IsErrorCode(err, utils.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	user = &models.User{
		ID:          uuid.New(),
		DisplayName: info.Name,
		Email:       info.Email,
		GoogleID:    info.ID,
		CreatedAt:   now,
		LastActive:  now,
	}
	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateGuest mints an anonymous identity. Guests can vote, share
// secrets, and comment like any other principal.
func (s *Service) CreateGuest(ctx context.Context) (*models.User, error) {
	now := time.Now()
	user := &models.User{
		ID:          uuid.New(),
		DisplayName: "guest-" + uuid.New().String()[:8],
		IsGuest:     true,
		CreatedAt:   now,
		LastActive:  now,
	}
	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ModeratorLogin verifies a moderator's email and password.
func (s *Service) ModeratorLogin(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrNotFound) {
			return nil, utils.NewUnauthenticatedError("invalid credentials")
		}
		return nil, err
	}
	if !user.IsModerator || user.HashedPassword == "" {
		return nil, utils.NewUnauthenticatedError("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, utils.NewUnauthenticatedError("invalid credentials")
	}

	user.LastActive = time.Now()
	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// HashPassword hashes a moderator password for storage.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
