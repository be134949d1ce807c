package user

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/finsight-app/finsight-api/internal/auth"
	"github.com/finsight-app/finsight-api/internal/config"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrLoginFailed  = errors.New("login failed")
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
	userinfoURL     = "https://www.googleapis.com/oauth2/v2/userinfo"
)

type AuthTokens struct {
	AccessToken  string
	RefreshToken string
}

type Service interface {
	GoogleLogin(ctx context.Context, code, redirectURI string) (*User, *AuthTokens, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error)
	GetMe(ctx context.Context) (*User, error)
	UpdateGoalSelections(ctx context.Context, goals ProfileGoals) (*User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func oauthConfig(redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  redirectURI,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

type googleUserinfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleLogin exchanges an OAuth authorization code, upserts the user
// profile and issues the session token pair. The Google refresh token
// is stored encrypted at rest.
func (s *service) GoogleLogin(ctx context.Context, code, redirectURI string) (*User, *AuthTokens, error) {
	log := config.WithContext(ctx)

	cfg := oauthConfig(redirectURI)
	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		log.WithError(err).Warn("OAuth code exchange failed")
		return nil, nil, ErrLoginFailed
	}

	resp, err := cfg.Client(ctx, token).Get(userinfoURL)
	if err != nil {
		log.WithError(err).Error("Failed to fetch Google userinfo")
		return nil, nil, ErrLoginFailed
	}
	defer resp.Body.Close()

	var info googleUserinfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.Email == "" {
		log.WithError(err).Error("Invalid Google userinfo response")
		return nil, nil, ErrLoginFailed
	}

	u, err := s.repo.FindByEmail(ctx, info.Email)
	if err != nil {
		log.WithError(err).Error("Failed to look up user")
		return nil, nil, err
	}
	if u == nil {
		u = &User{
			ID:        uuid.New(),
			Email:     info.Email,
			CreatedAt: time.Now(),
		}
	}
	u.FullName = info.Name
	u.UpdatedAt = time.Now()

	if token.RefreshToken != "" {
		encrypted, err := config.Encrypt(token.RefreshToken)
		if err != nil {
			log.WithError(err).Error("Failed to encrypt refresh token")
			return nil, nil, err
		}
		u.RefreshToken = encrypted
	}

	if err := s.repo.Save(ctx, u); err != nil {
		log.WithError(err).Error("Failed to save user")
		return nil, nil, err
	}

	tokens, err := issueTokens(u.ID.String())
	if err != nil {
		log.WithError(err).Error("Failed to issue session tokens")
		return nil, nil, err
	}

	log.WithField("user_id", u.ID).Info("User logged in")
	return u, tokens, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	log := config.WithContext(ctx)

	claims, err := auth.ValidateJWT(refreshToken)
	if err != nil {
		log.WithError(err).Warn("Invalid refresh token")
		return nil, auth.ErrInvalidToken
	}

	return issueTokens(claims.UserID)
}

func (s *service) GetMe(ctx context.Context) (*User, error) {
	log := config.WithContext(ctx)

	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Failed to load user")
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *service) UpdateGoalSelections(ctx context.Context, goals ProfileGoals) (*User, error) {
	log := config.WithContext(ctx)

	u, err := s.GetMe(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateGoals(ctx, u.ID, goals); err != nil {
		log.WithError(err).Error("Failed to update profile goal selections")
		return nil, err
	}
	u.FinancialGoals = goals

	log.WithField("user_id", u.ID).Info("Profile goal selections updated")
	return u, nil
}

func issueTokens(userID string) (*AuthTokens, error) {
	access, err := auth.GenerateJWT(userID, "user", accessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.GenerateJWT(userID, "user", refreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}
