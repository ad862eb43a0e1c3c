package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ieeeestu/site/database"
	"github.com/ieeeestu/site/models"
	"github.com/ieeeestu/site/pkg"
	"github.com/ieeeestu/site/repository"
	"github.com/ieeeestu/site/ws"
)

const tokenIssuer = "ieeeestu"

// ErrTokenExpired, süresi dolmuş ID token. ErrUnauthorized'ı da sarar;
// session middleware bu durumda refresh dener.
var ErrTokenExpired = fmt.Errorf("%w: token expired", pkg.ErrUnauthorized)

// AuthService, admin oturumları.
type AuthService interface {
	SignIn(ctx context.Context, req *models.LoginRequest) (*AuthTokens, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error)
	// SignOut, oturumu siler ve adminin açık sekmelerine auth_state{signed_in:false} yayınlar.
	SignOut(ctx context.Context, refreshToken string) error
	VerifyIDToken(token string) (*models.TokenClaims, error)
	// EnsureAdmin, email ile kayıtlı admin yoksa oluşturur.
	EnsureAdmin(ctx context.Context, email, password string) error
	PruneSessions(ctx context.Context) (int64, error)
}

// AuthTokens, giriş ve refresh sonrası dönen token çifti.
type AuthTokens struct {
	IDToken          string       `json:"idToken"`
	RefreshToken     string       `json:"refreshToken"`
	ExpiresAt        time.Time    `json:"expiresAt"`
	RefreshExpiresAt time.Time    `json:"refreshExpiresAt"`
	Admin            models.Admin `json:"admin"`
}

type authService struct {
	db          *sql.DB
	adminRepo   repository.AdminRepository
	sessionRepo repository.SessionRepository
	hub         ws.EventPublisher
	jwtSecret   []byte
	accessExp   time.Duration
	refreshExp  time.Duration
	bcryptCost  int
	now         func() time.Time
}

// NewAuthService, constructor.
// db, refresh rotasyonunu tek transaction'da yapmak için gerekir.
func NewAuthService(
	db *sql.DB,
	adminRepo repository.AdminRepository,
	sessionRepo repository.SessionRepository,
	hub ws.EventPublisher,
	jwtSecret string,
	accessExpMinutes int,
	refreshExpDays int,
) AuthService {
	return &authService{
		db:          db,
		adminRepo:   adminRepo,
		sessionRepo: sessionRepo,
		hub:         hub,
		jwtSecret:   []byte(jwtSecret),
		accessExp:   time.Duration(accessExpMinutes) * time.Minute,
		refreshExp:  time.Duration(refreshExpDays) * 24 * time.Hour,
		bcryptCost:  12,
		now:         time.Now,
	}
}

func (s *authService) SignIn(ctx context.Context, req *models.LoginRequest) (*AuthTokens, error) {
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}

	admin, err := s.adminRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", pkg.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", pkg.ErrUnauthorized)
	}

	log.Printf("[auth] admin signed in: %s", admin.Email)
	return s.issueTokens(ctx, s.sessionRepo, admin)
}

// Refresh, eski oturumu silip yenisini aynı transaction içinde açar.
// Süresi dolmuş refresh token silinir ve ErrUnauthorized döner.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: missing refresh token", pkg.ErrUnauthorized)
	}

	var (
		tokens  *AuthTokens
		expired bool
	)

	err := database.WithTx(ctx, s.db, func(tx database.TxQuerier) error {
		sessions := repository.NewSQLiteSessionRepo(tx)

		session, err := sessions.GetByRefreshToken(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, pkg.ErrNotFound) {
				return fmt.Errorf("%w: invalid refresh token", pkg.ErrUnauthorized)
			}
			return err
		}

		if err := sessions.DeleteByID(ctx, session.ID); err != nil {
			return fmt.Errorf("failed to delete old session: %w", err)
		}

		if s.now().After(session.ExpiresAt) {
			expired = true
			return nil
		}

		admin, err := repository.NewSQLiteAdminRepo(tx).GetByID(ctx, session.AdminID)
		if err != nil {
			return err
		}

		tokens, err = s.issueTokens(ctx, sessions, admin)
		return err
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, fmt.Errorf("%w: refresh token expired", pkg.ErrUnauthorized)
	}
	return tokens, nil
}

func (s *authService) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := s.sessionRepo.DeleteByID(ctx, session.ID); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.BroadcastToUser(session.AdminID, ws.Event{
			Op:   ws.OpAuthState,
			Data: ws.AuthState{SignedIn: false},
		})
	}
	return nil
}

func (s *authService) VerifyIDToken(tokenString string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: invalid token", pkg.ErrUnauthorized)
	}
	if claims.AdminID == "" {
		return nil, fmt.Errorf("%w: invalid token claims", pkg.ErrUnauthorized)
	}
	return claims, nil
}

func (s *authService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}

	_, err := s.adminRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pkg.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.adminRepo.Create(ctx, &models.Admin{Email: email, PasswordHash: string(hash)}); err != nil {
		return err
	}
	log.Printf("[auth] bootstrap admin created: %s", email)
	return nil
}

func (s *authService) PruneSessions(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx)
}

func (s *authService) issueTokens(ctx context.Context, sessions repository.SessionRepository, admin *models.Admin) (*AuthTokens, error) {
	now := s.now()
	expiresAt := now.Add(s.accessExp)

	claims := &models.TokenClaims{
		AdminID: admin.ID,
		Email:   admin.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	idToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign id token: %w", err)
	}

	refreshBytes := make([]byte, 32)
	if _, err := rand.Read(refreshBytes); err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	refreshToken := hex.EncodeToString(refreshBytes)

	session := &models.Session{
		AdminID:      admin.ID,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(s.refreshExp),
	}
	if err := sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	out := *admin
	out.PasswordHash = ""

	return &AuthTokens{
		IDToken:          idToken,
		RefreshToken:     refreshToken,
		ExpiresAt:        expiresAt,
		RefreshExpiresAt: session.ExpiresAt,
		Admin:            out,
	}, nil
}
