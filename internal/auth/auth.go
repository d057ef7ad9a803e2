// Package auth issues and resolves sessions. Accounts live in the profiles
// collection, roles in user_roles, and live sessions in the TTL cache.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/cache"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/models"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/remote"
)

const (
	MinPasswordLength = 6
	ResetTokenTTL     = time.Hour

	sessionPrefix = "session:"
	resetPrefix   = "reset:"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidResetToken  = errors.New("reset link is invalid or has expired")
)

// Mailer delivers password reset links.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, link string) error
}

// LogMailer writes reset links to the log instead of sending them.
type LogMailer struct {
	Log zerolog.Logger
}

// SendPasswordReset logs the reset link instead of mailing it.
func (m LogMailer) SendPasswordReset(_ context.Context, email, link string) error {
	m.Log.Info().Str("email", email).Str("link", link).Msg("📧 password reset requested")
	return nil
}

// Service signs users in and resolves sessions.
type Service struct {
	users    *remote.Collection[models.User]
	roles    *remote.Collection[models.UserRole]
	sessions *cache.Cache
	validate *validator.Validate
	mailer   Mailer
	admins   map[string]struct{}
	ttl      time.Duration
	cost     int
	now      func() time.Time
	log      zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

func WithMailer(m Mailer) Option { return func(s *Service) { s.mailer = m } }

func WithLogger(l zerolog.Logger) Option { return func(s *Service) { s.log = l } }

func WithSessionTTL(d time.Duration) Option { return func(s *Service) { s.ttl = d } }

// WithAdminEmails grants the admin role to these addresses at sign-up.
func WithAdminEmails(emails ...string) Option {
	return func(s *Service) {
		for _, e := range emails {
			s.admins[normalizeEmail(e)] = struct{}{}
		}
	}
}

// WithHashCost overrides the bcrypt cost.
func WithHashCost(cost int) Option { return func(s *Service) { s.cost = cost } }

// New creates an auth service backed by store, keeping sessions in sessions.
func New(store remote.Store, sessions *cache.Cache, opts ...Option) *Service {
	s := &Service{
		users:    remote.NewCollection[models.User](store, models.CollectionProfiles),
		roles:    remote.NewCollection[models.UserRole](store, models.CollectionUserRoles),
		sessions: sessions,
		validate: validator.New(),
		admins:   map[string]struct{}{},
		ttl:      7 * 24 * time.Hour,
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.mailer == nil {
		s.mailer = LogMailer{Log: s.log}
	}
	return s
}

type profileInput struct {
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	PasswordHash string `json:"password_hash"`
}

// SignUp creates an account and signs it in.
func (s *Service) SignUp(ctx context.Context, email, password, fullName string) (*models.Session, error) {
	email = normalizeEmail(email)
	if err := s.checkEmail(email); err != nil {
		return nil, err
	}
	if err := checkPassword(password); err != nil {
		return nil, err
	}

	if _, err := s.findByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, remote.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.users.Insert(ctx, profileInput{
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	if _, ok := s.admins[email]; ok {
		if _, err := s.roles.Insert(ctx, models.UserRole{UserID: user.ID, Role: models.RoleAdmin}); err != nil {
			return nil, fmt.Errorf("grant admin role: %w", err)
		}
		s.log.Info().Str("user_id", user.ID).Msg("admin role granted")
	}

	return s.startSession(ctx, user)
}

// SignIn checks the credentials and opens a new session.
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	user, err := s.findByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, remote.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.startSession(ctx, user)
}

// SignOut ends the session behind token. Unknown tokens are ignored.
func (s *Service) SignOut(token string) {
	if token != "" {
		s.sessions.Delete(sessionPrefix + token)
	}
}

// CurrentSession resolves a token, or returns nil.
func (s *Service) CurrentSession(token string) *models.Session {
	if token == "" {
		return nil
	}
	v, ok := s.sessions.GetValue(sessionPrefix + token)
	if !ok {
		return nil
	}
	session, ok := v.(models.Session)
	if !ok || !s.now().Before(session.ExpiresAt) {
		return nil
	}
	return &session
}

// IsAdmin reports the admin capability of a session.
func (s *Service) IsAdmin(session *models.Session) bool {
	return session != nil && session.IsAdmin
}

// RequestPasswordReset mails a reset link to email. Unknown addresses succeed
// silently so the form does not reveal which accounts exist.
func (s *Service) RequestPasswordReset(ctx context.Context, email, redirectTo string) error {
	email = normalizeEmail(email)
	if err := s.checkEmail(email); err != nil {
		return err
	}
	user, err := s.findByEmail(ctx, email)
	if errors.Is(err, remote.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	token := uuid.NewString()
	s.sessions.DeleteByPrefix(resetKeyPrefix(user.ID))
	s.sessions.Set(resetKeyPrefix(user.ID)+token, user.ID, ResetTokenTTL)

	link, err := resetLink(redirectTo, user.ID, token)
	if err != nil {
		return err
	}
	return s.mailer.SendPasswordReset(ctx, email, link)
}

// ResetPassword replaces the password when token is the latest one issued
// for userID.
func (s *Service) ResetPassword(ctx context.Context, userID, token, password string) error {
	if userID == "" || token == "" {
		return ErrInvalidResetToken
	}
	if _, ok := s.sessions.GetValue(resetKeyPrefix(userID) + token); !ok {
		return ErrInvalidResetToken
	}
	if err := checkPassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if _, err := s.users.Update(ctx, userID, remote.Document{"password_hash": string(hash)}); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.sessions.DeleteByPrefix(resetKeyPrefix(userID))
	return nil
}

func (s *Service) startSession(ctx context.Context, user models.User) (*models.Session, error) {
	admin, err := s.hasRole(ctx, user.ID, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	session := models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		IsAdmin:   admin,
		ExpiresAt: s.now().Add(s.ttl),
	}
	s.sessions.Set(sessionPrefix+session.Token, session, s.ttl)
	return &session, nil
}

func (s *Service) hasRole(ctx context.Context, userID, role string) (bool, error) {
	q := remote.Query{}.Eq("user_id", userID).Eq("role", role).WithLimit(1)
	roles, err := s.roles.List(ctx, q)
	if err != nil {
		return false, fmt.Errorf("load roles: %w", err)
	}
	return len(roles) > 0, nil
}

func (s *Service) findByEmail(ctx context.Context, email string) (models.User, error) {
	users, err := s.users.List(ctx, remote.Query{}.Eq("email", email).WithLimit(1))
	if err != nil {
		return models.User{}, fmt.Errorf("find profile: %w", err)
	}
	if len(users) == 0 {
		return models.User{}, remote.NotFound(models.CollectionProfiles, email)
	}
	return users[0], nil
}

func (s *Service) checkEmail(email string) error {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return &models.ValidationError{Field: "email", Message: "enter a valid email address"}
	}
	return nil
}

func checkPassword(password string) error {
	if len(password) < MinPasswordLength {
		return &models.ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength),
		}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func resetKeyPrefix(userID string) string {
	return resetPrefix + userID + ":"
}

func resetLink(redirectTo, userID, token string) (string, error) {
	u, err := url.Parse(redirectTo)
	if err != nil {
		return "", fmt.Errorf("reset redirect: %w", err)
	}
	q := u.Query()
	q.Set("user", userID)
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
