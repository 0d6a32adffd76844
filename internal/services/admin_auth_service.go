package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/lexjuris/lexjuris-api/internal/cache"
	"github.com/lexjuris/lexjuris-api/internal/models"
	"github.com/lexjuris/lexjuris-api/internal/ratelimit"
	"github.com/lexjuris/lexjuris-api/internal/repository"
	apperrors "github.com/lexjuris/lexjuris-api/pkg/errors"
	"github.com/lexjuris/lexjuris-api/pkg/jwt"
	"github.com/lexjuris/lexjuris-api/pkg/logger"
	"github.com/lexjuris/lexjuris-api/pkg/metrics"
)

// AdminAuthService authenticates dashboard users. Two independent limiters
// protect the login endpoint: a per-IP limiter counting every attempt, and a
// per-email limiter counting only failed attempts so an attacker cycling IPs
// still locks out on the targeted account.
type AdminAuthService struct {
	admins     repository.AdminRepositoryInterface
	adminCache *cache.AdminCache
	limiter    RateLimiter
	tokens     *jwt.TokenManager
}

// NewAdminAuthService creates the admin authentication service.
func NewAdminAuthService(admins repository.AdminRepositoryInterface, adminCache *cache.AdminCache, limiter RateLimiter, tokens *jwt.TokenManager) *AdminAuthService {
	return &AdminAuthService{
		admins:     admins,
		adminCache: adminCache,
		limiter:    limiter,
		tokens:     tokens,
	}
}

// Login verifies credentials and issues a signed session token. It returns
// a *ratelimit.LimitError when either limiter rejects the attempt and
// ErrUnauthorized for any credential failure, without distinguishing unknown
// accounts from wrong passwords.
func (s *AdminAuthService) Login(ctx context.Context, clientIP string, req *models.AdminLoginRequest) (string, *models.AdminSession, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	ipDec := s.limiter.Check(ctx, clientIP, ratelimit.PurposeAdminLoginIP)
	if !ipDec.Allowed {
		logger.Warn("Admin login rate limited by IP",
			zap.String("client_ip", clientIP))
		metrics.AdminLogins.WithLabelValues("rate_limited").Inc()
		return "", nil, &ratelimit.LimitError{Decision: ipDec}
	}

	// The email limiter counts failures only, so peek here and record below.
	emailDec := s.limiter.Status(ctx, email, ratelimit.PurposeAdminLoginEmail)
	if !emailDec.Allowed {
		logger.Warn("Admin login rate limited by account",
			zap.String("email", email))
		metrics.AdminLogins.WithLabelValues("rate_limited").Inc()
		return "", nil, &ratelimit.LimitError{Decision: emailDec}
	}

	admin, err := s.lookupAdmin(ctx, email)
	if err != nil {
		logger.Error("Admin lookup failed", zap.Error(err))
		metrics.AdminLogins.WithLabelValues("error").Inc()
		return "", nil, apperrors.InternalError("admin lookup failed")
	}

	if admin == nil || !admin.Active {
		return "", nil, s.failLogin(ctx, clientIP, email)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, s.failLogin(ctx, clientIP, email)
	}

	token, err := s.tokens.GenerateToken(admin.ID, admin.Email, admin.Name, string(admin.Role))
	if err != nil {
		logger.Error("Failed to sign session token", zap.Error(err))
		metrics.AdminLogins.WithLabelValues("error").Inc()
		return "", nil, apperrors.InternalError("session token generation failed")
	}

	now := time.Now()
	session := &models.AdminSession{
		AdminID:   admin.ID,
		Email:     admin.Email,
		Name:      admin.Name,
		Role:      admin.Role,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.tokens.TTL()).Unix(),
	}

	logger.Info("Admin login succeeded",
		zap.String("admin_id", admin.ID),
		zap.String("role", string(admin.Role)))
	metrics.AdminLogins.WithLabelValues("success").Inc()
	return token, session, nil
}

// SessionFromToken validates a session cookie value and rebuilds the session.
func (s *AdminAuthService) SessionFromToken(token string) (*models.AdminSession, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	return &models.AdminSession{
		AdminID:   claims.AdminID,
		Email:     claims.Email,
		Name:      claims.Name,
		Role:      models.AdminRole(claims.Role),
		IssuedAt:  claims.IssuedAt.Unix(),
		ExpiresAt: claims.ExpiresAt.Unix(),
	}, nil
}

// lookupAdmin returns the admin for email, or nil when no such account
// exists. The cache sits in front of Postgres so throttled-but-allowed
// brute-force attempts don't each cost a query.
func (s *AdminAuthService) lookupAdmin(ctx context.Context, email string) (*models.Admin, error) {
	if admin, ok := s.adminCache.Get(email); ok {
		return admin, nil
	}

	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	s.adminCache.Set(admin)
	return admin, nil
}

// failLogin records the failed attempt against the per-email limiter and
// returns the uniform credentials error.
func (s *AdminAuthService) failLogin(ctx context.Context, clientIP, email string) error {
	s.limiter.Check(ctx, email, ratelimit.PurposeAdminLoginEmail)
	logger.Warn("Admin login failed",
		zap.String("client_ip", clientIP),
		zap.String("email", email))
	metrics.AdminLogins.WithLabelValues("failed").Inc()
	return apperrors.ErrUnauthorized
}
