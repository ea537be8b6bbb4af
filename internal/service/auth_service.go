package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/config"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/dto"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/model"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/notify"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/session"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/store"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/jwt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid e-mail or password")
	ErrAccountNotFound     = errors.New("no account registered with this e-mail")
	ErrVerificationPending = errors.New("account verification pending")
)

// AuthService authenticates identities and resolves live sessions.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// ConfirmVerification marks the account verified and logs it in.
	ConfirmVerification(ctx context.Context, req *dto.VerifyRequest) (*dto.TokenResponse, error)
	ResendVerification(ctx context.Context, req *dto.ResendVerificationRequest) error
	Logout(ctx context.Context, claims *jwt.Claims) error
	// Resolve re-reads stale against the store and applies the access gate.
	Resolve(stale session.Record) (session.Record, session.Decision)
	Session(stale session.Record, sessionID string) *dto.SessionResponse
}

type authService struct {
	cfg     *config.Config
	store   *store.Store
	hub     *notify.Hub
	jwtMgr  *jwt.Manager
	revoker TokenRevoker
	logger  *zap.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(
	cfg *config.Config,
	st *store.Store,
	hub *notify.Hub,
	jwtMgr *jwt.Manager,
	revoker TokenRevoker,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:     cfg,
		store:   st,
		hub:     hub,
		jwtMgr:  jwtMgr,
		revoker: revoker,
		logger:  logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	acc, err := s.authenticate(req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if !acc.Verified() {
		return nil, ErrVerificationPending
	}
	return s.issue(acc)
}

func (s *authService) ConfirmVerification(ctx context.Context, req *dto.VerifyRequest) (*dto.TokenResponse, error) {
	acc, err := s.authenticate(req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if acc.Verified() {
		return s.issue(acc)
	}

	if err := wait(ctx, s.cfg.Billing.VerificationDelay); err != nil {
		return nil, err
	}
	id, err := s.store.PatchIdentity(ctx, acc.ID, func(i *model.Identity) {
		i.IsVerified = model.Bool(true)
	})
	if err != nil {
		if errors.Is(err, store.ErrIdentityNotFound) {
			return nil, ErrAccountNotFound
		}
		s.logger.Error("failed to confirm verification", zap.String("id", acc.ID), zap.Error(err))
		return nil, err
	}
	acc.Identity = id
	s.logger.Info("account verified", zap.String("id", acc.ID))
	return s.issue(acc)
}

func (s *authService) ResendVerification(ctx context.Context, req *dto.ResendVerificationRequest) error {
	acc, ok := s.store.FindByEmail(req.Email)
	if !ok {
		return ErrAccountNotFound
	}
	if err := wait(ctx, s.cfg.Billing.VerificationDelay); err != nil {
		return err
	}
	s.logger.Info("verification link resent", zap.String("id", acc.ID))
	return nil
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	s.hub.Close(claims.ID)
	if s.revoker == nil {
		return nil
	}
	if ttl := claims.Remaining(); ttl > 0 {
		if err := s.revoker.BlacklistToken(ctx, claims.ID, ttl); err != nil {
			s.logger.Error("failed to blacklist token", zap.String("jti", claims.ID), zap.Error(err))
			return fmt.Errorf("revoke session: %w", err)
		}
	}
	return nil
}

func (s *authService) Resolve(stale session.Record) (session.Record, session.Decision) {
	snap := s.store.Snapshot()
	live := session.Resolve(stale, snap.Instructors, snap.Students)
	return live, session.Evaluate(live)
}

func (s *authService) Session(stale session.Record, sessionID string) *dto.SessionResponse {
	live, decision := s.Resolve(stale)
	return &dto.SessionResponse{
		SessionID: sessionID,
		User:      toAccountResponse(live),
		Access: dto.AccessResponse{
			Blocked: decision.Blocked,
			Reason:  string(decision.Reason),
			Message: decision.Message,
		},
	}
}

// authenticate checks the administrator credential first, then the roster.
// Verification is left to the caller.
func (s *authService) authenticate(email, password string) (model.Account, error) {
	auth := s.cfg.Auth
	if model.NormalizeEmail(email) == auth.AdminEmail {
		if len(auth.AdminPasswordHash) == 0 ||
			bcrypt.CompareHashAndPassword(auth.AdminPasswordHash, []byte(password)) != nil {
			return model.Account{}, ErrInvalidCredentials
		}
		return session.Administrator(auth.AdminName, auth.AdminEmail), nil
	}

	acc, ok := s.store.FindByEmail(email)
	if !ok {
		return model.Account{}, ErrAccountNotFound
	}
	if subtle.ConstantTimeCompare([]byte(acc.Password), []byte(password)) != 1 {
		return model.Account{}, ErrInvalidCredentials
	}
	return acc, nil
}

func (s *authService) issue(acc model.Account) (*dto.TokenResponse, error) {
	token, claims, err := s.jwtMgr.GenerateAccessToken(jwt.Subject{
		UserID:    acc.ID,
		Role:      acc.Role.String(),
		Name:      acc.Name,
		Email:     acc.Email,
		TeacherID: acc.TeacherID,

		Status:        string(acc.Status),
		PaymentStatus: string(acc.PaymentStatus),
		LastAIAudit:   acc.LastAIAudit,
	})
	if err != nil {
		s.logger.Error("failed to sign access token", zap.Error(err))
		return nil, err
	}
	s.hub.Open(claims.ID, acc.ID, claims.ExpiresAt.Time)

	return &dto.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		SessionID:   claims.ID,
		User:        toAccountResponse(acc),
	}, nil
}
