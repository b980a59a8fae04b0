package impl

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"foodorder/config"
	deliverycontext "foodorder/internal/delivery/context"
	"foodorder/internal/domain/entity"
	domainerrors "foodorder/internal/domain/errors"
	"foodorder/internal/domain/lifecycle"
	"foodorder/internal/domain/repository"
	"foodorder/internal/domain/service"
	"foodorder/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	tokenTypeBearer       = "Bearer"
	defaultResendCooldown = time.Minute
)

// authService implements the AuthUsecase interface.
type authService struct {
	userRepo       repository.UserRepository
	hasher         service.PasswordHasher
	tokenService   service.TokenService
	mailer         service.Mailer
	verifyBaseURL  string
	resendCooldown time.Duration
	now            func() time.Time
	dispatch       func(func()) // runs fire-and-forget work
	logger         *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Mailer       service.Mailer
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return newAuthService(params)
}

func newAuthService(params AuthServiceParams) *authService {
	cooldown := defaultResendCooldown
	verifyBaseURL := ""
	if params.Config != nil && params.Config.Auth != nil {
		if params.Config.Auth.ResendCooldown > 0 {
			cooldown = params.Config.Auth.ResendCooldown
		}
		verifyBaseURL = params.Config.Auth.VerifyBaseURL
	}

	return &authService{
		userRepo:       params.UserRepo,
		hasher:         params.Hasher,
		tokenService:   params.TokenService,
		mailer:         params.Mailer,
		verifyBaseURL:  verifyBaseURL,
		resendCooldown: cooldown,
		now:            time.Now,
		dispatch:       func(fn func()) { go fn() },
		logger:         params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Signup creates an unverified user and mails the verification link.
func (srv *authService) Signup(ctx context.Context, input usecase.SignupInput) (*entity.User, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("email and password are required"))
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during signup", slog.Any("error", err))

		return nil, errors.WithStack(domainerrors.ErrPasswordHashFailed)
	}

	now := srv.now()
	user := &entity.User{
		Email:              email,
		Name:               input.Name,
		PasswordHash:       hash,
		Role:               entity.RoleUser,
		VerificationSentAt: &now,
	}
	if err := srv.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to create user during signup")
	}

	srv.log(ctx).Info("User signed up", slog.String("userID", user.ID.String()))
	srv.sendVerification(ctx, user)

	return user, nil
}

// VerifyEmail marks the address of a valid verification token as verified.
func (srv *authService) VerifyEmail(ctx context.Context, token string) (*entity.User, error) {
	email, err := srv.tokenService.ParseVerification(token)
	if err != nil {
		return nil, err
	}

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.WithStack(domainerrors.ErrInvalidToken)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user for verification")
	}
	if user.Verified {
		return nil, errors.WithStack(domainerrors.ErrAlreadyVerified)
	}

	now := srv.now()
	if err := srv.userRepo.MarkVerified(ctx, user.ID, now); err != nil {
		return nil, errors.Wrap(err, "failed to mark user verified")
	}
	user.Verified = true
	user.VerifiedAt = &now

	srv.log(ctx).Info("Email verified", slog.String("userID", user.ID.String()))

	return user, nil
}

// ResendVerification mails a new link unless the cooldown is still running.
func (srv *authService) ResendVerification(ctx context.Context, email string) error {
	user, err := srv.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.log(ctx).Debug("Verification resend for unknown email")

		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to load user for verification resend")
	}
	if user.Verified {
		return errors.WithStack(domainerrors.ErrAlreadyVerified)
	}

	now := srv.now()
	if user.VerificationSentAt != nil && now.Sub(*user.VerificationSentAt) < srv.resendCooldown {
		return errors.WithStack(domainerrors.ErrResendCooldown)
	}

	if err := srv.userRepo.TouchVerificationSent(ctx, user.ID, now); err != nil {
		return errors.Wrap(err, "failed to record verification resend")
	}
	srv.sendVerification(ctx, user)

	return nil
}

// sendVerification mails the link without blocking the request; failures are logged only.
func (srv *authService) sendVerification(ctx context.Context, user *entity.User) {
	token, err := srv.tokenService.IssueVerification(user.Email)
	if err != nil {
		srv.log(ctx).Error("Failed to issue verification token", slog.Any("error", err))

		return
	}
	link := srv.verificationLink(token)
	logger := srv.log(ctx)
	detached := context.WithoutCancel(ctx)

	srv.dispatch(func() {
		sendCtx, cancel := context.WithTimeout(detached, lifecycle.DefaultTimeout)
		defer cancel()

		if err := srv.mailer.SendVerification(sendCtx, user.Email, user.Name, link); err != nil {
			logger.Error("Failed to send verification email", slog.String("userID", user.ID.String()), slog.Any("error", err))
		}
	})
}

func (srv *authService) verificationLink(token string) string {
	return srv.verifyBaseURL + "?token=" + url.QueryEscape(token)
}

// Login checks the credentials and issues a session token.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, normalizeEmail(input.Email))
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.WithStack(domainerrors.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user for login")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login with wrong password", slog.String("userID", user.ID.String()))

		return nil, errors.WithStack(domainerrors.ErrInvalidCredentials)
	}
	if user.Disabled {
		return nil, errors.WithStack(domainerrors.ErrAccountDisabled)
	}
	if !user.Verified {
		return nil, errors.WithStack(domainerrors.ErrEmailNotVerified)
	}

	token, expiresAt, err := srv.tokenService.IssueSession(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue session token")
	}

	srv.log(ctx).Info("User logged in", slog.String("userID", user.ID.String()))

	return &usecase.LoginOutput{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// Authenticate validates a session token against the live user record.
// The user is read from the primary so a revocation is visible at once.
func (srv *authService) Authenticate(ctx context.Context, token string) (*entity.Identity, error) {
	claims, err := srv.tokenService.ParseSession(token)
	if err != nil {
		return nil, err
	}

	user, err := srv.userRepo.FindByEmailForAuth(ctx, claims.Subject)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.WithStack(domainerrors.ErrAuthUserNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user for authentication")
	}

	if user.Disabled {
		return nil, errors.WithStack(domainerrors.ErrAccountDisabled)
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, errors.WithStack(domainerrors.ErrTokenRevoked)
	}

	return entity.IdentityFromUser(user), nil
}

// Me returns the caller's account.
func (srv *authService) Me(ctx context.Context, identity *entity.Identity) (*entity.User, error) {
	if identity == nil {
		return nil, errors.WithStack(domainerrors.ErrForbidden)
	}

	user, err := srv.userRepo.FindByID(ctx, identity.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.WithStack(domainerrors.ErrUserNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load current user")
	}

	return user, nil
}
