package usecase

import (
	"context"
	"strings"
	"time"

	"health-info-api/config"
	"health-info-api/internal/converter"
	"health-info-api/internal/delivery/dto"
	"health-info-api/internal/domain/entity"
	"health-info-api/internal/domain/repository"
	"health-info-api/internal/service"
	"health-info-api/pkg/jwt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	VerifyAccount(ctx context.Context, token string) (*dto.VerifyResponse, error)
	RequestVerificationEmail(ctx context.Context, email string) (*dto.EmailDispatchResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, tokenID string) error
	RequestPasswordReset(ctx context.Context, email string) (*dto.EmailDispatchResponse, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	EnsureAdmin(ctx context.Context, email, password string) error
}

type authUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	cfg               config.AuthConfig
	userRepo          repository.UserRepository
	clientProfileRepo repository.ClientProfileRepository
	auditService      service.AuditService
	sessionService    service.SessionService
	mailService       service.MailService
	jwtService        *jwt.JWTService
	now               func() time.Time
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg config.AuthConfig,
	userRepo repository.UserRepository,
	clientProfileRepo repository.ClientProfileRepository,
	auditService service.AuditService,
	sessionService service.SessionService,
	mailService service.MailService,
	jwtService *jwt.JWTService,
) AuthUsecase {
	return &authUsecase{
		db:                db,
		log:               log,
		cfg:               cfg,
		userRepo:          userRepo,
		clientProfileRepo: clientProfileRepo,
		auditService:      auditService,
		sessionService:    sessionService,
		mailService:       mailService,
		jwtService:        jwtService,
		now:               time.Now,
	}
}

func (u *authUsecase) hashPassword(password string) (string, error) {
	cost := u.cfg.BcryptCost
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Register creates a verified client account together with its profile.
func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := strings.TrimSpace(req.Email)
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	gender := strings.TrimSpace(req.Gender)
	if email == "" || req.Password == "" || firstName == "" || lastName == "" || gender == "" {
		return nil, ErrMissingFields
	}

	hashedPassword, err := u.hashPassword(req.Password)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	exists, err := u.userRepo.ExistsByEmail(tx, email)
	if err != nil {
		u.log.Warnf("Failed to check email: %+v", err)
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	user := &entity.User{
		UserID:       newUserID(),
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         entity.RoleClient,
		ImageURL:     req.ImageURL,
		IsActive:     true,
		IsVerified:   true,
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	profile := &entity.ClientProfile{
		UserID:    user.UserID,
		FirstName: firstName,
		LastName:  lastName,
		Gender:    gender,
		Phone:     req.Phone,
		Address:   req.Address,
	}

	if err := u.clientProfileRepo.Create(tx, profile); err != nil {
		u.log.Warnf("Failed to create client profile: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, &user.UserID, entity.AuditActionUserRegister, "user", user.UserID, map[string]interface{}{
		"email": user.Email,
		"role":  user.Role,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return &dto.RegisterResponse{UserID: user.UserID}, nil
}

func (u *authUsecase) VerifyAccount(ctx context.Context, token string) (*dto.VerifyResponse, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidVerificationToken
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByVerificationToken(tx.Clauses(clause.Locking{Strength: "UPDATE"}), token, u.now())
	if err != nil {
		u.log.Warnf("Failed to find user by verification token: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidVerificationToken
	}
	if user.IsVerified {
		return &dto.VerifyResponse{AlreadyVerified: true}, nil
	}

	if err := u.userRepo.Update(tx, user.UserID, map[string]interface{}{
		"is_verified":                   true,
		"verification_token":            nil,
		"verification_token_expires_at": nil,
	}); err != nil {
		u.log.Warnf("Failed to verify user: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &user.UserID, entity.AuditActionUserVerify, "user", user.UserID,
		map[string]interface{}{"is_verified": false},
		map[string]interface{}{"is_verified": true},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return &dto.VerifyResponse{AlreadyVerified: false}, nil
}

// RequestVerificationEmail issues a fresh verification token and mails it.
// A mail failure is reported in the status and does not fail the call.
func (u *authUsecase) RequestVerificationEmail(ctx context.Context, email string) (*dto.EmailDispatchResponse, error) {
	db := u.db.WithContext(ctx)

	user, err := u.userRepo.FindByEmail(db, strings.TrimSpace(email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.IsVerified {
		return nil, ErrAlreadyVerified
	}

	token, err := generateToken()
	if err != nil {
		u.log.Warnf("Failed to generate verification token: %+v", err)
		return nil, err
	}
	expiresAt := u.now().Add(u.cfg.VerificationTokenTTL)

	if err := u.userRepo.Update(db, user.UserID, map[string]interface{}{
		"verification_token":            token,
		"verification_token_expires_at": expiresAt,
	}); err != nil {
		u.log.Warnf("Failed to store verification token: %+v", err)
		return nil, err
	}

	status := u.mailService.SendVerificationEmail(ctx, user.Email, token)
	return &dto.EmailDispatchResponse{EmailStatus: status}, nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), strings.TrimSpace(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUnknownEmail
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrWrongPassword
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	subject := jwt.Subject{
		UserID: user.UserID,
		Email:  user.Email,
		Role:   user.Role,
	}
	if user.ImageURL != nil {
		subject.ImageURL = *user.ImageURL
	}

	token, tokenID, err := u.jwtService.GenerateToken(subject)
	if err != nil {
		u.log.Warnf("Failed to generate token: %+v", err)
		return nil, err
	}

	if err := u.sessionService.Register(ctx, user.UserID, tokenID, u.jwtService.Expiry()); err != nil {
		u.log.Warnf("Failed to register session: %+v", err)
		return nil, err
	}

	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: u.now().Add(u.jwtService.Expiry()),
		User:      *converter.UserToResponse(user),
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, tokenID string) error {
	if err := u.sessionService.Revoke(ctx, tokenID); err != nil {
		u.log.Warnf("Failed to revoke session: %+v", err)
		return err
	}
	return nil
}

// RequestPasswordReset issues a single-use reset token and mails it.
func (u *authUsecase) RequestPasswordReset(ctx context.Context, email string) (*dto.EmailDispatchResponse, error) {
	db := u.db.WithContext(ctx)

	user, err := u.userRepo.FindByEmail(db, strings.TrimSpace(email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	token, err := generateToken()
	if err != nil {
		u.log.Warnf("Failed to generate reset token: %+v", err)
		return nil, err
	}
	expiresAt := u.now().Add(u.cfg.ResetTokenTTL)

	if err := u.userRepo.Update(db, user.UserID, map[string]interface{}{
		"password_reset_token":      token,
		"password_reset_expires_at": expiresAt,
	}); err != nil {
		u.log.Warnf("Failed to store reset token: %+v", err)
		return nil, err
	}

	status := u.mailService.SendPasswordResetEmail(ctx, user.Email, token)
	return &dto.EmailDispatchResponse{EmailStatus: status}, nil
}

// ResetPassword consumes a reset token and signs the user out everywhere.
func (u *authUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	if strings.TrimSpace(token) == "" {
		return ErrInvalidResetToken
	}
	if newPassword == "" {
		return ErrMissingFields
	}

	hashedPassword, err := u.hashPassword(newPassword)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByResetToken(tx.Clauses(clause.Locking{Strength: "UPDATE"}), token, u.now())
	if err != nil {
		u.log.Warnf("Failed to find user by reset token: %+v", err)
		return err
	}
	if user == nil {
		return ErrInvalidResetToken
	}

	if err := u.userRepo.Update(tx, user.UserID, map[string]interface{}{
		"password_hash":             hashedPassword,
		"password_reset_token":      nil,
		"password_reset_expires_at": nil,
	}); err != nil {
		u.log.Warnf("Failed to reset password: %+v", err)
		return err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &user.UserID, entity.AuditActionPasswordReset, "user", user.UserID, nil, nil); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	if err := u.sessionService.RevokeAll(ctx, user.UserID); err != nil {
		u.log.Warnf("Failed to revoke sessions after password reset: %+v", err)
	}

	return nil
}

// EnsureAdmin creates the bootstrap administrator when no account with the
// given email exists yet. Empty credentials disable seeding.
func (u *authUsecase) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil
	}

	db := u.db.WithContext(ctx)
	exists, err := u.userRepo.ExistsByEmail(db, email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hashedPassword, err := u.hashPassword(password)
	if err != nil {
		return err
	}

	admin := &entity.User{
		UserID:       newUserID(),
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         entity.RoleAdmin,
		IsActive:     true,
		IsVerified:   true,
	}
	if err := u.userRepo.Create(db, admin); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil
		}
		return err
	}

	u.log.Infof("Seeded admin account %s", email)
	return nil
}
