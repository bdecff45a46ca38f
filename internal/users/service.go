package users

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rythu-saathi/backend/internal/auth"
	"github.com/rythu-saathi/backend/internal/store"
	"github.com/rythu-saathi/backend/internal/svcerr"
)

var (
	// ErrEmailTaken indicates a signup against an already registered email.
	ErrEmailTaken = errors.New("users: email already registered")
	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = errors.New("users: invalid credentials")
	// ErrNotFound indicates the user record does not exist.
	ErrNotFound = errors.New("users: not found")

	errMissingDatabase = errors.New("database handle is required")
	errMissingEmail    = errors.New("email is required")
	errMissingName     = errors.New("name is required")

	noOpLogger = zap.NewNop()
)

const (
	opServiceNew   = "users.service.new"
	opSignUp       = "users.sign_up"
	opAuthenticate = "users.authenticate"
	opGet          = "users.get"
	opUpdate       = "users.update_profile"
	opOnboard      = "users.complete_onboarding"
	opList         = "users.list"

	defaultState = "Telangana"
)

// ServiceConfig describes the dependencies of the account service.
type ServiceConfig struct {
	Database   *gorm.DB
	Clock      func() time.Time
	IDProvider store.IDProvider
	Logger     *zap.Logger
}

// Service owns account creation, credential checks and profile updates.
type Service struct {
	db     *gorm.DB
	clock  func() time.Time
	ids    store.IDProvider
	logger *zap.Logger
}

// NewService constructs the account service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, svcerr.New(opServiceNew, "missing_database", errMissingDatabase)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	ids := cfg.IDProvider
	if ids == nil {
		ids = store.NewUUIDProvider()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{db: cfg.Database, clock: clock, ids: ids, logger: logger}, nil
}

// SignUpRequest carries the fields collected at registration.
type SignUpRequest struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

// SignUp registers a new account. New users start as English-speaking farmers
// in Telangana with onboarding pending, matching the portal defaults.
func (s *Service) SignUp(ctx context.Context, request SignUpRequest) (User, error) {
	email := normalizeEmail(request.Email)
	if email == "" {
		return User{}, svcerr.New(opSignUp, "missing_email", errMissingEmail)
	}
	if normalize(request.Name) == "" {
		return User{}, svcerr.New(opSignUp, "missing_name", errMissingName)
	}

	passwordHash, err := auth.HashPassword(request.Password)
	if err != nil {
		return User{}, svcerr.New(opSignUp, "weak_password", err)
	}

	var existing User
	err = s.db.WithContext(ctx).Where("email = ?", email).Take(&existing).Error
	if err == nil {
		return User{}, svcerr.New(opSignUp, "email_taken", ErrEmailTaken)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logError(opSignUp, "lookup_failed", err)
		return User{}, svcerr.Storage(opSignUp, "lookup_failed", err)
	}

	userID, err := s.ids.NewID()
	if err != nil {
		return User{}, svcerr.New(opSignUp, "id_generation_failed", err)
	}

	user := User{
		ID:           userID,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         normalize(request.Name),
		Phone:        normalize(request.Phone),
		UserType:     UserTypeFarmer,
		Language:     LanguageEnglish,
		State:        defaultState,
		CreatedAt:    s.clock().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		s.logError(opSignUp, "create_failed", err)
		return User{}, svcerr.Storage(opSignUp, "create_failed", err)
	}
	return user, nil
}

// Authenticate verifies the credential pair and returns the account.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, svcerr.New(opAuthenticate, "invalid_credentials", ErrInvalidCredentials)
	}
	if err != nil {
		s.logError(opAuthenticate, "lookup_failed", err)
		return User{}, svcerr.Storage(opAuthenticate, "lookup_failed", err)
	}
	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return User{}, svcerr.New(opAuthenticate, "invalid_credentials", ErrInvalidCredentials)
	}
	return user, nil
}

// Get returns the account for the given id.
func (s *Service) Get(ctx context.Context, userID string) (User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, svcerr.New(opGet, "not_found", ErrNotFound)
	}
	if err != nil {
		s.logError(opGet, "lookup_failed", err)
		return User{}, svcerr.Storage(opGet, "lookup_failed", err)
	}
	return user, nil
}

// ProfileUpdate carries optional profile fields; nil means leave unchanged.
type ProfileUpdate struct {
	Name     *string
	Phone    *string
	UserType *string
	Language *string
	Village  *string
	District *string
	State    *string
}

// UpdateProfile applies a partial profile edit and returns the fresh record.
func (s *Service) UpdateProfile(ctx context.Context, userID string, patch ProfileUpdate) (User, error) {
	updates := map[string]interface{}{}
	if patch.Name != nil && normalize(*patch.Name) != "" {
		updates["name"] = normalize(*patch.Name)
	}
	if patch.Phone != nil {
		updates["phone"] = normalize(*patch.Phone)
	}
	if patch.UserType != nil {
		if !ValidUserType(*patch.UserType) {
			return User{}, svcerr.New(opUpdate, "invalid_user_type", errors.New(*patch.UserType))
		}
		updates["user_type"] = *patch.UserType
	}
	if patch.Language != nil {
		if !ValidLanguage(*patch.Language) {
			return User{}, svcerr.New(opUpdate, "invalid_language", errors.New(*patch.Language))
		}
		updates["language"] = *patch.Language
	}
	if patch.Village != nil {
		updates["village"] = normalize(*patch.Village)
	}
	if patch.District != nil {
		updates["district"] = normalize(*patch.District)
	}
	if patch.State != nil {
		updates["state"] = normalize(*patch.State)
	}

	if len(updates) > 0 {
		result := s.db.WithContext(ctx).Model(&User{}).
			Where("user_id = ?", userID).
			Updates(updates)
		if result.Error != nil {
			s.logError(opUpdate, "update_failed", result.Error)
			return User{}, svcerr.Storage(opUpdate, "update_failed", result.Error)
		}
		if result.RowsAffected == 0 {
			return User{}, svcerr.New(opUpdate, "not_found", ErrNotFound)
		}
	}
	return s.Get(ctx, userID)
}

// CompleteOnboarding records the onboarding answers and flips the gate.
func (s *Service) CompleteOnboarding(ctx context.Context, userID string, patch ProfileUpdate) (User, error) {
	if _, err := s.UpdateProfile(ctx, userID, patch); err != nil {
		return User{}, err
	}
	err := s.db.WithContext(ctx).Model(&User{}).
		Where("user_id = ?", userID).
		Update("onboarding_complete", true).Error
	if err != nil {
		s.logError(opOnboard, "update_failed", err)
		return User{}, svcerr.Storage(opOnboard, "update_failed", err)
	}
	return s.Get(ctx, userID)
}

// List returns every account, oldest first, for the notification sweep.
func (s *Service) List(ctx context.Context) ([]User, error) {
	var accounts []User
	err := s.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&accounts).Error
	if err != nil {
		s.logError(opList, "query_failed", err)
		return nil, svcerr.Storage(opList, "query_failed", err)
	}
	return accounts, nil
}

func (s *Service) logError(operation, reason string, err error) {
	s.logger.Error("users service error",
		zap.String("operation", operation),
		zap.String("reason", reason),
		zap.Error(err))
}
