package users

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type staticIDGenerator struct {
	ids   []string
	index int
}

func (g *staticIDGenerator) NewID() (string, error) {
	if g.index >= len(g.ids) {
		return "", errors.New("exhausted ids")
	}
	id := g.ids[g.index]
	g.index++
	return id, nil
}

func newTestService(t *testing.T, ids []string) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:saathi_users_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	service, err := NewService(ServiceConfig{
		Database:   db,
		Clock:      func() time.Time { return time.Unix(1700000600, 0).UTC() },
		IDProvider: &staticIDGenerator{ids: ids},
	})
	if err != nil {
		t.Fatalf("failed to construct users service: %v", err)
	}
	return service
}

func TestSignUpAppliesPortalDefaults(t *testing.T) {
	service := newTestService(t, []string{"user-1"})

	user, err := service.SignUp(context.Background(), SignUpRequest{
		Email:    " Farmer@Example.COM ",
		Password: "sunflower",
		Name:     "Ravi",
		Phone:    "9000000001",
	})
	if err != nil {
		t.Fatalf("unexpected signup error: %v", err)
	}

	if user.ID != "user-1" {
		t.Fatalf("unexpected user id %s", user.ID)
	}
	if user.Email != "farmer@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}
	if user.UserType != UserTypeFarmer {
		t.Fatalf("expected farmer default, got %s", user.UserType)
	}
	if user.Language != LanguageEnglish {
		t.Fatalf("expected english default, got %s", user.Language)
	}
	if user.State != "Telangana" {
		t.Fatalf("expected Telangana default, got %s", user.State)
	}
	if user.OnboardingComplete {
		t.Fatalf("expected onboarding pending")
	}
	if user.PasswordHash == "sunflower" || user.PasswordHash == "" {
		t.Fatalf("expected hashed password")
	}
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	service := newTestService(t, []string{"user-1", "user-2"})
	ctx := context.Background()

	request := SignUpRequest{Email: "farmer@example.com", Password: "sunflower", Name: "Ravi"}
	if _, err := service.SignUp(ctx, request); err != nil {
		t.Fatalf("unexpected signup error: %v", err)
	}

	_, err := service.SignUp(ctx, request)
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignUpRejectsShortPassword(t *testing.T) {
	service := newTestService(t, []string{"user-1"})

	_, err := service.SignUp(context.Background(), SignUpRequest{
		Email:    "farmer@example.com",
		Password: "abc",
		Name:     "Ravi",
	})
	if err == nil {
		t.Fatalf("expected error for short password")
	}
}

func TestAuthenticateVerifiesCredentials(t *testing.T) {
	service := newTestService(t, []string{"user-1"})
	ctx := context.Background()

	if _, err := service.SignUp(ctx, SignUpRequest{
		Email:    "farmer@example.com",
		Password: "sunflower",
		Name:     "Ravi",
	}); err != nil {
		t.Fatalf("unexpected signup error: %v", err)
	}

	user, err := service.Authenticate(ctx, "FARMER@example.com", "sunflower")
	if err != nil {
		t.Fatalf("expected successful login: %v", err)
	}
	if user.ID != "user-1" {
		t.Fatalf("unexpected user id %s", user.ID)
	}

	_, err = service.Authenticate(ctx, "farmer@example.com", "wrong-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}

	_, err = service.Authenticate(ctx, "stranger@example.com", "sunflower")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestUpdateProfileAppliesPartialPatch(t *testing.T) {
	service := newTestService(t, []string{"user-1"})
	ctx := context.Background()

	if _, err := service.SignUp(ctx, SignUpRequest{
		Email:    "farmer@example.com",
		Password: "sunflower",
		Name:     "Ravi",
	}); err != nil {
		t.Fatalf("unexpected signup error: %v", err)
	}

	gardener := "gardener"
	telugu := "te"
	village := "Siddipet"
	user, err := service.UpdateProfile(ctx, "user-1", ProfileUpdate{
		UserType: &gardener,
		Language: &telugu,
		Village:  &village,
	})
	if err != nil {
		t.Fatalf("unexpected update error: %v", err)
	}
	if user.UserType != UserTypeGardener || user.Language != LanguageTelugu || user.Village != "Siddipet" {
		t.Fatalf("expected patched fields, got %#v", user)
	}
	if user.Name != "Ravi" {
		t.Fatalf("expected untouched name, got %s", user.Name)
	}
}

func TestUpdateProfileRejectsUnknownUserType(t *testing.T) {
	service := newTestService(t, []string{"user-1"})
	ctx := context.Background()

	if _, err := service.SignUp(ctx, SignUpRequest{
		Email:    "farmer@example.com",
		Password: "sunflower",
		Name:     "Ravi",
	}); err != nil {
		t.Fatalf("unexpected signup error: %v", err)
	}

	invalid := "astronaut"
	if _, err := service.UpdateProfile(ctx, "user-1", ProfileUpdate{UserType: &invalid}); err == nil {
		t.Fatalf("expected error for unknown user type")
	}
}

func TestCompleteOnboardingFlipsGate(t *testing.T) {
	service := newTestService(t, []string{"user-1"})
	ctx := context.Background()

	if _, err := service.SignUp(ctx, SignUpRequest{
		Email:    "farmer@example.com",
		Password: "sunflower",
		Name:     "Ravi",
	}); err != nil {
		t.Fatalf("unexpected signup error: %v", err)
	}

	district := "Warangal"
	user, err := service.CompleteOnboarding(ctx, "user-1", ProfileUpdate{District: &district})
	if err != nil {
		t.Fatalf("unexpected onboarding error: %v", err)
	}
	if !user.OnboardingComplete {
		t.Fatalf("expected onboarding complete")
	}
	if user.District != "Warangal" {
		t.Fatalf("expected district recorded, got %s", user.District)
	}
}

func TestGetMissingUserReturnsNotFound(t *testing.T) {
	service := newTestService(t, nil)

	_, err := service.Get(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListReturnsEveryAccount(t *testing.T) {
	service := newTestService(t, []string{"user-1", "user-2"})
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		if _, err := service.SignUp(ctx, SignUpRequest{
			Email:    fmt.Sprintf("farmer%d@example.com", i),
			Password: "sunflower",
			Name:     fmt.Sprintf("Farmer %d", i),
		}); err != nil {
			t.Fatalf("unexpected signup error: %v", err)
		}
	}

	accounts, err := service.List(ctx)
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
}
