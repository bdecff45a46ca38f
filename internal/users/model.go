package users

import (
	"strings"
	"time"
)

// UserType distinguishes the two portal audiences.
type UserType string

const (
	// UserTypeFarmer marks commercial growers.
	UserTypeFarmer UserType = "farmer"
	// UserTypeGardener marks home gardeners.
	UserTypeGardener UserType = "gardener"
)

// Language enumerates the portal languages.
type Language string

const (
	// LanguageEnglish is the default portal language.
	LanguageEnglish Language = "en"
	// LanguageTelugu is the regional portal language.
	LanguageTelugu Language = "te"
)

// User is the canonical account record. The password hash never leaves the
// package boundary in API payloads.
type User struct {
	ID                 string    `gorm:"column:user_id;primaryKey;size:190;not null" json:"id"`
	Email              string    `gorm:"column:email;size:320;uniqueIndex;not null" json:"email"`
	PasswordHash       string    `gorm:"column:password_hash;size:190;not null" json:"-"`
	Name               string    `gorm:"column:name;size:190;not null" json:"name"`
	Phone              string    `gorm:"column:phone;size:32" json:"phone,omitempty"`
	UserType           UserType  `gorm:"column:user_type;size:16;not null;default:farmer" json:"userType"`
	Language           Language  `gorm:"column:language;size:8;not null;default:en" json:"language"`
	Village            string    `gorm:"column:village;size:190" json:"village"`
	District           string    `gorm:"column:district;size:190" json:"district"`
	State              string    `gorm:"column:state;size:190" json:"state"`
	OnboardingComplete bool      `gorm:"column:onboarding_complete;not null;default:false" json:"onboardingComplete"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName exposes the table backing user accounts.
func (User) TableName() string {
	return "users"
}

func normalize(value string) string {
	return strings.TrimSpace(value)
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// ValidUserType reports whether the raw value names a known user type.
func ValidUserType(value string) bool {
	switch UserType(value) {
	case UserTypeFarmer, UserTypeGardener:
		return true
	}
	return false
}

// ValidLanguage reports whether the raw value names a supported language.
func ValidLanguage(value string) bool {
	switch Language(value) {
	case LanguageEnglish, LanguageTelugu:
		return true
	}
	return false
}
