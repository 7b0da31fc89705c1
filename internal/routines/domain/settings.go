package domain

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
)

var (
	ErrInvalidTimezone = errors.New("invalid timezone")
	ErrInvalidLocale   = errors.New("invalid locale")
	ErrInvalidEmail    = errors.New("invalid email address")
)

// Locale selects the language of generated messages.
type Locale string

const (
	LocaleKorean  Locale = "ko"
	LocaleEnglish Locale = "en"
)

// ParseLocale accepts ko and en.
func ParseLocale(value string) (Locale, error) {
	locale := Locale(strings.ToLower(strings.TrimSpace(value)))
	switch locale {
	case LocaleKorean, LocaleEnglish:
		return locale, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLocale, value)
	}
}

// UserSettings holds an owner's scheduling preferences.
type UserSettings struct {
	OwnerID      string
	Timezone     string
	ReminderTime sharedDomain.TimeOfDay
	SuggestGoals bool
	Email        string
	Locale       Locale
	CreatedAt    time.Time
}

// SettingsDefaults are applied to owners without stored settings.
type SettingsDefaults struct {
	Timezone     string
	ReminderTime sharedDomain.TimeOfDay
	Locale       Locale
}

// DefaultSettings builds settings for an owner that never saved any.
func DefaultSettings(ownerID string, defaults SettingsDefaults) *UserSettings {
	tz := defaults.Timezone
	if tz == "" {
		tz = sharedDomain.DefaultTimezone
	}
	locale := defaults.Locale
	if locale == "" {
		locale = LocaleKorean
	}
	return &UserSettings{
		OwnerID:      ownerID,
		Timezone:     tz,
		ReminderTime: defaults.ReminderTime,
		SuggestGoals: true,
		Locale:       locale,
		CreatedAt:    time.Now().UTC(),
	}
}

// SetTimezone validates an IANA zone name.
func (s *UserSettings) SetTimezone(tz string) error {
	tz = strings.TrimSpace(tz)
	if _, err := time.LoadLocation(tz); err != nil || tz == "" {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, tz)
	}
	s.Timezone = tz
	return nil
}

// SetEmail validates and stores an address. An empty value clears it.
func (s *UserSettings) SetEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		s.Email = ""
		return nil
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	s.Email = addr.Address
	return nil
}

// Location resolves the timezone, falling back to the default zone.
func (s *UserSettings) Location() *time.Location {
	if loc, err := time.LoadLocation(s.Timezone); err == nil && s.Timezone != "" {
		return loc
	}
	return sharedDomain.DefaultDayBoundary().Location
}

// Boundary returns the owner's day boundary using offset.
func (s *UserSettings) Boundary(offset time.Duration) sharedDomain.DayBoundary {
	return sharedDomain.DayBoundary{Location: s.Location(), Offset: offset}
}
