package driving

import "github.com/custodia-labs/dailybit/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings with environment overrides applied.
	Get() (*domain.AppSettings, error)

	// Set persists a single configuration key.
	Set(key string, value any) error

	// Validate checks that the configured collaborators are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
