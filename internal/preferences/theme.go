package preferences

import (
	"context"

	"credit-risk-workers/internal/common/logger"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"

	DefaultTheme = ThemeDark
)

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// ParseTheme accepts "dark" and "light"; anything else is the default.
func ParseTheme(s string) Theme {
	switch Theme(s) {
	case ThemeDark, ThemeLight:
		return Theme(s)
	default:
		return DefaultTheme
	}
}

// Themes reads and writes the theme preference per visitor.
type Themes struct {
	store  Store
	logger logger.Logger
}

func NewThemes(store Store, log logger.Logger) *Themes {
	return &Themes{store: store, logger: log}
}

func themeKey(visitorID string) string {
	return "theme:" + visitorID
}

// Get returns the visitor's theme. Store failures degrade to the default so
// a preference outage never breaks the page.
func (t *Themes) Get(ctx context.Context, visitorID string) Theme {
	if visitorID == "" {
		return DefaultTheme
	}
	v, ok, err := t.store.Get(ctx, themeKey(visitorID))
	if err != nil {
		t.logger.Warn("theme lookup failed", map[string]interface{}{"visitorId": visitorID, "error": err})
		return DefaultTheme
	}
	if !ok {
		return DefaultTheme
	}
	return ParseTheme(v)
}

// Set persists theme for the visitor.
func (t *Themes) Set(ctx context.Context, visitorID string, theme Theme) error {
	return t.store.Set(ctx, themeKey(visitorID), string(ParseTheme(string(theme))))
}

// Toggle flips and persists the visitor's theme and returns the new value.
// When persisting fails the new value is still returned with the error.
func (t *Themes) Toggle(ctx context.Context, visitorID string) (Theme, error) {
	next := t.Get(ctx, visitorID).Toggle()
	if err := t.Set(ctx, visitorID, next); err != nil {
		t.logger.Warn("theme persist failed", map[string]interface{}{"visitorId": visitorID, "error": err})
		return next, err
	}
	return next, nil
}
