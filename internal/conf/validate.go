// conf/validate.go settings validation
package conf

import (
	"time"

	"github.com/patiwat/firewatch-go/internal/errors"
)

// ValidateSettings checks the loaded settings for values that would make the
// pipeline misbehave silently.
func ValidateSettings(s *Settings) error {
	if err := validateFeed(&s.Feed); err != nil {
		return err
	}
	if err := validatePass(&s.Pass); err != nil {
		return err
	}
	if err := validateStore(&s.Store); err != nil {
		return err
	}
	if err := validateNotify(&s.Notify); err != nil {
		return err
	}
	if s.Monitor.Interval < 1 {
		return errors.Newf("monitor interval must be at least 1 minute, got %d", s.Monitor.Interval).
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}
	return nil
}

func validateFeed(f *FeedSettings) error {
	switch f.Provider {
	case "firms", "gistda":
	default:
		return errors.Newf("invalid feed provider: %s", f.Provider).
			Component("conf").
			Category(errors.CategoryValidation).
			Context("provider", f.Provider).
			Build()
	}
	if f.LookbackDays < 1 || f.LookbackDays > 10 {
		return errors.Newf("feed lookback days must be 1-10, got %d", f.LookbackDays).
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}
	if f.Provider == "firms" && len(f.FIRMS.Sensors) == 0 {
		return errors.Newf("at least one FIRMS sensor is required").
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}
	return nil
}

func validatePass(p *PassSettings) error {
	if _, err := time.LoadLocation(p.Timezone); err != nil {
		// Settings.Location falls back to fixed UTC+7, but an unknown zone
		// name in config is almost certainly a typo worth failing on.
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryValidation).
			Context("timezone", p.Timezone).
			Build()
	}
	for _, w := range []WindowConfig{p.Night, p.Afternoon} {
		if w.Start < 0 || w.End > 24 || w.Start >= w.End {
			return errors.Newf("invalid pass window [%d,%d)", w.Start, w.End).
				Component("conf").
				Category(errors.CategoryValidation).
				Build()
		}
	}
	return nil
}

func validateStore(st *StoreSettings) error {
	switch st.Type {
	case "memory", "sqlite":
	default:
		return errors.Newf("invalid store type: %s", st.Type).
			Component("conf").
			Category(errors.CategoryValidation).
			Context("type", st.Type).
			Build()
	}
	if st.Type == "sqlite" && st.Path == "" {
		return errors.Newf("sqlite store requires a path").
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}
	return nil
}

func validateNotify(n *NotifySettings) error {
	if n.Enabled && len(n.URLs) == 0 {
		return errors.Newf("notifications enabled but no delivery URLs configured").
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}
	if n.MaxCoordinateLines < 0 {
		return errors.Newf("maxcoordinatelines must not be negative").
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}
	return nil
}
