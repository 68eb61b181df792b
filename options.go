package modhub

import (
	"time"

	"github.com/modhub/modhub/pkg/catalog"
	"github.com/modhub/modhub/pkg/errors"
)

// Option is a function that configures a Hub instance.
type Option func(*config) error

// config holds hub construction parameters.
type config struct {
	store     catalog.Store
	installs  catalog.InstallState
	refresher catalog.IndexRefresher
	progress  catalog.ProgressSource
	settings  catalog.Settings
	debounce  time.Duration
	reboot    func()
}

func defaultConfig() *config {
	return &config{
		settings: catalog.NewMemorySettings(catalog.OrderByName),
	}
}

// WithStore configures the catalog store. Required.
func WithStore(store catalog.Store) Option {
	return func(c *config) error {
		if store == nil {
			return errors.New("store cannot be nil")
		}
		c.store = store
		return nil
	}
}

// WithInstallState configures the install-state reader. Required.
func WithInstallState(installs catalog.InstallState) Option {
	return func(c *config) error {
		if installs == nil {
			return errors.New("install state cannot be nil")
		}
		c.installs = installs
		return nil
	}
}

// WithRefresher configures the remote index refresher. Required.
func WithRefresher(refresher catalog.IndexRefresher) Option {
	return func(c *config) error {
		if refresher == nil {
			return errors.New("refresher cannot be nil")
		}
		c.refresher = refresher
		return nil
	}
}

// WithProgressSource subscribes the hub to download-progress events for the
// lifetime of the hub.
func WithProgressSource(source catalog.ProgressSource) Option {
	return func(c *config) error {
		c.progress = source
		return nil
	}
}

// WithSettings configures the persisted-settings backend. Defaults to an
// in-memory implementation ordered by name.
func WithSettings(settings catalog.Settings) Option {
	return func(c *config) error {
		if settings == nil {
			return errors.New("settings cannot be nil")
		}
		c.settings = settings
		return nil
	}
}

// WithDebounce configures the search debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(c *config) error {
		if d < 0 {
			return errors.New("debounce cannot be negative")
		}
		c.debounce = d
		return nil
	}
}

// WithRebootAction configures the action behind the installed section's
// header. It is invoked only while at least one installed module is
// locally modified.
func WithRebootAction(fn func()) Option {
	return func(c *config) error {
		c.reboot = fn
		return nil
	}
}
