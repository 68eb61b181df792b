package cmd

import (
	"github.com/spf13/viper"

	"github.com/modhub/modhub"
	"github.com/modhub/modhub/internal/index"
	"github.com/modhub/modhub/internal/install"
	"github.com/modhub/modhub/internal/store"
	"github.com/modhub/modhub/pkg/catalog"
)

// viperSettings persists the remote ordering through the viper config file.
type viperSettings struct{}

// Order returns the persisted remote-section ordering.
func (viperSettings) Order() catalog.Order {
	return catalog.ParseOrder(viper.GetString("order"))
}

// SetOrder persists a new remote-section ordering.
func (viperSettings) SetOrder(order catalog.Order) error {
	viper.Set("order", order.String())
	if err := viper.WriteConfig(); err != nil {
		// No config file yet; create one rather than fail the toggle.
		return viper.SafeWriteConfig()
	}
	return nil
}

// buildHub assembles the engine from configuration.
func buildHub() (modhub.Hub, error) {
	st := store.New(store.WithPageSize(viper.GetInt("page_size")))
	idx := index.New(viper.GetString("index_url"), st)

	return modhub.New(
		modhub.WithStore(st),
		modhub.WithInstallState(install.New(viper.GetString("modules_dir"))),
		modhub.WithRefresher(idx),
		modhub.WithSettings(viperSettings{}),
	)
}
