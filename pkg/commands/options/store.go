// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/coledit/pkg/store"
)

// StoreOptions selects where records live.
type StoreOptions struct {
	// Path overrides the configured store path when set.
	Path string
}

// AddStoreArgs wires the store path flag.
func AddStoreArgs(cmd *cobra.Command, o *StoreOptions) {
	cmd.Flags().StringVar(&o.Path, "store", "",
		"Store directory. Defaults to the configured path or "+store.DefaultPath+".")
}

// Config loads the configuration, applying the path override.
func (o *StoreOptions) Config() (store.Config, error) {
	if o.Path != "" {
		return store.ConfigFromPath(o.Path)
	}
	return store.LoadConfig()
}

// Load opens the store.
func (o *StoreOptions) Load() (store.Persistence, error) {
	cfg, err := o.Config()
	if err != nil {
		return nil, err
	}
	return store.Load(cfg)
}

// CollectionOptions captures the collection selection flags.
type CollectionOptions struct {
	Collection string
}

// AddCollectionArgs wires the collection flag on the provided command.
func AddCollectionArgs(cmd *cobra.Command, o *CollectionOptions, def string) {
	cmd.Flags().StringVarP(&o.Collection, "collection", "c", def,
		"Specify the collection.")
}
