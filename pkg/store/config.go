package store

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// DefaultPath is where records live when nothing else is configured.
const DefaultPath = "~/.coledit.db"

// Config locates persistence and carries editor settings.
type Config interface {
	BasePath() string
	// Decode unmarshals the settings under key into out (mapstructure tags).
	Decode(key string, out any) error
}

// LoadConfig reads a .coledit.yaml from COLEDIT_CONFIG_PATH or the working
// directory. A missing file is not an error. Any setting can be overridden
// with a COLEDIT_ prefixed environment variable.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", DefaultPath)
	v.SetConfigName(".coledit") // .yaml is implicit
	v.SetEnvPrefix("COLEDIT")
	v.AutomaticEnv()

	if override := os.Getenv("COLEDIT_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}
	return newFileConfig(v)
}

// ConfigFromPath builds a Config for an explicit base path with no file.
func ConfigFromPath(path string) (Config, error) {
	v := viper.New()
	v.Set("path", path)
	return newFileConfig(v)
}

func newFileConfig(v *viper.Viper) (*fileConfig, error) {
	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	return &fileConfig{Path: path, v: v}, nil
}

type fileConfig struct {
	Path string `json:"path"`
	v    *viper.Viper
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) Decode(key string, out any) error {
	if !f.v.IsSet(key) {
		return nil
	}
	if err := f.v.UnmarshalKey(key, out); err != nil {
		return fmt.Errorf("store: decode %s: %w", key, err)
	}
	return nil
}
