package store

import (
	"fmt"
	"os"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/kidoers/pkg/timeutil"
)

// Config locates the store and the defaults commands run with.
type Config interface {
	BasePath() string
	Family() string
	Routine() string
	UndoWindow() time.Duration
}

// LoadConfig reads .kidoers.yaml from $KIDOERS_CONFIG_PATH or the working
// directory, with KIDOERS_* environment overrides.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.kidoers.db")
	viper.SetDefault("family", "default")
	viper.SetDefault("routine", "")
	viper.SetDefault("undo-window", timeutil.DefaultUndoWindow)
	viper.SetConfigName(".kidoers") // .yaml is implicit
	viper.SetEnvPrefix("KIDOERS")
	viper.AutomaticEnv()

	if override := os.Getenv("KIDOERS_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}
	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	window, _, err := timeutil.ParseWindow(viper.GetString("undo-window"))
	if err != nil {
		return nil, fmt.Errorf("store: undo-window: %w", err)
	}
	return &StaticConfig{
		Path:     path,
		FamilyID: viper.GetString("family"),
		Current:  viper.GetString("routine"),
		Window:   window,
	}, nil
}

// StaticConfig is a Config with fixed values.
type StaticConfig struct {
	Path     string
	FamilyID string
	Current  string
	Window   time.Duration
}

func (f *StaticConfig) BasePath() string          { return f.Path }
func (f *StaticConfig) Family() string            { return f.FamilyID }
func (f *StaticConfig) Routine() string           { return f.Current }
func (f *StaticConfig) UndoWindow() time.Duration { return f.Window }
