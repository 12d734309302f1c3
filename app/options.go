package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"bitbucket.org/kleinnic74/dotto/assets"
	"bitbucket.org/kleinnic74/dotto/audio"
	"bitbucket.org/kleinnic74/dotto/logging"
	"bitbucket.org/kleinnic74/dotto/view"
)

// Options is the process configuration, read from config.json and then
// overridden by command-line flags
type Options struct {
	AssetRoot  string           `json:"assetRoot"`
	Width      int              `json:"width"`
	Height     int              `json:"height"`
	Fullscreen bool             `json:"fullscreen"`
	VSync      bool             `json:"vsync"`
	TimestepMs int              `json:"timestepMs"`
	Scene      []view.Placement `json:"scene"`
	Music      string           `json:"music"`
	DebugAddr  string           `json:"debugAddr"`
	Assets     assets.Options   `json:"assets"`
	Audio      audio.Options    `json:"audio"`
	Logging    logging.Options  `json:"logging"`
}

func DefaultOptions() Options {
	return Options{
		AssetRoot:  "res",
		Width:      1280,
		Height:     720,
		TimestepMs: 16,
		Scene:      []view.Placement{{Asset: "dotto"}},
		Assets:     assets.DefaultOptions(),
		Audio:      audio.DefaultOptions(),
		Logging:    logging.DefaultOptions(),
	}
}

// Timestep returns the configured frame duration
func (o Options) Timestep() time.Duration {
	return time.Duration(o.TimestepMs) * time.Millisecond
}

// LoadOptions overlays the JSON file at path onto o. A missing file leaves o
// untouched.
func LoadOptions(path string, o *Options) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, o); err != nil {
		return fmt.Errorf("invalid configuration %s: %w", path, err)
	}
	return o.Validate()
}

// Validate rejects a window size or timestep that is not positive
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", o.Width, o.Height)
	}
	if o.TimestepMs <= 0 {
		return fmt.Errorf("invalid timestep %dms", o.TimestepMs)
	}
	return nil
}
