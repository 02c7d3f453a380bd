package pixeldeck

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/ajanata/pixeldeck/internal/input"
	"github.com/ajanata/pixeldeck/internal/mirror"
	"github.com/ajanata/pixeldeck/internal/spotify"
)

type Config struct {
	Mode    string        `mapstructure:"mode"`
	Log     LogConfig     `mapstructure:"log"`
	Display DisplayConfig `mapstructure:"display"`
	GPIO    GPIOConfig    `mapstructure:"gpio"`
	Spotify SpotifyConfig `mapstructure:"spotify"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// File is where logs go. Empty means stderr, except in simulated mode which defaults to DefaultLogFile.
	File string `mapstructure:"file"`
}

type DisplayConfig struct {
	Rows            int    `mapstructure:"rows"`
	Cols            int    `mapstructure:"cols"`
	Chain           int    `mapstructure:"chain"`
	Parallel        int    `mapstructure:"parallel"`
	Brightness      int    `mapstructure:"brightness"`
	HardwareMapping string `mapstructure:"hardware_mapping"`
	Mirror          string `mapstructure:"mirror"`
	// Framerate paces the simulated display. Hardware is paced by vsync.
	Framerate uint `mapstructure:"framerate"`
}

type GPIOConfig struct {
	Clock  string `mapstructure:"clock"`
	Data   string `mapstructure:"data"`
	Switch string `mapstructure:"switch"`
}

type SpotifyConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
	TokenCache   string `mapstructure:"token_cache"`
	Market       string `mapstructure:"market"`
}

// DefaultLogFile is used in simulated mode when no log file is configured.
const DefaultLogFile = "pixeldeck.log"

// SetDefaults registers every key with its default, which also lets environment variables override keys
// that appear in no config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("mode", ModeSimulated.String())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("display.rows", 32)
	v.SetDefault("display.cols", 64)
	v.SetDefault("display.chain", 1)
	v.SetDefault("display.parallel", 1)
	v.SetDefault("display.brightness", 100)
	v.SetDefault("display.hardware_mapping", "regular")
	v.SetDefault("display.mirror", mirror.None.String())
	v.SetDefault("display.framerate", 60)
	v.SetDefault("gpio.clock", input.DefaultPins.Clock)
	v.SetDefault("gpio.data", input.DefaultPins.Data)
	v.SetDefault("gpio.switch", input.DefaultPins.Switch)
	v.SetDefault("spotify.client_id", "")
	v.SetDefault("spotify.client_secret", "")
	v.SetDefault("spotify.redirect_url", "http://localhost:8888/callback")
	v.SetDefault("spotify.token_cache", ".spotify_token_cache.json")
	v.SetDefault("spotify.market", "NL")
}

// LoadConfig decodes v and validates the result.
func LoadConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if _, err := ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	if _, err := mirror.ParseAxis(c.Display.Mirror); err != nil {
		errs = append(errs, err)
	}
	if c.Display.Rows <= 0 || c.Display.Cols <= 0 {
		errs = append(errs, fmt.Errorf("display size %dx%d", c.Display.Cols, c.Display.Rows))
	}
	if c.Display.Chain <= 0 || c.Display.Parallel <= 0 {
		errs = append(errs, errors.New("display chain and parallel must be at least 1"))
	}
	if c.Display.Brightness < 1 || c.Display.Brightness > 100 {
		errs = append(errs, fmt.Errorf("brightness %d out of 1..100", c.Display.Brightness))
	}
	if c.Display.Framerate == 0 {
		errs = append(errs, errors.New("framerate must be at least 1"))
	}
	if c.GPIO.Clock == "" || c.GPIO.Data == "" || c.GPIO.Switch == "" {
		errs = append(errs, errors.New("all three gpio pins must be named"))
	}
	if c.Spotify.TokenCache == "" {
		errs = append(errs, errors.New("spotify token cache path is empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// ParsedMode returns the validated mode.
func (c Config) ParsedMode() Mode {
	m, _ := ParseMode(c.Mode)
	return m
}

// LogFile is where logs go for this configuration.
func (c Config) LogFile() string {
	if c.Log.File == "" && c.ParsedMode() == ModeSimulated {
		return DefaultLogFile
	}
	return c.Log.File
}

// Width is the panel width in pixels across the whole chain.
func (d DisplayConfig) Width() int {
	return d.Cols * d.Chain
}

// Height is the panel height in pixels across all parallel chains.
func (d DisplayConfig) Height() int {
	return d.Rows * d.Parallel
}

func (g GPIOConfig) Pins() input.Pins {
	return input.Pins{Clock: g.Clock, Data: g.Data, Switch: g.Switch}
}

// Auth converts the spotify section for spotify.Connect. Cover art is sized to the panel height.
func (c Config) Auth() spotify.Config {
	return spotify.Config{
		ClientID:     c.Spotify.ClientID,
		ClientSecret: c.Spotify.ClientSecret,
		RedirectURL:  c.Spotify.RedirectURL,
		TokenCache:   c.Spotify.TokenCache,
		Market:       c.Spotify.Market,
		CoverSize:    c.Display.Height(),
	}
}
