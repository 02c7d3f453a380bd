package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"periph.io/x/host/v3"

	"github.com/ajanata/pixeldeck"
	"github.com/ajanata/pixeldeck/internal/app"
	"github.com/ajanata/pixeldeck/internal/app/mainmenu"
	"github.com/ajanata/pixeldeck/internal/app/nowplaying"
	"github.com/ajanata/pixeldeck/internal/coverart"
	"github.com/ajanata/pixeldeck/internal/display"
	"github.com/ajanata/pixeldeck/internal/input"
	"github.com/ajanata/pixeldeck/internal/mirror"
	"github.com/ajanata/pixeldeck/internal/spotify"
)

// inputQueue is how many events may wait for the next frame.
const inputQueue = 16

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "pixeldeck",
	Short: "Clock and Spotify now-playing display for an RGB LED matrix",
	Long: `pixeldeck drives a small RGB LED matrix with a rotary encoder as its only control.
Turning the knob and pressing it talk to the active app; holding it switches apps.

Without a matrix attached it runs in the terminal, with the arrow keys as the knob,
Enter as a press and Tab or Space as a hold.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default ./pixeldeck.yaml or ~/.config/pixeldeck/pixeldeck.yaml)")
	flags.StringP("mode", "m", "simulated", "display backend: simulated or hardware")
	flags.Int("rows", 32, "panel rows")
	flags.Int("cols", 64, "panel columns")
	flags.String("mirror", "none", "mirror the panel: none, horizontal, vertical or both")
	flags.Uint("framerate", 60, "simulated display frame rate")
	flags.String("log-level", "info", "log level")
	flags.String("log-file", "", "log file (simulated mode defaults to "+pixeldeck.DefaultLogFile+")")

	for key, flag := range map[string]string{
		"mode":              "mode",
		"display.rows":      "rows",
		"display.cols":      "cols",
		"display.mirror":    "mirror",
		"display.framerate": "framerate",
		"log.level":         "log-level",
		"log.file":          "log-file",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

func initConfig() {
	pixeldeck.SetDefaults(viper.GetViper())
	viper.SetEnvPrefix("PIXELDECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pixeldeck")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home + "/.config/pixeldeck")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "reading config:", err)
			os.Exit(1)
		}
	}
}

func run(_ *cobra.Command, _ []string) error {
	cfg, err := pixeldeck.LoadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	log, logFile, err := pixeldeck.NewLogger(cfg.Log.Level, cfg.LogFile())
	if err != nil {
		return err
	}
	defer logFile.Close()
	if f := viper.ConfigFileUsed(); f != "" {
		log.WithField("file", f).Info("config loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// the authorization prompt needs the terminal, so it goes before the simulator takes it over
	session, err := spotify.Connect(ctx, cfg.Auth(), os.Stdin, os.Stdout, log.WithField("component", "spotify"))
	if err != nil {
		log.WithError(err).Fatal("spotify authentication failed")
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.WithError(err).Warn("could not save spotify token")
		}
	}()

	mode := cfg.ParsedMode()
	backend, err := openBackend(mode, cfg.Display, log)
	if err != nil {
		log.WithError(err).Fatal("display init failed")
	}

	axis, _ := mirror.ParseAxis(cfg.Display.Mirror)
	surface := display.New(backend, display.WithMirror(axis))
	defer surface.Close()

	deck, err := pixeldeck.New(surface, log)
	if err != nil {
		return err
	}
	if err := deck.Init(); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	deck.Bootf("%s", mode)

	inputs := make(chan input.Event, inputQueue)
	if mode == pixeldeck.ModeHardware {
		if _, err := host.Init(); err != nil {
			log.WithError(err).Fatal("gpio host init failed")
		}
		poller, err := input.OpenPoller(cfg.GPIO.Pins(), log.WithField("component", "input"))
		if err != nil {
			log.WithError(err).Fatal("gpio setup failed")
		}
		go poller.Run(ctx, inputs)
		deck.Bootf("knob ok")
	}

	menu, err := mainmenu.New(log.WithField("app", "mainmenu"))
	if err != nil {
		return err
	}
	music := nowplaying.New(session, coverart.New(nil, cfg.Display.Height()), inputs, log.WithField("app", "nowplaying"))
	go music.Run(ctx)
	deck.Bootf("spotify ok")

	launcher, err := app.NewLauncher(log, menu, music)
	if err != nil {
		return err
	}

	err = deck.Run(ctx, launcher, inputs)
	log.Info("shutting down")
	return err
}

func openBackend(mode pixeldeck.Mode, cfg pixeldeck.DisplayConfig, log logrus.FieldLogger) (display.Backend, error) {
	switch mode {
	case pixeldeck.ModeHardware:
		m, err := openMatrix(cfg)
		if err != nil {
			return nil, err
		}
		return display.NewHardware(m)
	default:
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("open terminal: %w", err)
		}
		return display.NewSimulated(screen, int16(cfg.Width()), int16(cfg.Height()),
			display.WithFramerate(cfg.Framerate),
			display.WithLogger(log.WithField("component", "simulator")),
		)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
