package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"presider/internal/config"
	"presider/internal/control"
	"presider/internal/core/model"
	"presider/internal/core/timekeeper"
	"presider/internal/platform"
	"presider/internal/storage"
	"presider/internal/ui/console"
	"presider/internal/ui/preferences"
	"presider/internal/ui/tray"
)

const appName = "Presider"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type flagValues struct {
	dotenvPath   string
	dataDir      string
	store        string
	tickInterval time.Duration
	logLevel     string
}

func newRootCmd() *cobra.Command {
	flags := &flagValues{}

	root := &cobra.Command{
		Use:           "presider",
		Short:         "Speech timer and rotation tracker for presiding officers",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			return runConsole(cfg)
		},
	}
	root.PersistentFlags().StringVar(&flags.dotenvPath, "env-file", ".env", "dotenv file to load before reading the environment")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "directory holding saved settings")
	root.PersistentFlags().StringVar(&flags.store, "store", string(storage.KindYAML), "settings store backend (yaml or sqlite)")
	root.PersistentFlags().DurationVar(&flags.tickInterval, "tick", timekeeper.DefaultTickInterval, "timer tick interval")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level")

	root.AddCommand(newStatusCmd(flags))
	return root
}

func newStatusCmd(flags *flagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print saved timer settings and the speech rotation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			dataDir, err := cfg.ResolveDataDir(appName)
			if err != nil {
				return err
			}
			store, err := openStore(cfg, dataDir)
			if err != nil {
				return err
			}
			defer store.Close()

			ctl := control.Open(cmd.Context(), store, timekeeper.Config{TickInterval: cfg.TickInterval, ManualTick: true})
			defer ctl.Close()
			view := ctl.View()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "speech: %s  cues: %v\n", view.Remaining, view.Settings.SpeechCuesSec)
			fmt.Fprintf(out, "question: %s  cue: %d\n", view.QuestionChunk, view.Settings.QuestionCueSec)
			fmt.Fprintf(out, "next: %s  (aff %d, neg %d)\n", view.NextSpeech, view.AffCount, view.NegCount)
			fmt.Fprintln(out, view.Line)
			return nil
		},
	}
}

func loadConfig(cmd *cobra.Command, flags *flagValues) (config.Config, error) {
	cfg, err := config.Load(flags.dotenvPath)
	if err != nil {
		return config.Config{}, err
	}

	changed := cmd.Flags().Changed
	if changed("data-dir") {
		cfg.DataDir = flags.dataDir
	}
	if changed("store") {
		cfg.Store = storage.Kind(flags.store)
	}
	if changed("tick") {
		cfg.TickInterval = flags.tickInterval
	}
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	level, _ := cfg.Level()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(level)
	return cfg, nil
}

func openStore(cfg config.Config, dataDir string) (storage.Store, error) {
	store, err := storage.Open(cfg.Store, dataDir)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}
	log.Info().Str("store", string(cfg.Store)).Str("dir", dataDir).Msg("settings store opened")
	return store, nil
}

func runConsole(cfg config.Config) error {
	dataDir, err := cfg.ResolveDataDir(appName)
	if err != nil {
		return err
	}
	guard, err := platform.AcquireSingleInstance(appName, dataDir)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		if notifyErr := platform.NotifyRunning(appName, dataDir); notifyErr != nil {
			return fmt.Errorf("single instance: %w", err)
		}
		log.Info().Str("dir", dataDir).Msg("console already running; brought it forward")
		return nil
	}
	if err != nil {
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	store, err := openStore(cfg, dataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	ctl := control.Open(context.Background(), store, timekeeper.Config{TickInterval: cfg.TickInterval})
	defer ctl.Close()

	fyneApp := app.NewWithID("com.presider.app")

	var (
		consoleWindow *console.Window
		prefsWindow   *preferences.Window
	)
	prefsWindow = preferences.New(fyneApp, ctl.View().Settings, func(input model.SettingsInput) {
		consoleWindow.Dispatch(control.ApplySettings(input))
	}, func() {
		consoleWindow.Dispatch(control.ResetSettings())
		prefsWindow.UpdateSettings(ctl.View().Settings)
	})
	consoleWindow = console.New(fyneApp, ctl, console.Config{
		OnSettings: func() {
			prefsWindow.UpdateSettings(ctl.View().Settings)
			prefsWindow.Show()
		},
	})
	defer consoleWindow.Close()

	mainWindow := consoleWindow.Window()
	mainWindow.SetMaster()

	trayManager := setupTray(fyneApp, consoleWindow, prefsWindow, ctl)
	if trayManager != nil {
		mainWindow.SetCloseIntercept(func() {
			mainWindow.Hide()
		})
	}

	events := ctl.Engine().Subscribe(16)
	go func() {
		for event := range events {
			fyne.Do(func() {
				consoleWindow.Render(ctl.View())
				if event.Flash {
					consoleWindow.Flash()
				}
				if trayManager != nil {
					trayManager.SetRunning(event.Running)
					trayManager.SetStatus(fmt.Sprintf("%s %s", event.Mode, timekeeper.FormatRemaining(event.Remaining)))
				}
			})
		}
	}()

	guard.Serve(func() {
		fyne.Do(consoleWindow.Show)
	})

	consoleWindow.Show()
	fyneApp.Run()
	return nil
}

func setupTray(fyneApp fyne.App, consoleWindow *console.Window, prefsWindow *preferences.Window, ctl *control.Console) *tray.Manager {
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		log.Info().Msg("system tray unsupported on this platform")
		return nil
	}

	manager := tray.New(desktopApp, tray.Callbacks{
		OnShowConsole: consoleWindow.Show,
		OnToggleRun: func() {
			if ctl.View().Running {
				consoleWindow.Dispatch(control.Pause())
				return
			}
			consoleWindow.Dispatch(control.Start())
		},
		OnReset: func() {
			consoleWindow.Dispatch(control.Reset())
		},
		OnMarkSpeech: func() {
			consoleWindow.Dispatch(control.MarkSpeechGiven())
		},
		OnPreferences: func() {
			prefsWindow.UpdateSettings(ctl.View().Settings)
			prefsWindow.Show()
		},
		OnQuit: func() {
			fyneApp.Quit()
		},
	})
	desktopApp.SetSystemTrayIcon(theme.MediaRecordIcon())
	return manager
}
