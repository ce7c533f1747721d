package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"codeberg.org/miketth/inputdeck/pkg/inputsource"
	"codeberg.org/miketth/inputdeck/pkg/sourcestore/sqlite"
	"codeberg.org/miketth/inputdeck/pkg/tui"
	"github.com/adrg/xdg"
	"github.com/coreos/go-systemd/v22/daemon"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	err := run()
	if err != nil {
		log.Fatalf("error: %+v", err)
	}
}

func run() error {
	interval := flag.Duration("interval", inputsource.DefaultInterval, "how often to poll for input source changes")
	demo := flag.Bool("demo", false, "use a built-in fake provider instead of the OS")
	restore := flag.Bool("restore", false, "re-select the last recorded source on startup")
	watchMode := flag.Bool("watch", false, "run headless and log changes instead of showing the UI")
	evdevXMLPath := flag.String("evdev-xml-path", "/usr/share/X11/xkb/rules/evdev.xml", "path to evdev.xml (linux)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log, err := newLogger(*debug, !*watchMode)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	system, err := newProvider(*demo, *evdevXMLPath, log)
	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}

	historyPath, err := xdg.DataFile("inputdeck/history.db")
	if err != nil {
		return fmt.Errorf("resolve history path: %w", err)
	}
	history, err := sqlite.NewHistoryStore(historyPath, log)
	if err != nil {
		return fmt.Errorf("create history store: %w", err)
	}
	defer history.Close()

	provider := inputsource.WithHistory(system, history, log)

	if *restore {
		restoreLast(ctx, provider, history, log)
	}

	// the watcher polls the unwrapped provider so it can still see the
	// backend's change hints
	watcher := inputsource.NewWatcher(system, *interval, log)

	errChan := make(chan error, 4)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		err := watcher.Run(ctx)
		if err != nil {
			errChan <- fmt.Errorf("watch sources: %w", err)
		}
	}()

	if bw, ok := system.(backgroundWatcher); ok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := bw.Watch(ctx)
			if err != nil {
				errChan <- fmt.Errorf("watch backend events: %w", err)
			}
		}()
	}

	if *watchMode {
		return runHeadless(ctx, watcher, log, errChan, &wg)
	}

	prog := tui.NewProgram(tui.NewModel(provider, watcher.Subscribe(), history, log))
	go func() {
		<-ctx.Done()
		prog.Quit()
	}()

	_, uiErr := prog.Run()
	stop()
	wg.Wait()

	if uiErr != nil {
		return fmt.Errorf("run ui: %w", uiErr)
	}

	return nil
}

type backgroundWatcher interface {
	Watch(ctx context.Context) error
}

func runHeadless(ctx context.Context, watcher *inputsource.Watcher, log *zap.SugaredLogger, errChan chan error, wg *sync.WaitGroup) error {
	log.Info("started inputdeck")

	wg.Add(2)

	go func() {
		defer wg.Done()
		err := logEvents(ctx, watcher.Subscribe(), log)
		if err != nil {
			errChan <- fmt.Errorf("log events: %w", err)
		}
	}()

	go func() {
		defer wg.Done()
		err := systemdNotifyLoop(ctx)
		if err != nil {
			errChan <- fmt.Errorf("systemd notify: %w", err)
		}
	}()

	err := <-errChan
	switch {
	case errors.Is(err, context.Canceled):
		log.Info("shutting down")
		wg.Wait()
		return nil
	case err != nil:
		return err
	}

	return nil
}

func logEvents(ctx context.Context, events <-chan inputsource.Event, log *zap.SugaredLogger) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-events:
			switch ev.Kind {
			case inputsource.SelectionChanged:
				log.Infow("selection changed", "id", ev.Current.ID, "name", ev.Current.Name)
			case inputsource.SourcesChanged:
				log.Infow("source list changed", "count", len(ev.Sources))
			}
		}
	}
}

func restoreLast(ctx context.Context, provider inputsource.Provider, history inputsource.HistoryStore, log *zap.SugaredLogger) {
	last, err := history.LastSelected()
	if err != nil {
		log.Warnw("read last selection", "error", err)
		return
	}
	if last == "" {
		return
	}

	if current, err := provider.Current(ctx); err == nil && current.ID == last {
		return
	}

	if err := provider.Select(ctx, last); err != nil {
		log.Warnw("restore last source", "id", last, "error", err)
		return
	}

	log.Infow("restored last selected source", "id", last)
}

func systemdNotifyLoop(ctx context.Context) error {
	// tell systemd that we're ready
	supported, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		return fmt.Errorf("notify systemd: %w", err)
	}
	if !supported {
		return nil
	}

	_, _ = daemon.SdNotify(false, "STATUS=Keeping an eye on your input sources 👀")

	// notify watchdog
	t, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		return fmt.Errorf("check watchdog: %w", err)
	}
	// if watchdog is not enabled, we don't need to notify it
	if t == 0 {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-time.After(t / 2):
			_, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog)
			if err != nil {
				return fmt.Errorf("notify watchdog: %w", err)
			}
		}
	}
}

func newLogger(debug bool, toFile bool) (*zap.SugaredLogger, error) {
	loggerConfig := zap.NewDevelopmentConfig()

	loggerConfig.OutputPaths = []string{"stdout"}
	loggerConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	// the UI owns the terminal, logs go to a file instead
	if toFile {
		logPath, err := xdg.StateFile("inputdeck/inputdeck.log")
		if err != nil {
			return nil, fmt.Errorf("resolve log path: %w", err)
		}
		loggerConfig.OutputPaths = []string{logPath}
	}

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger.Sugar(), nil
}
