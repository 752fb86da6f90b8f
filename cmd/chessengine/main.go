package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/go-logr/logr"

	"github.com/hailam/chessengine/internal/book"
	"github.com/hailam/chessengine/internal/console"
	"github.com/hailam/chessengine/internal/engine"
	"github.com/hailam/chessengine/internal/logging"
	"github.com/hailam/chessengine/internal/storage"
	"github.com/hailam/chessengine/internal/tablebase"
)

var (
	color        = flag.String("color", "", "colour the engine plays: white or black")
	depth        = flag.Int("depth", 0, "search depth in plies")
	bookPath     = flag.String("book", "", "opening book file (.txt or .zst)")
	useTablebase = flag.Bool("tablebase", true, "probe the online tablebase with 7 or fewer pieces")
	tablebaseURL = flag.String("tablebase-url", "", "tablebase mainline endpoint")
	dbDir        = flag.String("db", "", "database directory (default: platform data directory)")
	save         = flag.Bool("save", false, "store the given flags as the new defaults")
	verbose      = flag.Bool("v", false, "verbose logging (same as LOGS=true)")
	cpuprofile   = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()
	logger := logging.FromEnv(*verbose)

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	if err := run(logger); err != nil {
		logger.Error(err, "chessengine failed")
		os.Exit(1)
	}
}

func run(logger logr.Logger) error {
	store, err := openStorage()
	if err != nil {
		// Play on without persistence.
		logger.Error(err, "storage unavailable")
	} else {
		defer store.Close()
	}

	prefs := storage.DefaultPreferences()
	if store != nil {
		if prefs, err = store.LoadPreferences(); err != nil {
			return err
		}
	}
	if err := applyFlags(prefs); err != nil {
		return err
	}
	if *save && store != nil {
		if err := store.SavePreferences(prefs); err != nil {
			return err
		}
	}

	cfg := console.Config{
		EngineColor: prefs.Color(),
		Depth:       prefs.Depth,
		Logger:      logger,
	}
	if store != nil {
		cfg.Recorder = store
		greetFirstLaunch(store, os.Stdout, logger)
	}

	if bk := loadBook(prefs, store, logger); bk != nil {
		cfg.Book = bk
	}

	if prefs.TablebaseEnabled {
		prober, err := tablebase.NewCachedLichessProber(prefs.TablebaseURL, logger.WithName("tablebase"))
		if err != nil {
			return err
		}
		defer prober.Close()
		cfg.Tablebase = prober
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return console.New(os.Stdin, os.Stdout, cfg).Run(ctx)
}

type launchTracker interface {
	IsFirstLaunch() (bool, error)
	MarkFirstLaunchComplete() error
}

// greetFirstLaunch prints a setup hint the first time the engine runs.
func greetFirstLaunch(t launchTracker, w io.Writer, logger logr.Logger) {
	first, err := t.IsFirstLaunch()
	if err != nil {
		logger.Error(err, "reading first launch flag failed")
		return
	}
	if !first {
		return
	}
	fmt.Fprintln(w, "First run: build an opening book with bookgen and pass it with -book.")
	if err := t.MarkFirstLaunchComplete(); err != nil {
		logger.Error(err, "saving first launch flag failed")
	}
}

func openStorage() (*storage.Storage, error) {
	if *dbDir != "" {
		return storage.Open(*dbDir)
	}
	return storage.NewStorage()
}

// applyFlags overrides the stored preferences with flags given on the
// command line.
func applyFlags(prefs *storage.Preferences) error {
	var err error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "color":
			if *color != "white" && *color != "black" {
				err = fmt.Errorf("invalid -color %q", *color)
			}
			prefs.EngineColor = *color
		case "depth":
			prefs.Depth = *depth
		case "book":
			prefs.BookPath = *bookPath
		case "tablebase":
			prefs.TablebaseEnabled = *useTablebase
		case "tablebase-url":
			prefs.TablebaseURL = *tablebaseURL
		}
	})
	if prefs.Depth < 1 {
		prefs.Depth = engine.DefaultDepth
	}
	return err
}

// loadBook reads the book file if one is configured, else the book stored
// in the database. A broken book disables the book rather than the engine.
func loadBook(prefs *storage.Preferences, store *storage.Storage, logger logr.Logger) *book.Book {
	if prefs.BookPath != "" {
		bk, err := book.LoadFile(prefs.BookPath)
		if err != nil {
			logger.Error(err, "loading opening book failed", "path", prefs.BookPath)
			return nil
		}
		logger.Info("opening book loaded", "path", prefs.BookPath, "positions", bk.Size())
		return bk
	}
	if store == nil {
		return nil
	}
	bk, err := store.LoadBook()
	if err != nil {
		logger.Error(err, "loading stored opening book failed")
		return nil
	}
	if bk.Size() == 0 {
		return nil
	}
	logger.V(1).Info("stored opening book loaded", "positions", bk.Size())
	return bk
}
