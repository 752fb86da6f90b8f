// Command bookgen builds an opening book from PGN files.
//
//	bookgen -o book.txt.zst games1.pgn games2.pgn.zst
//
// Without -o the book goes to book.txt.zst in the platform book directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hailam/chessengine/internal/board"
	"github.com/hailam/chessengine/internal/book"
	"github.com/hailam/chessengine/internal/logging"
	"github.com/hailam/chessengine/internal/storage"
)

var (
	output   = flag.String("o", "", "output file; a .zst suffix compresses it (default: platform book directory)")
	parallel = flag.Int("j", runtime.NumCPU(), "PGN files read at once")
	store    = flag.Bool("store", false, "also save the book in the engine database")
	dbDir    = flag.String("db", "", "database directory for -store (default: platform data directory)")
	verbose  = flag.Bool("v", false, "verbose logging (same as LOGS=true)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: bookgen [flags] file.pgn...\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger := logging.FromEnv(*verbose)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *output == "" {
		dir, err := storage.GetBookDir()
		if err != nil {
			logger.Error(err, "locating book directory failed")
			os.Exit(1)
		}
		*output = filepath.Join(dir, "book.txt.zst")
	}

	start := time.Now()
	b, err := book.BuildFiles(ctx, flag.Args(), board.DefaultZobrist(), logger, *parallel)
	if err != nil {
		logger.Error(err, "building book failed")
		os.Exit(1)
	}
	if err := b.SaveFile(*output); err != nil {
		logger.Error(err, "writing book failed", "path", *output)
		os.Exit(1)
	}

	size := "?"
	if info, err := os.Stat(*output); err == nil {
		size = humanize.Bytes(uint64(info.Size()))
	}
	fmt.Printf("%s positions written to %s (%s) in %v\n",
		humanize.Comma(int64(b.Size())), *output, size, time.Since(start).Round(time.Millisecond))

	if *store {
		if err := saveToStore(b); err != nil {
			logger.Error(err, "storing book failed")
			os.Exit(1)
		}
		fmt.Println("book stored in the engine database")
	}
}

func saveToStore(b *book.Book) error {
	var (
		s   *storage.Storage
		err error
	)
	if *dbDir != "" {
		s, err = storage.Open(*dbDir)
	} else {
		s, err = storage.NewStorage()
	}
	if err != nil {
		return err
	}
	defer s.Close()
	return s.SaveBook(b)
}
