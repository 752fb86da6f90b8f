package book

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/hailam/chessengine/internal/board"
)

// The text format has one position per line:
//
//	<key>: [toRank toFile fromRank fromFile] count, [...] count
//
// Ranks and files are 0-7 with rank 0 being white's back rank.

// Read parses a book in text format.
func Read(r io.Reader) (*Book, error) {
	book := New()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := parseLine(book, line); err != nil {
			return nil, fmt.Errorf("book: line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("book: %w", err)
	}
	return book, nil
}

func parseLine(book *Book, line string) error {
	keyStr, rest, ok := strings.Cut(line, ":")
	if !ok {
		return errors.New("missing ':'")
	}
	key, err := strconv.ParseUint(strings.TrimSpace(keyStr), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid key: %w", err)
	}

	for _, item := range strings.Split(rest, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		m, count, err := parseEntry(item)
		if err != nil {
			return err
		}
		book.Add(key, m, count)
	}
	return nil
}

// parseEntry parses "[toRank toFile fromRank fromFile] count".
func parseEntry(item string) (Move, int, error) {
	coords, countStr, ok := strings.Cut(strings.TrimPrefix(item, "["), "]")
	if !ok || !strings.HasPrefix(item, "[") {
		return Move{}, 0, fmt.Errorf("invalid entry %q", item)
	}

	fields := strings.Fields(coords)
	if len(fields) != 4 {
		return Move{}, 0, fmt.Errorf("invalid entry %q: need 4 coordinates", item)
	}
	var c [4]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 || n > 7 {
			return Move{}, 0, fmt.Errorf("invalid coordinate %q in %q", f, item)
		}
		c[i] = n
	}

	count, err := strconv.Atoi(strings.TrimSpace(countStr))
	if err != nil || count <= 0 {
		return Move{}, 0, fmt.Errorf("invalid count in %q", item)
	}

	return Move{
		From: board.NewSquare(c[3], c[2]),
		To:   board.NewSquare(c[1], c[0]),
	}, count, nil
}

// WriteTo writes the book in text format, keys ascending and moves most
// played first, so equal books produce identical files.
func (b *Book) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var written int64
	for _, key := range b.Keys() {
		var sb strings.Builder
		sb.WriteString(strconv.FormatUint(key, 10))
		sb.WriteString(": ")
		for i, e := range b.Entries(key) {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "[%d %d %d %d] %d",
				e.Move.To.Rank(), e.Move.To.File(), e.Move.From.Rank(), e.Move.From.File(), e.Count)
		}
		sb.WriteByte('\n')

		n, err := bw.WriteString(sb.String())
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, bw.Flush()
}

// LoadFile reads a book file. Paths ending in ".zst" are zstd-compressed.
func LoadFile(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !isCompressed(path) {
		return Read(f)
	}

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("book: %w", err)
	}
	defer zr.Close()
	return Read(zr)
}

// SaveFile writes the book to path, compressing when it ends in ".zst".
func (b *Book) SaveFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if !isCompressed(path) {
		_, err = b.WriteTo(f)
		return err
	}

	zw, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("book: %w", err)
	}
	if _, err := b.WriteTo(zw); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

func isCompressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}
