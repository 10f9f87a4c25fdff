package logging

import (
	"io"
	"log"
	"os"

	"github.com/covalenthq/lumberjack"
)

type Options struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Setup points the standard logger at stdout and, when File is set, at a
// size-rotated log file as well. The returned closer releases the file.
func Setup(opts Options) io.Closer {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	w, c := Writer(os.Stdout, opts)
	log.SetOutput(w)
	return c
}

func Writer(console io.Writer, opts Options) (io.Writer, io.Closer) {
	if opts.File == "" {
		return console, nopCloser{}
	}
	lj := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   true,
	}
	return io.MultiWriter(console, lj), lj
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
