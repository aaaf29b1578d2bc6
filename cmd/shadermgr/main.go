package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/fosdem/shadermgr/lib/config"
	"github.com/fosdem/shadermgr/lib/log"
	"github.com/fosdem/shadermgr/lib/viewer"
)

func init() {
	// The OpenGL stuff must be in one thread
	runtime.LockOSThread()
}

func main() {
	colour := flag.Bool("colour", log.IsTerminal(os.Stdout), "Colour the log output")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <config file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Parse(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config invalid: %s\n", err)
		os.Exit(1)
	}
	level, _ := log.ParseLevel(cfg.LogLevel)
	logger := slog.New(log.NewWriterHandler(os.Stdout, *colour, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := viewer.MakeWindowAndRun(cfg, logger); err != nil {
		logger.Error("viewer stopped", "err", err)
		os.Exit(1)
	}
}
