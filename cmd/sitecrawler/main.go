package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-crawler-client/cli"
	"github.com/jrsteele09/go-crawler-client/internal/config"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = fmt.Errorf("panic recovered")
		}
	}()

	setupLogging()
	if len(os.Args) <= 1 {
		displayAppname("sitecrawler")
	}
	return cli.Execute()
}

// setupLogging applies the resolved log level (defaults, config.yaml,
// SITECRAWLER_LOG_LEVEL). Config errors fall back to warn so a broken
// config file still reports through the command error path.
func setupLogging() {
	level := zerolog.WarnLevel
	if cfg, err := config.Load(); err == nil {
		level = cfg.ZerologLevel()
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
