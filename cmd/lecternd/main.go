// Command lecternd runs the lectern daemon in the foreground. It is the
// supervisor-friendly entry point; `lectern start` launches the same runtime
// through the CLI binary instead.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"lectern/internal/config"
	"lectern/internal/daemonrun"
)

func main() {
	configPath := flag.String("config", "", "Path to the configuration file")
	logLevel := flag.String("log-level", "", "Override the configured log level")
	flag.Parse()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	err = daemonrun.Run(context.Background(), cfg, daemonrun.Options{LogLevel: *logLevel})
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
