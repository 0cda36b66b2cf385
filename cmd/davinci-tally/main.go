package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"github.com/vocdoni/davinci-tally/certificate"
	"github.com/vocdoni/davinci-tally/internal"
	"github.com/vocdoni/davinci-tally/log"
	"github.com/vocdoni/davinci-tally/tally"
)

// Version is the build version of the binary
var Version = internal.Version

func main() {
	// Load configuration
	cfg, err := loadConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		usage(os.Stderr)
		os.Exit(2)
	}

	// Initialize logging, stdout is kept for the certificate by default
	if err := log.Init(cfg.Log.Level, cfg.Log.Output, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(2)
	}
	log.Debugw("starting davinci-tally", "version", Version, "command", cfg.Command, "logLevel", log.Level())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		log.Errorw(err, cfg.Command+" failed")
		cancel()
		os.Exit(1)
	}
}

// run executes the configured command, writing to stdout whatever is not
// sent to a file.
func run(ctx context.Context, cfg *Config, stdout io.Writer) error {
	format, err := certificate.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	if cfg.Command == cmdInspect {
		cert, err := certificate.ReadCertificate(cfg.Input, format)
		if err != nil {
			return err
		}
		inspector := &certificate.Emitter{Format: certificate.FormatJSON, Stdout: stdout}
		return inspector.Write("", cert)
	}
	reg, err := cfg.registration()
	if err != nil {
		return err
	}
	return reg.Execute(ctx, tally.NewBuilder(&certificate.Emitter{Format: format, Stdout: stdout}))
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `Usage: davinci-tally <command> [flags]

Commands:
  %-9s create the vote tally certificate of a public vote plan
  %-9s create the vote tally certificate of a decrypted private vote plan
  %-9s print a vote tally certificate as JSON

Run 'davinci-tally <command> --help' for the flags of a command.
Every flag can also be set with a %s_ environment variable, e.g. %s_LOG_LEVEL.
`, cmdPublic, cmdPrivate, cmdInspect, envPrefix, envPrefix)
}
