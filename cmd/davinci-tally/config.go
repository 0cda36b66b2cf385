package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vocdoni/davinci-tally/certificate"
	"github.com/vocdoni/davinci-tally/tally"
	"github.com/vocdoni/davinci-tally/types"
)

const (
	defaultLogLevel  = "info"
	defaultLogOutput = "stderr"
	defaultFormat    = string(certificate.FormatHex)
	envPrefix        = "DAVINCI_TALLY"

	cmdPublic  = "public"
	cmdPrivate = "private"
	cmdInspect = "inspect"
)

var (
	errMissingCommand = errors.New("missing command")
	errUnknownCommand = errors.New("unknown command")
)

// Config holds the application configuration
type Config struct {
	Command string
	Log     LogConfig `mapstructure:"log"`

	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	VotePlanID string `mapstructure:"vote-plan-id"`
	VotePlan   string `mapstructure:"vote-plan"`
	Shares     string `mapstructure:"shares"`
	MinShares  int    `mapstructure:"min-shares"`
	DryRun     bool   `mapstructure:"dry-run"`
	Input      string `mapstructure:"input"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Output string `mapstructure:"output"`
}

// loadConfig loads the configuration of the command named by args[0] from
// the rest of args, environment variables, and defaults.
func loadConfig(args []string) (*Config, error) {
	if len(args) == 0 {
		return nil, errMissingCommand
	}
	command := args[0]

	v := viper.New()
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.output", defaultLogOutput)
	v.SetDefault("format", defaultFormat)

	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SortFlags = false
	fs.StringP("log.level", "l", defaultLogLevel, "log level (debug, info, warn, error)")
	fs.String("log.output", defaultLogOutput, "log output (stdout, stderr or filepath)")

	switch command {
	case cmdPublic:
		fs.String("vote-plan-id", "", "vote plan identifier on the blockchain (required)")
		fs.StringP("output", "o", "", "write the certificate to the given file, standard output if not defined")
		fs.StringP("format", "f", defaultFormat, fmt.Sprintf("certificate format %v", certificate.Formats))
	case cmdPrivate:
		fs.String("shares", "", "path to the JSON file holding the decryption shares (required)")
		fs.String("vote-plan", "", "path to the JSON file holding the vote plan status (required)")
		fs.String("vote-plan-id", "", "vote plan to include in the certificate, optional if the file lists a single vote plan")
		fs.Int("min-shares", 0, "minimum number of decryption shares per proposal (0 disables the check)")
		fs.StringP("output", "o", "", "write the certificate to the given file, standard output if not defined")
		fs.StringP("format", "f", defaultFormat, fmt.Sprintf("certificate format %v", certificate.Formats))
		fs.Bool("dry-run", false, "build and validate the certificate without writing it")
	case cmdInspect:
		fs.StringP("input", "i", "", "certificate file to inspect, standard input if not defined")
		fs.StringP("format", "f", defaultFormat, fmt.Sprintf("format of the certificate %v", certificate.Formats))
	default:
		return nil, fmt.Errorf("%w %q", errUnknownCommand, command)
	}
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: davinci-tally %s [flags]\n\nFlags:\n", command)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}

	// Configure Viper to use environment variables
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Bind flags to Viper
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("error binding flags: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Command = command
	return cfg, nil
}

// registration validates the configuration of the public and private
// commands and returns the vote tally they request.
func (cfg *Config) registration() (tally.Registration, error) {
	switch cfg.Command {
	case cmdPublic:
		if cfg.VotePlanID == "" {
			return tally.Registration{}, fmt.Errorf("vote plan id is required (use --vote-plan-id flag or %s_VOTE_PLAN_ID environment variable)", envPrefix)
		}
		id, err := parseVotePlanID(cfg.VotePlanID)
		if err != nil {
			return tally.Registration{}, err
		}
		return tally.Registration{Public: &tally.PublicTally{VotePlanID: id, Output: cfg.Output}}, nil
	case cmdPrivate:
		if cfg.Shares == "" {
			return tally.Registration{}, fmt.Errorf("shares file is required (use --shares flag or %s_SHARES environment variable)", envPrefix)
		}
		if cfg.VotePlan == "" {
			return tally.Registration{}, fmt.Errorf("vote plan file is required (use --vote-plan flag or %s_VOTE_PLAN environment variable)", envPrefix)
		}
		if cfg.MinShares < 0 {
			return tally.Registration{}, fmt.Errorf("invalid minimum number of shares %d", cfg.MinShares)
		}
		private := &tally.PrivateTally{
			SharesPath:   cfg.Shares,
			VotePlanPath: cfg.VotePlan,
			Output:       cfg.Output,
			MinShares:    cfg.MinShares,
			DryRun:       cfg.DryRun,
		}
		if cfg.VotePlanID != "" {
			id, err := parseVotePlanID(cfg.VotePlanID)
			if err != nil {
				return tally.Registration{}, err
			}
			private.VotePlanID = &id
		}
		return tally.Registration{Private: private}, nil
	default:
		return tally.Registration{}, fmt.Errorf("%w %q", errUnknownCommand, cfg.Command)
	}
}

func parseVotePlanID(s string) (types.VotePlanID, error) {
	id, err := types.HexStringToVotePlanID(s)
	if err != nil {
		return types.VotePlanID{}, fmt.Errorf("invalid vote plan id: %w", err)
	}
	if id.IsZero() {
		return types.VotePlanID{}, fmt.Errorf("invalid vote plan id: zero identifier")
	}
	return id, nil
}
