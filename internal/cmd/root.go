package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile    string
	levelFlag  string
	conditions []string
	strictMode bool
	outputMode string
	colorFlag  bool
	noColor    bool
	localTime  bool
	followMode bool
	showStats  bool
	verbose    bool
)

// exitStatus is the final process status: 0 clean, 1 when any source failed
// or a fatal error occurred. A downstream pipe closing is not an error.
var exitStatus int

// rootCmd is the whole CLI; braid has no subcommands.
var rootCmd = &cobra.Command{
	Use:   "braid [file...]",
	Short: "Braid — chronological structured-log merge",
	Long: `Braid reads Bunyan-style JSON log records from files (plain or gzipped)
or from stdin, filters them by severity and condition, and weaves them into
a single chronologically ordered, pretty-printed stream.

Examples:
  braid api.log worker.log
  braid "/var/log/app/**/*.log" -l warn
  braid archive.log.gz -c 'pid == 1234' -o short
  tail -f api.log | braid`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE:         run,
}

// Execute runs the root command and applies the recorded exit status.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if exitStatus != 0 {
		os.Exit(exitStatus)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.braid.yaml)")
	rootCmd.Flags().StringVarP(&levelFlag, "level", "l", "", "minimum severity: name (trace..fatal) or number")
	rootCmd.Flags().StringArrayVarP(&conditions, "condition", "c", nil, "boolean condition on record fields (repeatable)")
	rootCmd.Flags().BoolVar(&strictMode, "strict", false, "drop lines that are not valid records")
	rootCmd.Flags().StringVarP(&outputMode, "output", "o", "long", "output mode: long, short, json, raw")
	rootCmd.Flags().BoolVar(&colorFlag, "color", false, "force colorized output")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colorized output")
	rootCmd.Flags().BoolVarP(&localTime, "localtime", "L", false, "display timestamps in local time")
	rootCmd.Flags().BoolVarP(&followMode, "follow", "f", false, "keep file sources open and follow appended records")
	rootCmd.Flags().BoolVar(&showStats, "stats", false, "print a processing summary to stderr on exit")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostics on stderr")

	_ = viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("color", rootCmd.Flags().Lookup("color"))
	_ = viper.BindPFlag("localtime", rootCmd.Flags().Lookup("localtime"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".braid")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("braid")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

// initLogging routes braid's own diagnostics to stderr, never stdout.
func initLogging() {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// useColor resolves the color mode: explicit flags win, otherwise color is
// on when stdout is a terminal.
func useColor() bool {
	switch {
	case noColor:
		return false
	case viper.GetBool("color"):
		return true
	default:
		return isatty.IsTerminal(os.Stdout.Fd())
	}
}
