package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/ringbuf/pkg/cli"
)

const appName = "ringbuf"

var (
	// Global flags
	cfgFile     string
	profileName string
	outputFile  string
	outputJSON  bool
	outputTable bool
	verbose     bool

	// Global configuration
	globalConfig *cli.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ringbuf",
	Short: "Bounded byte buffer tool",
	Long: `ringbuf - drive a fixed-capacity, thread-safe circular byte buffer.

Producers block while the buffer lacks room for a whole write, consumers
block while it is empty. Timeouts are in milliseconds; 0 waits forever.

Configuration is stored in ~/.ringbuf/ringbuf/ and supports multiple named
profiles of buffer and workload settings.

Examples:
  # Classic walkthrough: 100-byte buffer, one slow reader
  ringbuf demo

  # Save a profile and benchmark with it
  ringbuf config add-profile burst --capacity 4096 --chunk 256 --timeout 50
  ringbuf -p burst bench --producers 8 --consumers 4

  # Load a bench plan from file, print as a table
  ringbuf bench -f plan.yaml --table
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "", "", "config file (default is ~/.ringbuf/ringbuf/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "profile name to use")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON (for piping)")
	rootCmd.PersistentFlags().BoolVar(&outputTable, "table", false, "output as a table where supported")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(benchCmd)
}

func initConfig() {
	// Configure slog based on verbose flag
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(),
	})))

	var err error
	globalConfig, err = cli.LoadConfigWithPath(appName, cfgFile)
	if err != nil {
		// Demo and bench still run on built-in defaults without a config.
		fmt.Fprintf(os.Stderr, "Warning: %s config: %v\n", appName, err)
	}
}

func logLevel() slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// getConfig returns the global configuration
func getConfig() (*cli.Config, error) {
	if globalConfig == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	return globalConfig, nil
}

// resolveProfile returns the selected profile with command-line overrides
// applied on top.
func resolveProfile(cmd *cobra.Command) (cli.Profile, error) {
	p := cli.DefaultProfile()
	if cfg, err := getConfig(); err == nil {
		if p, err = cfg.ResolveProfile(profileName); err != nil {
			return cli.Profile{}, err
		}
	} else if profileName != "" {
		return cli.Profile{}, err
	}
	return applyProfileFlags(cmd, p), nil
}

// outputResult outputs the result using cli package
func outputResult(result any) error {
	return cli.Output(result, cli.OutputOptions{
		Format: cli.SelectFormat(outputJSON, outputTable),
		File:   outputFile,
	})
}

// printVerbose prints verbose output if enabled
func printVerbose(format string, args ...any) {
	cli.PrintVerbose(verbose, format, args...)
}
