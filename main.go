package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// app carries the merged configuration and logger shared by all subcommands
type app struct {
	cfg *AppConfig
	log *Logger

	// raw flag values, merged onto the config file in setup
	flagMaxWorkers int
	flagLogLevel   string
	flagProfile    string
	flagOCIConfig  string
	flagFormat     string
	flagOutput     string
	flagProgress   bool
	flagVerbose    bool
}

// setup loads the YAML config, applies CLI overrides and builds the logger
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	overrides := CLIOverrides{}
	if cmd.Flags().Changed("max-workers") {
		overrides.MaxWorkers = &a.flagMaxWorkers
	}
	if cmd.Flags().Changed("log-level") {
		overrides.LogLevel = &a.flagLogLevel
	}
	if cmd.Flags().Changed("profile") {
		overrides.Profile = &a.flagProfile
	}
	if cmd.Flags().Changed("oci-config") {
		overrides.ConfigFile = &a.flagOCIConfig
	}
	if cmd.Flags().Changed("format") {
		overrides.Format = &a.flagFormat
	}
	if cmd.Flags().Changed("output") {
		overrides.OutputFile = &a.flagOutput
	}
	if cmd.Flags().Changed("progress") {
		overrides.Progress = &a.flagProgress
	}
	MergeWithCLIArgs(cfg, overrides)

	// -v is shorthand for verbose logging unless a level was given
	if a.flagVerbose && !cmd.Flags().Changed("log-level") {
		cfg.General.LogLevel = "verbose"
	}

	if err := validateConfig(cfg); err != nil {
		return err
	}

	level, err := ParseLogLevel(cfg.General.LogLevel)
	if err != nil {
		return &ConfigurationError{Field: "log_level", Reason: err.Error()}
	}

	a.cfg = cfg
	a.log = NewLogger(level)
	return nil
}

// connect resolves credentials and builds the shared service clients
func (a *app) connect() (*Credentials, *OCIClients, error) {
	resolver := NewCredentialResolver(a.cfg.Auth.ConfigFile, a.cfg.Auth.Profile, a.log)
	creds, err := resolver.Resolve()
	if err != nil {
		return nil, nil, err
	}
	a.log.Debug("Using tenancy ID: %s", formatShortOCID(creds.TenancyID))

	clients, err := initOCIClients(creds, a.log)
	if err != nil {
		return nil, nil, err
	}

	return creds, clients, nil
}

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "oci-tenancy-report",
		Short:         "Report OCI compute instances and export Log Analytics queries",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVarP(&a.flagMaxWorkers, "max-workers", "m", defaultMaxWorkers, "Maximum number of concurrent workers")
	flags.StringVar(&a.flagLogLevel, "log-level", "normal", "Log level: silent, normal, verbose, debug")
	flags.StringVarP(&a.flagProfile, "profile", "p", "DEFAULT", "OCI configuration profile name")
	flags.StringVar(&a.flagOCIConfig, "oci-config", "", "Path to the OCI config file (default ~/.oci/config)")
	flags.StringVarP(&a.flagFormat, "format", "f", "text", "Output format: text, json, csv")
	flags.StringVarP(&a.flagOutput, "output", "o", "", "Output file path (default stdout)")
	flags.BoolVar(&a.flagProgress, "progress", false, "Show a progress bar during the fan-out stage")
	flags.BoolVarP(&a.flagVerbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(newSearchCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newExportCmd(a))
	rootCmd.AddCommand(newGenerateConfigCmd())

	return rootCmd
}

// newGenerateConfigCmd writes a default configuration file
func newGenerateConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate-config [filename]",
		Short: "Write a default configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := "oci-tenancy-report.yaml"
			if len(args) > 0 {
				filename = args[0]
			}
			if err := GenerateDefaultConfigFile(filename); err != nil {
				return err
			}
			fmt.Printf("Wrote default configuration to %s\n", filename)
			return nil
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
