// Command hrflow runs connector flows from the command line: listing the
// registered vendors, pulling jobs into JSON lines, and pushing profiles
// from a JSON file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yass1337/hrflow-connectors/internal/pipeline"
	"github.com/yass1337/hrflow-connectors/internal/version"
	"github.com/yass1337/hrflow-connectors/pkg/config"
	"github.com/yass1337/hrflow-connectors/pkg/connector/registry"
	"github.com/yass1337/hrflow-connectors/pkg/connector/vendors/breezyhr"
	"github.com/yass1337/hrflow-connectors/pkg/connector/vendors/smartrecruiters"
	"github.com/yass1337/hrflow-connectors/pkg/connector/vendors/taleez"
	"github.com/yass1337/hrflow-connectors/pkg/logger"
	"github.com/yass1337/hrflow-connectors/pkg/models"
	"github.com/yass1337/hrflow-connectors/pkg/observability"
)

var (
	logLevel string
	envFile  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hrflow",
		Short: "Sync jobs and profiles between an HR hub and vendor ATSes",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("failed to load env file: %w", err)
				}
			} else {
				// Best effort: a local .env is optional.
				_ = godotenv.Load()
			}
			return logger.Init(logger.Config{
				Level:    logLevel,
				Encoding: "json",
			})
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file to load")

	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(pullCmd())
	rootCmd.AddCommand(pushCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRegistry wires the built-in vendor connectors.
func newRegistry() *registry.Registry {
	r := registry.New()
	r.MustRegister(smartrecruiters.Name, smartrecruiters.New)
	r.MustRegister(taleez.Name, taleez.New)
	r.MustRegister(breezyhr.Name, breezyhr.New)
	return r
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("hrflow %s (commit %s, built %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available vendor connectors",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range newRegistry().Names() {
				fmt.Println(name)
			}
		},
	}
}

func pullCmd() *cobra.Command {
	var configPath, outputPath string

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Pull jobs from a vendor and write them as JSON lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, shutdown, err := buildPipeline(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			defer shutdown()

			out := os.Stdout
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			stream, err := p.PullJobs(cmd.Context())
			if err != nil {
				return err
			}
			defer stream.Close()

			enc := json.NewEncoder(out)
			for {
				job, err := stream.Next(cmd.Context())
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return err
				}
				if err := enc.Encode(job); err != nil {
					return fmt.Errorf("failed to encode job: %w", err)
				}
			}
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "connector configuration file (required)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func pushCmd() *cobra.Command {
	var configPath, inputPath string

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Push profiles from a JSON file to a vendor",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, shutdown, err := buildPipeline(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			defer shutdown()

			data, err := os.ReadFile(inputPath) //nolint:gosec // G304: path is user-supplied by design
			if err != nil {
				return fmt.Errorf("failed to read profiles: %w", err)
			}

			var profiles []*models.Profile
			if err := json.Unmarshal(data, &profiles); err != nil {
				return fmt.Errorf("failed to decode profiles: %w", err)
			}

			outcomes, pushErr := p.PushProfiles(cmd.Context(), profiles)

			enc := json.NewEncoder(os.Stdout)
			for _, outcome := range outcomes {
				if err := enc.Encode(outcome); err != nil {
					return fmt.Errorf("failed to encode outcome: %w", err)
				}
			}
			return pushErr
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "connector configuration file (required)")
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "JSON file holding an array of profiles (required)")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

// buildPipeline loads a configuration, creates the connector and wires
// optional tracing. The returned shutdown closes both.
func buildPipeline(ctx context.Context, configPath string) (*pipeline.Pipeline, func(), error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, nil, err
	}

	connector, err := newRegistry().Create(cfg)
	if err != nil {
		return nil, nil, err
	}

	stopTracing := func(context.Context) error { return nil }
	if cfg.Observability.EnableTracing {
		stopTracing, err = observability.InitTracing(ctx)
		if err != nil {
			_ = connector.Close()
			return nil, nil, fmt.Errorf("failed to init tracing: %w", err)
		}
	}

	p := pipeline.New(connector)
	shutdown := func() {
		if err := p.Close(); err != nil {
			logger.Warn("failed to close connector", zap.Error(err))
		}
		if err := stopTracing(context.Background()); err != nil {
			logger.Warn("failed to flush traces", zap.Error(err))
		}
		_ = logger.Sync()
	}
	return p, shutdown, nil
}
