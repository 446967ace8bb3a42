package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/s3async"
	"github.com/sagarc03/s3async/cli"
	"github.com/sagarc03/s3async/config"
)

var (
	version = "dev"

	cfgFile     string
	profileName string

	appCfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:     "s3async-cli",
	Version: version,
	Short:   "Client for S3-compatible object storage",
	Long: `s3async-cli - asynchronous S3-compatible object storage client

Credentials and connection settings are resolved in order of precedence:
flags, environment variables (S3ASYNC_*), the selected profile from
~/.s3async/config.yaml, then defaults.

Run 'configure add <name>' to create a profile interactively.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		appCfg, err = config.Load(nil, cmd.Flags())
		if err != nil {
			return err
		}
		setupLogging(appCfg.Log.Level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "profiles file (default: ~/.s3async/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "profile name (env: S3ASYNC_PROFILE)")
	rootCmd.PersistentFlags().String("region", "", "region (env: S3ASYNC_REGION)")
	rootCmd.PersistentFlags().StringP("bucket", "b", "", "bucket (env: S3ASYNC_BUCKET)")
	rootCmd.PersistentFlags().String("endpoint", "", "endpoint override for S3-compatible servers (env: S3ASYNC_ENDPOINT)")
	rootCmd.PersistentFlags().Bool("json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Int("timeout", 0, "request timeout in seconds")

	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// getConfigPath resolves the profiles file path from flag, env, or default.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if path := cli.ConfigPathFromEnv(); path != "" {
		return path
	}
	return cli.DefaultConfigPath()
}

// resolveConfig merges profile, environment and flag settings.
func resolveConfig() (*cli.Config, error) {
	var configs []*cli.Config

	// 1. Selected profile, if a profiles file exists
	name := profileName
	if name == "" {
		name = cli.ProfileFromEnv()
	}

	if path := getConfigPath(); path != "" {
		profilesCfg, err := cli.LoadConfigFile(path)
		switch {
		case err == nil:
			profile, profileErr := profilesCfg.GetProfile(name)
			if profileErr != nil && (name != "" || !errors.Is(profileErr, cli.ErrNoProfiles)) {
				return nil, profileErr
			}
			if profileErr == nil {
				configs = append(configs, cli.ConfigFromProfile(profile))
			}
		case cfgFile != "" || name != "":
			// Explicitly requested config or profile must resolve.
			return nil, err
		}
	}

	// 2. Environment variables
	configs = append(configs, cli.ConfigFromEnv())

	// 3. Viper-resolved settings (file, env, flags)
	configs = append(configs, &cli.Config{
		Region:   appCfg.S3.Region,
		Bucket:   appCfg.S3.Bucket,
		Endpoint: appCfg.S3.Endpoint,
	})

	return cli.MergeConfig(configs...), nil
}

// getClient creates a configured client from the resolved settings.
func getClient() (*s3async.Client, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []s3async.Option{s3async.WithLogger(slog.Default())}
	if appCfg.Timeout.RequestSeconds > 0 {
		opts = append(opts, s3async.WithTimeout(time.Duration(appCfg.Timeout.RequestSeconds)*time.Second))
	}

	return s3async.New(cfg.ClientConfig(), opts...)
}

// getTransfer wraps the client for file transfer commands.
func getTransfer() (*cli.Transfer, error) {
	client, err := getClient()
	if err != nil {
		return nil, err
	}
	return cli.NewTransfer(client, os.Stdout), nil
}

// getFormatter returns the appropriate formatter based on config.
func getFormatter() cli.Formatter {
	return cli.NewFormatter(appCfg.Output.JSON, appCfg.Output.Quiet)
}

// reportError prints err through the formatter and returns it.
func reportError(err error) error {
	_ = getFormatter().FormatError(os.Stderr, err)
	return err
}

// requestContext returns a context bounded by the configured timeout.
func requestContext() (context.Context, context.CancelFunc) {
	timeout := time.Duration(appCfg.Timeout.RequestSeconds) * time.Second
	if timeout <= 0 {
		timeout = s3async.DefaultTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}
