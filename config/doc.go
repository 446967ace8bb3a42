// Package config loads CLI configuration from files, environment
// variables and command-line flags.
//
// Precedence from highest to lowest: flags, environment, config files,
// defaults. Environment variables use the S3ASYNC_ prefix with dots
// replaced by underscores, e.g. S3ASYNC_S3_REGION for s3.region.
//
// Credentials are deliberately not part of this configuration. They are
// resolved from profiles (see the cli package) or from the environment
// by the command layer.
package config
