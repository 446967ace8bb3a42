package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/s3async/cli"
)

var (
	putKeyPrefix   string
	putContentType string
	putParallelism int
)

var putCmd = &cobra.Command{
	Use:   "put <local-path>...",
	Short: "Upload files to the bucket",
	Long: `Upload one or more files to the bucket.

Files upload concurrently. The object key is the file's base name,
optionally prefixed with --key-prefix.

Examples:
  s3async-cli put ./file.txt
  s3async-cli put --key-prefix backups/ *.tar.gz
  s3async-cli put --content-type application/json ./data`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPut,
}

func init() {
	putCmd.Flags().StringVar(&putKeyPrefix, "key-prefix", "", "prefix prepended to object keys")
	putCmd.Flags().StringVarP(&putContentType, "content-type", "t", "", "override content-type")
	putCmd.Flags().IntVar(&putParallelism, "parallelism", cli.DefaultParallelism, "concurrent uploads")
}

func runPut(_ *cobra.Command, args []string) error {
	transfer, err := getTransfer()
	if err != nil {
		return reportError(err)
	}

	ctx, cancel := requestContext()
	defer cancel()

	results, err := transfer.Upload(ctx, cli.UploadOptions{
		LocalPaths:  args,
		KeyPrefix:   putKeyPrefix,
		ContentType: putContentType,
		Parallelism: putParallelism,
	})
	if err != nil {
		return reportError(err)
	}

	if err := getFormatter().FormatUpload(os.Stdout, results); err != nil {
		return err
	}

	for i := range results {
		if results[i].Err != nil {
			return results[i].Err
		}
	}

	return nil
}
