package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/s3async/cli"
)

var (
	getOutput string
	getStdout bool
)

var getCmd = &cobra.Command{
	Use:   "get <key> [local-path]",
	Short: "Download an object from the bucket",
	Long: `Download an object from the bucket.

Without a local path the object is written to the key's base name in the
current directory.

Examples:
  s3async-cli get logs/2016/0001.gz
  s3async-cli get logs/2016/0001.gz ./local.gz
  s3async-cli get --stdout config.json | jq .
  s3async-cli get -o ./output.txt path/file.txt`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runGet,
}

func init() {
	getCmd.Flags().StringVarP(&getOutput, "output", "o", "", "output file path")
	getCmd.Flags().BoolVar(&getStdout, "stdout", false, "write to stdout")
}

func runGet(_ *cobra.Command, args []string) error {
	key := args[0]

	localPath := ""
	if len(args) > 1 {
		localPath = args[1]
	}
	if getOutput != "" {
		localPath = getOutput
	}
	if getStdout {
		localPath = "-"
	}

	transfer, err := getTransfer()
	if err != nil {
		return reportError(err)
	}

	ctx, cancel := requestContext()
	defer cancel()

	result, err := transfer.Download(ctx, cli.DownloadOptions{
		Key:       key,
		LocalPath: localPath,
	})
	if err != nil {
		return reportError(err)
	}

	// Metadata on stdout would corrupt piped output.
	if result.LocalPath == "-" {
		if appCfg.Output.JSON {
			return getFormatter().FormatDownload(os.Stderr, result)
		}
		return nil
	}

	return getFormatter().FormatDownload(os.Stdout, result)
}
