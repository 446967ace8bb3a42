package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/s3async/cli"
)

var (
	listLimit     int
	listMarker    string
	listDelimiter string
	listAll       bool
)

var listCmd = &cobra.Command{
	Use:   "list [prefix]",
	Short: "List objects in the bucket",
	Long: `List object keys in the bucket, optionally filtered by prefix.

With --delimiter, keys sharing a prefix up to the delimiter collapse
into a single entry, giving directory-style listings.

Examples:
  s3async-cli list
  s3async-cli list logs/
  s3async-cli list logs/ --delimiter /
  s3async-cli list --limit 10
  s3async-cli list --all
  s3async-cli list --marker "logs/2016/0042.gz"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", 0, "max keys per page")
	listCmd.Flags().StringVar(&listMarker, "marker", "", "start listing after this key")
	listCmd.Flags().StringVar(&listDelimiter, "delimiter", "", "group keys by delimiter")
	listCmd.Flags().BoolVar(&listAll, "all", false, "fetch all pages")
}

func runList(_ *cobra.Command, args []string) error {
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}

	transfer, err := getTransfer()
	if err != nil {
		return reportError(err)
	}

	ctx, cancel := requestContext()
	defer cancel()

	result, err := transfer.List(ctx, cli.ListOptions{
		Prefix:    prefix,
		Limit:     listLimit,
		Marker:    listMarker,
		Delimiter: listDelimiter,
		All:       listAll,
	})
	if err != nil {
		return reportError(err)
	}

	return getFormatter().FormatList(os.Stdout, result)
}
