package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xyproto/unzip"
)

var unpackCmd = &cobra.Command{
	Use:   "unpack <archive.zip>",
	Short: "Unpack an archived data drop into the data directory",
	Long: `Unpack extracts a zip archive of day folders into the data root, so
that archived exchange data drops can be replayed directly.

Example:
  straddle unpack btc_may_2025.zip -d ./data`,
	Args: cobra.ExactArgs(1),
	RunE: runUnpack,
}

var unpackDataRoot string

func init() {
	rootCmd.AddCommand(unpackCmd)

	unpackCmd.Flags().StringVarP(&unpackDataRoot, "data", "d", "./data", "destination data root")
}

func runUnpack(cmd *cobra.Command, args []string) error {
	archive := args[0]
	if err := unzip.Extract(archive, unpackDataRoot); err != nil {
		return fmt.Errorf("unpack %s: %w", archive, err)
	}
	fmt.Printf("Unpacked %s into %s\n", archive, unpackDataRoot)
	return nil
}
