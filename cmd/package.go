package cmd

import (
	"fmt"
	"ranobelib-downloader/epub"
	"strings"

	"github.com/spf13/cobra"
)

type packArgs struct {
	DirPath string
}

var (
	pArgs packArgs
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Repack an unpacked epub directory",
	Long:  "Repack a book directory left next to a downloaded epub, e.g. after editing its chapters by hand",
	RunE:  runPackage,
}

func init() {
	packCmd.Flags().StringVarP(&pArgs.DirPath, "dir-path", "d", "", "directory path")
	RootCmd.AddCommand(packCmd)
}

func runPackage(cmd *cobra.Command, args []string) error {
	if strings.TrimSpace(pArgs.DirPath) == "" {
		return fmt.Errorf("dir path is required")
	}
	err := epub.PackEpub(pArgs.DirPath)
	if err != nil {
		return fmt.Errorf("failed to create epub: %w", err)
	}
	return nil
}
