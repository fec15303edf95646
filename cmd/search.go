package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"ranobelib-downloader/config"
	"ranobelib-downloader/model"
	"strings"

	"github.com/spf13/cobra"
)

var flagSearchType string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search works or users",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&flagSearchType, "type", "t", string(model.SearchManga), "manga or user")
	RootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp(config.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	result, err := a.service.Search(ctx, strings.Join(args, " "), model.SearchKind(flagSearchType))
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, result, "", "  "); err != nil {
		return err
	}
	fmt.Println(out.String())
	return nil
}
