package cmd

import (
	"context"
	"fmt"
	"ranobelib-downloader/config"
	"ranobelib-downloader/model"
	"strings"

	"github.com/spf13/cobra"
)

var flagHref string

var chaptersCmd = &cobra.Command{
	Use:   "chapters",
	Short: "List the chapters of a work",
	RunE:  runChapters,
}

func init() {
	chaptersCmd.Flags().StringVar(&flagHref, "href", "", "work href, e.g. 12345--some-title; picked from bookmarks when empty")
	RootCmd.AddCommand(chaptersCmd)
}

func runChapters(cmd *cobra.Command, args []string) error {
	a, err := newApp(config.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	work, err := a.resolveWork(ctx, flagHref)
	if err != nil {
		return err
	}
	chapters, err := a.service.ListChapters(ctx, work.Href)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d chapters\n", work.Title, len(chapters))
	for i, chapter := range chapters {
		fmt.Printf("%4d) %s  [%s, %s]\n      %s\n", i+1, chapter.Title, chapter.Author, chapter.Date, chapter.Href)
	}
	return nil
}

// resolveWork uses href when given, otherwise asks for one of the stored
// bookmarks of the current user.
func (a *app) resolveWork(ctx context.Context, href string) (model.Work, error) {
	href = strings.TrimPrefix(strings.TrimSpace(href), "/")
	user, err := a.currentUser(ctx)
	if href != "" {
		if err == nil {
			for _, work := range user.RanobeList {
				if work.Href == href {
					return work, nil
				}
			}
		}
		return model.Work{Title: href, Href: href}, nil
	}
	if err != nil {
		return model.Work{}, err
	}
	return selectWork(user.RanobeList)
}
