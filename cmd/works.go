package cmd

import (
	"fmt"
	"ranobelib-downloader/config"
	"ranobelib-downloader/model"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var flagUserID int64

var worksCmd = &cobra.Command{
	Use:   "works",
	Short: "List bookmarked works",
	Long:  "List the bookmarks of a user, by default the one who logged in last",
	RunE:  runWorks,
}

func init() {
	worksCmd.Flags().Int64VarP(&flagUserID, "user-id", "u", 0, "user id")
	RootCmd.AddCommand(worksCmd)
}

func runWorks(cmd *cobra.Command, args []string) error {
	a, err := newApp(config.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	id := flagUserID
	var user *model.User
	if id == 0 {
		user, err = a.currentUser(ctx)
		if err != nil {
			return err
		}
		id = user.Identifier
	}

	works, err := a.service.ListWorks(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list works: %w", err)
	}
	if user != nil {
		if err := a.store.SaveRanobeList(ctx, user.Email, works); err != nil {
			return err
		}
	}
	printWorks(works)
	return nil
}

func printWorks(works []model.Work) {
	for i, work := range works {
		fmt.Printf("%3d) %s\n     %s\n", i+1, work.Title, work.Href)
	}
}

// selectWork lets the user pick one of the stored bookmarks.
func selectWork(works []model.Work) (model.Work, error) {
	if len(works) == 0 {
		return model.Work{}, fmt.Errorf("no bookmarks stored, run the works command or pass --href")
	}
	items := make([]string, len(works))
	for i, work := range works {
		items[i] = work.Title
	}
	prompt := promptui.Select{
		Label: "Select work",
		Items: items,
		Size:  15,
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return model.Work{}, fmt.Errorf("selection cancelled")
	}
	return works[idx], nil
}
