package cmd

import (
	"fmt"
	"ranobelib-downloader/config"
	"ranobelib-downloader/downloader/ranobelib"
	"ranobelib-downloader/model"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

type loginArgs struct {
	Email    string
	Password string
}

var lArgs loginArgs

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and remember the session",
	Long:  "Sign in to the site with a headless browser, then store the session cookies and the bookmark list",
	RunE:  runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&lArgs.Email, "email", "e", "", "account email")
	loginCmd.Flags().StringVarP(&lArgs.Password, "password", "p", "", "account password, asked for when empty")
	RootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	credentials, err := askCredentials(lArgs)
	if err != nil {
		return err
	}

	a, err := newApp(config.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	user, err := a.service.Login(ctx, credentials)
	if err != nil {
		return fmt.Errorf("failed to login: %w", err)
	}
	if err := a.store.SaveUser(ctx, ranobelib.SiteKey, user); err != nil {
		return err
	}

	fmt.Printf("Logged in as %s (id %d), %d bookmarks\n", user.Email, user.Identifier, len(user.RanobeList))
	printWorks(user.RanobeList)
	return nil
}

func askCredentials(args loginArgs) (model.Credentials, error) {
	credentials := model.Credentials{Email: strings.TrimSpace(args.Email), Password: args.Password}
	if credentials.Email == "" {
		prompt := promptui.Prompt{
			Label: "Email",
			Validate: func(s string) error {
				if !strings.Contains(s, "@") {
					return fmt.Errorf("not an email")
				}
				return nil
			},
		}
		email, err := prompt.Run()
		if err != nil {
			return credentials, fmt.Errorf("input cancelled")
		}
		credentials.Email = strings.TrimSpace(email)
	}
	if credentials.Password == "" {
		prompt := promptui.Prompt{Label: "Password", Mask: '*'}
		password, err := prompt.Run()
		if err != nil {
			return credentials, fmt.Errorf("input cancelled")
		}
		credentials.Password = password
	}
	return credentials, nil
}
