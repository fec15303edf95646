package ranobelib

import (
	"context"
	"errors"
	"fmt"
	"log"
	"ranobelib-downloader/model"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var ErrMissingCredentials = errors.New("email and password are required")

const (
	showLoginSelector  = "#show-login-button"
	loginModalSelector = "#sign-in-modal"
	emailInputSelector = "input[name=email]"
	passwordSelector   = "input[name=password]"
	submitSelector     = "#sign-in-form .form__footer button[type=submit]"
	avatarSelector     = ".header-right-menu__avatar"
)

// Login signs in through the site's modal and returns the session cookies,
// the numeric user id and the user's bookmarks, all read from one browser.
func (r *Ranobelib) Login(ctx context.Context, credentials model.Credentials) (*model.User, error) {
	if credentials.Email == "" || credentials.Password == "" {
		return nil, ErrMissingCredentials
	}
	log.Printf("Logging in as %v\n", credentials.Email)

	user := &model.User{Email: credentials.Email}
	err := r.withPage(ctx, func(p Page) error {
		if err := p.Navigate(r.baseURL, r.navigationTimeout); err != nil {
			return err
		}
		if err := p.Click(showLoginSelector); err != nil {
			return fmt.Errorf("failed to open login form: %w", err)
		}
		if err := p.WaitVisible(loginModalSelector); err != nil {
			return fmt.Errorf("failed to wait for login form: %w", err)
		}
		if err := p.SendKeys(emailInputSelector, credentials.Email); err != nil {
			return fmt.Errorf("failed to type email: %w", err)
		}
		if err := p.SendKeys(passwordSelector, credentials.Password); err != nil {
			return fmt.Errorf("failed to type password: %w", err)
		}
		if err := p.Submit(submitSelector); err != nil {
			return err
		}

		html, err := p.HTML()
		if err != nil {
			return fmt.Errorf("failed to read page: %w", err)
		}
		user.Identifier = identifierFromPage(html)

		cookies, err := p.Cookies()
		if err != nil {
			return fmt.Errorf("failed to read cookies: %w", err)
		}
		user.Cookies = visibleCookies(cookies)

		works, err := r.listWorks(p, user.Identifier)
		if err != nil {
			return err
		}
		user.RanobeList = works
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	return user, nil
}

func identifierFromPage(html string) int64 {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0
	}
	src, ok := doc.Find(avatarSelector).First().Attr("src")
	if !ok {
		return 0
	}
	return ParseIdentifier(src)
}

// ParseIdentifier reads the user id from an avatar url, which keeps it in the
// second to last path segment (".../avatars/12345/avatar.png"). It returns 0
// when the segment is missing or not a number.
func ParseIdentifier(src string) int64 {
	src, _, _ = strings.Cut(src, "?")
	parts := strings.Split(src, "/")
	if len(parts) < 2 {
		return 0
	}
	id, err := strconv.ParseInt(parts[len(parts)-2], 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func visibleCookies(cookies []model.Cookie) []model.Cookie {
	result := make([]model.Cookie, 0, len(cookies))
	for _, c := range cookies {
		if c.Hidden() {
			continue
		}
		result = append(result, c)
	}
	return result
}
