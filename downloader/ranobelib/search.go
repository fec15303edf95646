package ranobelib

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"ranobelib-downloader/model"
	"strings"
)

var ErrUnknownSearchKind = errors.New("unknown search type")

const bodyTextScript = `document.body ? document.body.innerText : ""`

// Search runs the site's search endpoint, which answers with a JSON document
// rendered as the page body.
func (r *Ranobelib) Search(ctx context.Context, query string, kind model.SearchKind) (json.RawMessage, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSearchKind, kind)
	}
	log.Printf("Searching %v for %q\n", kind, query)

	searchUrl := fmt.Sprintf("%s/search?type=%s&q=%s", r.baseURL, url.QueryEscape(string(kind)), url.QueryEscape(query))
	var result json.RawMessage
	err := r.withPage(ctx, func(p Page) error {
		if err := p.Navigate(searchUrl, r.navigationTimeout); err != nil {
			return err
		}
		var body string
		if err := p.Evaluate(bodyTextScript, &body); err != nil {
			return fmt.Errorf("failed to read search result: %w", err)
		}
		body = strings.TrimSpace(body)
		if !json.Valid([]byte(body)) {
			return fmt.Errorf("search result is not json: %.64q", body)
		}
		result = json.RawMessage(body)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	return result, nil
}
