package model

import "fmt"

// Placeholders returned when the page does not carry the expected data.
const (
	EmptyField       = "empty"
	VolumeNotFound   = "volume not found"
	ChapterNotFound  = "chapter not found"
	LinkUndefined    = "undefined"
	CookieHiddenMark = '_'
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// Hidden reports whether the cookie belongs to the site's internal bookkeeping
// and must not be kept in a session.
func (c Cookie) Hidden() bool {
	return len(c.Name) > 0 && c.Name[0] == CookieHiddenMark
}

type Work struct {
	Title    string    `json:"title"`
	Href     string    `json:"href"`
	Cover    string    `json:"cover,omitempty"`
	Chapters []Chapter `json:"chapters,omitempty"`
}

type Chapter struct {
	Title  string `json:"title"`
	Href   string `json:"href"`
	Author string `json:"author"`
	Date   string `json:"date"`
}

type ReaderContent struct {
	Title       string `json:"title"`
	Href        string `json:"href"`
	Volume      string `json:"volume"`
	Chapter     string `json:"chapter"`
	TextContent string `json:"textContent"`
}

func ReaderTitle(volume, chapter string) string {
	return fmt.Sprintf("Volume: %s. Chapter: %s", volume, chapter)
}

// ContentBatch is the result of fetching several chapters with one browser.
// Failed lists the hrefs that were skipped, in input order.
type ContentBatch struct {
	Items  []ReaderContent `json:"items"`
	Failed []string        `json:"failed,omitempty"`
}

func (b *ContentBatch) Complete() bool {
	return len(b.Failed) == 0
}

type ChapterRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type User struct {
	Email      string   `json:"email"`
	Identifier int64    `json:"identifier"`
	RanobeList []Work   `json:"ranobeList"`
	Cookies    []Cookie `json:"cookies"`
}
