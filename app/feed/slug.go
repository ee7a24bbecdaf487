package feed

import (
	"net/url"
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify turns a title into a URL-safe slug: diacritics are stripped,
// letters lowercased and every other run of characters becomes one dash.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}
	plain = cases.Lower(language.Und).String(plain)

	var b strings.Builder
	dash := false
	for _, r := range plain {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// Basenames shared by many pages of a site.
var genericBasenames = map[string]bool{
	"index":   true,
	"default": true,
	"home":    true,
	"main":    true,
	"page":    true,
	"post":    true,
	"article": true,
	"entry":   true,
}

// SlugFromLink derives a slug from the last path segment of link, or returns
// an empty string when the link has no usable path or ends in a generic name
// such as index.html.
func SlugFromLink(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}

	base := path.Base(strings.TrimSuffix(u.Path, "/"))
	if base == "." || base == "/" {
		return ""
	}

	slug := Slugify(strings.TrimSuffix(base, path.Ext(base)))
	if genericBasenames[slug] {
		return ""
	}
	return slug
}
