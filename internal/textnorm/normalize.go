// Package textnorm turns a fetched status page into one searchable line of text.
package textnorm

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// dropped elements never contribute text.
var dropped = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// block elements act as word boundaries. Inline tags do not, so markup
// inside a Japanese phrase (運転<b>見合わせ</b>) keeps the phrase intact.
var block = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "caption": true, "dd": true, "div": true, "dl": true,
	"dt": true, "fieldset": true, "figcaption": true, "footer": true,
	"form": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "header": true, "hr": true, "li": true, "main": true,
	"nav": true, "ol": true, "option": true, "p": true, "pre": true,
	"section": true, "table": true, "td": true, "th": true, "title": true,
	"tr": true, "ul": true,
}

// Normalize strips markup, applies NFKC so full-width digits and punctuation
// compare equal to their ASCII forms, and collapses every whitespace run to a
// single space. Invalid UTF-8 bytes are dropped. Malformed markup is handled
// best-effort; it never fails.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	z := html.NewTokenizer(strings.NewReader(raw))
	var b strings.Builder
	b.Grow(len(raw) / 2)
	skip := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return Collapse(norm.NFKC.String(strings.ToValidUTF8(b.String(), "")))
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if dropped[tag] {
				switch {
				case tt == html.StartTagToken:
					skip++
				case tt == html.EndTagToken && skip > 0:
					skip--
				}
			}
			if block[tag] {
				b.WriteByte(' ')
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

// Collapse joins the whitespace-separated fields of s with single spaces.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
