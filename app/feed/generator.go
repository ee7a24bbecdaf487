package feed

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"slices"
	"strings"
	"time"

	"github.com/lysyi3m/mylog/app/catalog"
)

// Generator renders the catalog as an RSS 2.0 document.
type Generator struct {
	siteTitle string
	baseURL   string
	version   string
}

func NewGenerator(siteTitle, baseURL, version string) *Generator {
	return &Generator{
		siteTitle: siteTitle,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		version:   version,
	}
}

// Run writes articles newest first. Category elements use display names from categories.
func (g *Generator) Run(articles []catalog.Article, categories *catalog.Categories) (string, error) {
	sorted := slices.Clone(articles)
	slices.SortStableFunc(sorted, func(a, b catalog.Article) int {
		return cmp.Or(b.Date.Compare(a.Date), cmp.Compare(b.ID, a.ID))
	})

	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", g.siteTitle, 4)
	g.writeElement(&buf, "link", g.baseURL+"/", 4)
	g.writeElement(&buf, "description", fmt.Sprintf("Latest articles from %s", g.siteTitle), 4)

	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(g.baseURL+"/feed.xml")))

	lastBuildDate := time.Now().In(time.Local)
	if len(sorted) > 0 {
		lastBuildDate = sorted[0].Date
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("MyLog/%s", g.version), 4)

	for _, article := range sorted {
		g.writeItem(&buf, article, categories)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

// ArticleURL is the public address of an article page.
func (g *Generator) ArticleURL(slug string) string {
	return fmt.Sprintf("%s/articles/%s", g.baseURL, slug)
}

func (g *Generator) writeItem(buf *bytes.Buffer, article catalog.Article, categories *catalog.Categories) {
	link := g.ArticleURL(article.Slug)

	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"true\">")
	xml.EscapeText(buf, []byte(link))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", article.Title, 6)
	g.writeElement(buf, "link", link, 6)
	g.writeElement(buf, "description", cmp.Or(article.Excerpt, "No description available"), 6)

	if article.Content != "" && article.Content != article.Excerpt {
		buf.WriteString("      <content:encoded><![CDATA[")
		buf.WriteString(strings.ReplaceAll(article.Content, "]]>", "]]]]><![CDATA[>"))
		buf.WriteString("]]></content:encoded>\n")
	}

	g.writeElement(buf, "pubDate", article.Date.Format(time.RFC1123Z), 6)

	category := article.Category
	if categories != nil {
		category = categories.Lookup(article.Category).DisplayName
	}
	g.writeElement(buf, "category", category, 6)

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	buf.WriteString(strings.Repeat(" ", indent))
	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
