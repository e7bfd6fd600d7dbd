package segment

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

var excessiveLinesRe = regexp.MustCompile(`\n{3,}`)

// HTMLText extracts paragraph-structured plain text from fetched
// judgment HTML. Readability isolates the judgment body from site
// chrome; the markdown conversion preserves block boundaries so the
// blank-line splitter sees real paragraphs. When readability cannot
// find an article, a plain visible-text walk is used instead.
type HTMLText struct {
	converter *md.Converter
}

// NewHTMLText creates the HTML-to-text converter.
func NewHTMLText() *HTMLText {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	return &HTMLText{converter: converter}
}

// Extract converts judgment HTML to plain text suitable for Split.
func (h *HTMLText) Extract(body []byte, sourceURL string) (string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return "", fmt.Errorf("empty document")
	}

	pageURL, _ := url.Parse(sourceURL)

	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err == nil && strings.TrimSpace(article.Content) != "" {
		markdown, mdErr := h.converter.ConvertString(article.Content)
		if mdErr == nil && strings.TrimSpace(markdown) != "" {
			return tidy(markdown), nil
		}
	}

	// Fallback: walk the raw document for visible block text.
	text, err := visibleBlockText(body)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no visible text in document")
	}

	return tidy(text), nil
}

// tidy collapses runs of blank lines so paragraph ids stay stable.
func tidy(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimSpace(excessiveLinesRe.ReplaceAllString(text, "\n\n"))
}

// blockTags are elements treated as paragraph boundaries in the
// fallback walk.
var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "blockquote": true, "td": true, "pre": true,
}

// visibleBlockText extracts text from HTML, one block element per
// paragraph, skipping scripts and styles.
func visibleBlockText(body []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}

	var blocks []string
	var current strings.Builder

	endBlock := func() {
		if current.Len() > 0 {
			blocks = append(blocks, current.String())
			current.Reset()
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "head":
				return
			}
			if blockTags[n.Data] {
				endBlock()
			}
		}

		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				if current.Len() > 0 {
					current.WriteString(" ")
				}
				current.WriteString(text)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockTags[n.Data] {
			endBlock()
		}
	}

	walk(doc)
	endBlock()

	return strings.Join(blocks, "\n\n"), nil
}
