package fetcher

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Extracted is the usable content of one HTML page.
type Extracted struct {
	Title string
	Text  string
	Links []string
}

// Tags whose subtrees carry no indexable prose.
var skippedTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"svg": true, "iframe": true,
}

// Extract walks an HTML document collecting the title, visible text and
// anchor hrefs.
func Extract(r io.Reader) (*Extracted, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	out := &Extracted{}
	var text strings.Builder
	var walk func(n *html.Node, inBody bool)
	walk = func(n *html.Node, inBody bool) {
		switch n.Type {
		case html.ElementNode:
			if skippedTags[n.Data] {
				return
			}
			switch n.Data {
			case "title":
				if out.Title == "" {
					out.Title = strings.TrimSpace(nodeText(n))
				}
				return
			case "body":
				inBody = true
			case "a":
				for _, attr := range n.Attr {
					if attr.Key == "href" {
						out.Links = append(out.Links, attr.Val)
						break
					}
				}
			}
		case html.TextNode:
			if inBody {
				if fragment := strings.TrimSpace(n.Data); fragment != "" {
					if text.Len() > 0 {
						text.WriteByte(' ')
					}
					text.WriteString(fragment)
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child, inBody)
		}
	}
	walk(doc, false)

	out.Text = text.String()
	return out, nil
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			b.WriteString(child.Data)
		}
	}
	return b.String()
}
