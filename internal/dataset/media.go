package dataset

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MediaBaseURL hosts the images referenced by relative src attributes.
const MediaBaseURL = "https://iili.io/"

// FixMedia rewrites <img> tags so relative sources point at MediaBaseURL and
// fixed widths are dropped. Fragments without images are returned as is.
func FixMedia(fragment string) string {
	if !strings.Contains(strings.ToLower(fragment), "<img") {
		return fragment
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return fragment
	}

	var sb strings.Builder
	for _, n := range nodes {
		fixImages(n)
		if err := html.Render(&sb, n); err != nil {
			return fragment
		}
	}
	return sb.String()
}

func fixImages(n *html.Node) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Img {
		attrs := n.Attr[:0]
		for _, a := range n.Attr {
			switch a.Key {
			case "width":
				continue
			case "src":
				if a.Val != "" && !strings.HasPrefix(a.Val, "https://") {
					a.Val = MediaBaseURL + a.Val
				}
			}
			attrs = append(attrs, a)
		}
		n.Attr = attrs
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		fixImages(c)
	}
}

// StripTags returns the text content of an HTML fragment, for terminal
// rendering and prompts. Images become "[image]".
func StripTags(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return fragment
	}
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return fragment
	}
	var sb strings.Builder
	for _, n := range nodes {
		collectText(&sb, n)
	}
	return strings.TrimSpace(sb.String())
}

func collectText(sb *strings.Builder, n *html.Node) {
	switch {
	case n.Type == html.TextNode:
		sb.WriteString(n.Data)
	case n.Type == html.ElementNode && n.DataAtom == atom.Img:
		sb.WriteString("[image]")
	case n.Type == html.ElementNode && n.DataAtom == atom.Br:
		sb.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(sb, c)
	}
	if n.Type == html.ElementNode && (n.DataAtom == atom.P || n.DataAtom == atom.Div || n.DataAtom == atom.Li) {
		sb.WriteString("\n")
	}
}
