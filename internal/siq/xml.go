package siq

import (
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
)

func parseXML(text string) (*xmlquery.Node, error) {
	doc, err := xmlquery.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidXML, err)
	}
	return doc, nil
}

// rootElement returns the document's root element, skipping the XML
// declaration and any top-level comments.
func rootElement(doc *xmlquery.Node) *xmlquery.Node {
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return n
		}
	}
	return nil
}

// childElements returns direct element children, optionally filtered by
// local name. Text, comment, and declaration nodes never count, so
// whitespace in the document cannot affect structure decisions.
func childElements(n *xmlquery.Node, localName string) []*xmlquery.Node {
	if n == nil {
		return nil
	}
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		if localName != "" && c.Data != localName {
			continue
		}
		out = append(out, c)
	}
	return out
}

// firstChild returns the first direct element child with the given
// local name, or nil.
func firstChild(n *xmlquery.Node, localName string) *xmlquery.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == localName {
			return c
		}
	}
	return nil
}

// textContent returns the trimmed inner text of a node, or "" for nil.
func textContent(n *xmlquery.Node) string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.InnerText())
}

func attr(n *xmlquery.Node, name string) string {
	if n == nil {
		return ""
	}
	return n.SelectAttr(name)
}
