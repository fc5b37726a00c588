package htmlutil

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// ScriptBodies returns the text content of every <script> element in
// the document, in document order. Empty bodies are skipped.
func ScriptBodies(doc *goquery.Document) []string {
	var bodies []string
	for _, node := range doc.Find("script").Nodes {
		text := GetText(node)
		if strings.Trim(text, " \t\n") == "" {
			continue
		}
		bodies = append(bodies, text)
	}
	return bodies
}
