package preprocess

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/yaklabco/mdbook-pandoc/pkg/parser/goldmark"
)

// NodeID addresses a node of a tree arena.
type NodeID int

const noNode NodeID = -1

type nodeKind int

const (
	nodeDocument nodeKind = iota
	nodeComment
	nodeText
	nodeElement
	nodePlaceholder
)

// placeholderTag names the synthetic element that anchors a run of Markdown
// events in the HTML stream.
const placeholderTag = "mdbook-pandoc-md"

const bucketAttr = "data-bucket"

type node struct {
	kind nodeKind

	// Element name and attributes.
	name  string
	attrs []html.Attribute

	// Text or comment content.
	text string

	// Placeholder bucket.
	bucket int

	parent, firstChild, lastChild, prev, next NodeID
}

// tree is the merged document of one chapter: HTML nodes and placeholders
// for the Markdown event buckets, all held in one arena.
type tree struct {
	nodes   []node
	buckets [][]goldmark.Spanned

	// placeholders maps a bucket to its placeholder node.
	placeholders []NodeID
}

func newTree(buckets [][]goldmark.Spanned) *tree {
	t := &tree{
		buckets:      buckets,
		placeholders: make([]NodeID, len(buckets)),
	}
	for i := range t.placeholders {
		t.placeholders[i] = noNode
	}
	t.add(node{kind: nodeDocument})
	return t
}

// root is the document node.
func (t *tree) root() NodeID { return 0 }

func (t *tree) node(id NodeID) *node { return &t.nodes[id] }

func (t *tree) add(n node) NodeID {
	n.parent, n.firstChild, n.lastChild, n.prev, n.next = noNode, noNode, noNode, noNode, noNode
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

func (t *tree) appendChild(parent, child NodeID) {
	p := t.node(parent)
	c := t.node(child)
	c.parent = parent
	c.prev = p.lastChild
	if p.lastChild != noNode {
		t.node(p.lastChild).next = child
	} else {
		p.firstChild = child
	}
	p.lastChild = child
}

func (t *tree) hasChildren(id NodeID) bool {
	return t.node(id).firstChild != noNode
}

// children returns the child ids of a node in order.
func (t *tree) children(id NodeID) []NodeID {
	var ids []NodeID
	for c := t.node(id).firstChild; c != noNode; c = t.node(c).next {
		ids = append(ids, c)
	}
	return ids
}

func (t *tree) attr(id NodeID, key string) (string, bool) {
	for _, a := range t.node(id).attrs {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// isElement reports whether id is an element or a placeholder. noNode
// counts as an element so text at the edges of a parent is treated like
// text between elements.
func (t *tree) isElementOrNone(id NodeID) bool {
	if id == noNode {
		return true
	}
	kind := t.node(id).kind
	return kind == nodeElement || kind == nodePlaceholder
}

// adopt converts parsed HTML nodes into arena nodes below parent.
func (t *tree) adopt(parent NodeID, hn *html.Node) {
	var n node
	switch hn.Type {
	case html.TextNode:
		n = node{kind: nodeText, text: hn.Data}
	case html.CommentNode:
		n = node{kind: nodeComment, text: hn.Data}
	case html.ElementNode:
		if bucket, ok := placeholderBucket(hn); ok && bucket < len(t.buckets) && t.placeholders[bucket] == noNode {
			id := t.add(node{kind: nodePlaceholder, name: placeholderTag, bucket: bucket})
			t.placeholders[bucket] = id
			t.appendChild(parent, id)
			// Placeholders are written empty; anything the parser moved
			// into one belongs next to it.
			for c := hn.FirstChild; c != nil; c = c.NextSibling {
				t.adopt(parent, c)
			}
			return
		}
		n = node{kind: nodeElement, name: hn.Data, attrs: hn.Attr}
	default:
		for c := hn.FirstChild; c != nil; c = c.NextSibling {
			t.adopt(parent, c)
		}
		return
	}

	id := t.add(n)
	t.appendChild(parent, id)
	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		t.adopt(id, c)
	}
}

func placeholderBucket(hn *html.Node) (int, bool) {
	if hn.Data != placeholderTag || hn.Namespace != "" {
		return 0, false
	}
	for _, a := range hn.Attr {
		if a.Key == bucketAttr {
			bucket, err := strconv.Atoi(a.Val)
			return bucket, err == nil && bucket >= 0
		}
	}
	return 0, false
}

// orphans returns the buckets that have no placeholder in the tree, which
// happens when raw HTML turned the placeholder markup into text.
func (t *tree) orphans() []int {
	var buckets []int
	for bucket, id := range t.placeholders {
		if id == noNode {
			buckets = append(buckets, bucket)
		}
	}
	return buckets
}

// attachOrphans appends placeholders for orphaned buckets to the document.
func (t *tree) attachOrphans() []int {
	orphans := t.orphans()
	for _, bucket := range orphans {
		id := t.add(node{kind: nodePlaceholder, name: placeholderTag, bucket: bucket})
		t.placeholders[bucket] = id
		t.appendChild(t.root(), id)
	}
	return orphans
}

// renderHTML serializes the subtree at id. Comments are dropped.
func (t *tree) renderHTML(sb *strings.Builder, id NodeID) {
	n := t.node(id)
	switch n.kind {
	case nodeText:
		sb.WriteString(html.EscapeString(n.text))
	case nodeElement:
		sb.WriteString(startTag(n.name, n.attrs))
		for c := n.firstChild; c != noNode; c = t.node(c).next {
			t.renderHTML(sb, c)
		}
		sb.WriteString(endTag(n.name))
	case nodeDocument, nodeComment, nodePlaceholder:
	}
}

func startTag(name string, attrs []html.Attribute) string {
	return html.Token{Type: html.StartTagToken, Data: name, Attr: attrs}.String()
}

func endTag(name string) string {
	return "</" + name + ">"
}
