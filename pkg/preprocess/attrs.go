package preprocess

import (
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/yaklabco/mdbook-pandoc/pkg/css"
	"github.com/yaklabco/mdbook-pandoc/pkg/pandoc/native"
)

// sizeProperties are the CSS properties carried into attributes for targets
// that drop raw HTML.
var sizeProperties = []string{"width", "height"}

func attrName(a html.Attribute) string {
	if a.Namespace != "" {
		return a.Namespace + ":" + a.Key
	}
	return a.Key
}

// attrs converts the attributes of an HTML element. Targets that keep raw
// HTML get the literal attributes. Others get the element's size from its
// inline style and stylesheet classes, followed by the literal attributes
// other than style.
func (c *converter) attrs(attrs []html.Attribute) native.Attr {
	var (
		out     native.Attr
		classes []string
		style   string
		literal []native.KV
	)
	for _, a := range attrs {
		switch name := attrName(a); name {
		case "id":
			out.ID = a.Val
		case "class":
			classes = strings.Fields(a.Val)
		default:
			if name == "style" {
				style = a.Val
			}
			literal = append(literal, native.KV{Key: name, Value: a.Val})
		}
	}
	out.Classes = classes

	if c.htmlLike() {
		out.KVs = literal
		return out
	}

	isLiteral := func(key string) bool {
		return slices.ContainsFunc(literal, func(kv native.KV) bool { return kv.Key == key })
	}
	derived := make(map[string]bool)

	decls := css.ParseInline(style)
	for _, decl := range decls {
		if !slices.Contains(sizeProperties, decl.Property) || isLiteral(decl.Property) || derived[decl.Property] {
			continue
		}
		value, _ := css.Lookup(decls, decl.Property)
		out.KVs = append(out.KVs, native.KV{Key: decl.Property, Value: value})
		derived[decl.Property] = true
	}

	fromClasses := c.classProperties(classes)
	keys := make([]string, 0, len(fromClasses))
	for key := range fromClasses {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		if !slices.Contains(sizeProperties, key) || isLiteral(key) || derived[key] {
			continue
		}
		out.KVs = append(out.KVs, native.KV{Key: key, Value: fromClasses[key]})
		derived[key] = true
	}

	for _, kv := range literal {
		if kv.Key != "style" {
			out.KVs = append(out.KVs, kv)
		}
	}
	return out
}

// classProperties merges the stylesheet declarations of classes. Later
// classes override earlier ones.
func (c *converter) classProperties(classes []string) map[string]string {
	props := make(map[string]string)
	if c.p.styles == nil {
		return props
	}
	for _, class := range classes {
		for prop, value := range c.p.styles.Class(class) {
			props[prop] = value
		}
	}
	return props
}

// displayNone reports whether the element is hidden by its style or its
// classes.
func (c *converter) displayNone(attrs []html.Attribute) bool {
	var classes []string
	for _, a := range attrs {
		switch a.Key {
		case "style":
			if value, ok := css.Lookup(css.ParseInline(a.Val), "display"); ok && value == "none" {
				return true
			}
		case "class":
			classes = strings.Fields(a.Val)
		}
	}
	return c.classProperties(classes)["display"] == "none"
}
