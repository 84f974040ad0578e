// Package xmltree loads simulator output documents into an attribute-queryable tree.
package xmltree

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/beevik/etree"

	apperrors "drtkpi/internal/errors"
)

// Document is a fully materialized XML document read from one input source.
type Document struct {
	Source string
	Path   string
	root   *etree.Element
}

// Element is a read-only view of one XML element.
type Element struct {
	el     *etree.Element
	source string
}

// Load opens path, parses it and releases the file handle before returning.
// source names the logical input (e.g. "tripinfo") for error messages.
func Load(source, path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewSourceLoadError(source, path, err)
	}
	defer f.Close()

	doc, err := Parse(source, f)
	if err != nil {
		return nil, apperrors.NewSourceLoadError(source, path, err)
	}
	doc.Path = path
	return doc, nil
}

// Parse reads a document from r.
func Parse(source string, r io.Reader) (*Document, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("parse xml: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	return &Document{Source: source, root: root}, nil
}

// Root returns the document element.
func (d *Document) Root() Element {
	return Element{el: d.root, source: d.Source}
}

// Tag returns the element name.
func (e Element) Tag() string {
	return e.el.Tag
}

// Children returns the direct child elements named tag, in document order.
// An empty tag selects every child element.
func (e Element) Children(tag string) []Element {
	var raw []*etree.Element
	if tag == "" {
		raw = e.el.ChildElements()
	} else {
		raw = e.el.SelectElements(tag)
	}
	out := make([]Element, len(raw))
	for i, c := range raw {
		out[i] = Element{el: c, source: e.source}
	}
	return out
}

// ChildrenWhere returns the direct children named tag whose attribute attr equals value.
func (e Element) ChildrenWhere(tag, attr, value string) []Element {
	var out []Element
	for _, c := range e.Children(tag) {
		if v, ok := c.Attr(attr); ok && v == value {
			out = append(out, c)
		}
	}
	return out
}

// Child returns the first direct child named tag.
func (e Element) Child(tag string) (Element, bool) {
	c := e.el.SelectElement(tag)
	if c == nil {
		return Element{}, false
	}
	return Element{el: c, source: e.source}, true
}

// Attr returns the raw value of attribute name.
func (e Element) Attr(name string) (string, bool) {
	a := e.el.SelectAttr(name)
	if a == nil {
		return "", false
	}
	return a.Value, true
}

// HasAttr reports whether the element carries attribute name.
func (e Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// String returns a required string attribute.
func (e Element) String(name string) (string, error) {
	v, ok := e.Attr(name)
	if !ok {
		return "", apperrors.NewMalformedRecordError(e.source, e.Tag(), name, nil)
	}
	return v, nil
}

// Float returns a required numeric attribute. Non-finite values are rejected.
func (e Element) Float(name string) (float64, error) {
	v, ok := e.Attr(name)
	if !ok {
		return 0, apperrors.NewMalformedRecordError(e.source, e.Tag(), name, nil)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, apperrors.NewMalformedRecordError(e.source, e.Tag(), name, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, apperrors.NewMalformedRecordError(e.source, e.Tag(), name, fmt.Errorf("non-finite value %q", v))
	}
	return f, nil
}
