package zapi

import (
	"encoding/xml"
	"sort"
	"strings"
)

// Element is one node of a control-plane request or response tree.
type Element struct {
	Name     string
	Content  string
	Attrs    map[string]string
	Children []*Element
}

// NewElement creates an empty element.
func NewElement(name string) *Element {
	return &Element{Name: name}
}

// NewElementWithChildren creates an element with one text child per entry in
// params, ordered by key.
func NewElementWithChildren(name string, params Params) *Element {
	el := NewElement(name)
	for _, key := range params.keys() {
		el.AddNewChild(key, params[key])
	}
	return el
}

// AddChild appends child and returns the receiver for chaining.
func (e *Element) AddChild(child *Element) *Element {
	e.Children = append(e.Children, child)
	return e
}

// AddNewChild appends a text-only child.
func (e *Element) AddNewChild(name, content string) *Element {
	return e.AddChild(&Element{Name: name, Content: content})
}

// SetAttr sets an attribute on the element.
func (e *Element) SetAttr(name, value string) {
	if e.Attrs == nil {
		e.Attrs = make(map[string]string)
	}
	e.Attrs[name] = value
}

// Attr returns the attribute value, or "" when unset.
func (e *Element) Attr(name string) string {
	if e == nil {
		return ""
	}
	return e.Attrs[name]
}

// Child returns the first direct child with the given name, or nil.
func (e *Element) Child(name string) *Element {
	if e == nil {
		return nil
	}
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildContent returns the text of the named child and whether it exists.
func (e *Element) ChildContent(name string) (string, bool) {
	c := e.Child(name)
	if c == nil {
		return "", false
	}
	return c.Content, true
}

// ChildrenNamed returns every direct child with the given name.
func (e *Element) ChildrenNamed(name string) []*Element {
	if e == nil {
		return nil
	}
	var out []*Element
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// MarshalXML writes the element with attributes in sorted order.
func (e *Element) MarshalXML(enc *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: e.Name}}

	names := make([]string, 0, len(e.Attrs))
	for name := range e.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: name}, Value: e.Attrs[name]})
	}

	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.Content != "" {
		if err := enc.EncodeToken(xml.CharData(e.Content)); err != nil {
			return err
		}
	}
	for _, child := range e.Children {
		if err := enc.EncodeElement(child, xml.StartElement{Name: xml.Name{Local: child.Name}}); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// UnmarshalXML builds the tree, dropping namespaces and surrounding whitespace.
func (e *Element) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	e.Name = start.Name.Local
	for _, attr := range start.Attr {
		if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
			continue
		}
		e.SetAttr(attr.Name.Local, attr.Value)
	}

	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child := &Element{}
			if err := child.UnmarshalXML(dec, t); err != nil {
				return err
			}
			e.Children = append(e.Children, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			e.Content = strings.TrimSpace(text.String())
			return nil
		}
	}
}

// Params are the scalar arguments of a control-plane operation.
type Params map[string]string

func (p Params) keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
