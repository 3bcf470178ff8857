package megatec

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// TextKey holds the direct text of an element that also carries attributes or
// children. Plain text-only elements normalize to a bare string instead.
const TextKey = "#text"

const xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"

// Parse flattens an XML document into nested map[string]any / []any / string
// values. Namespace prefixes are stripped from element and attribute names,
// xmlns and xsi attributes are dropped, attributes merge into the element's
// mapping, and repeated sibling names collect into a slice. Whitespace-only
// text becomes the empty string, never nil.
func Parse(data []byte) (map[string]any, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	document := map[string]any{}
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, decoderFault(err)
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}

		element, err := parseElement(decoder, start)
		if err != nil {
			return nil, err
		}
		appendChild(document, start.Name.Local, element)
	}

	if len(document) == 0 {
		return nil, parseFaultf("empty document")
	}

	return document, nil
}

func parseElement(decoder *xml.Decoder, start xml.StartElement) (any, error) {
	merged := map[string]any{}
	for _, attr := range start.Attr {
		if isNamespaceAttr(attr) {
			continue
		}
		merged[attr.Name.Local] = attr.Value
	}

	children := map[string]any{}
	var text strings.Builder

	for {
		token, err := decoder.Token()
		if err != nil {
			return nil, decoderFault(err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			child, err := parseElement(decoder, t)
			if err != nil {
				return nil, err
			}
			appendChild(children, t.Name.Local, child)

		case xml.CharData:
			text.Write(t)

		case xml.EndElement:
			return assemble(merged, children, strings.TrimSpace(text.String()))
		}
	}
}

// assemble applies the flattening rules for one closed element. Children win
// over a same-named attribute; the reserved text key must stay free.
func assemble(merged map[string]any, children map[string]any, text string) (any, error) {
	if len(merged) == 0 && len(children) == 0 {
		return text, nil
	}

	for name, child := range children {
		merged[name] = child
	}

	if text != "" && len(children) == 0 {
		if _, taken := merged[TextKey]; taken {
			return nil, parseFaultf("text content collides with attribute %q", TextKey)
		}
		merged[TextKey] = text
	}

	return merged, nil
}

func appendChild(parent map[string]any, name string, child any) {
	existing, ok := parent[name]
	if !ok {
		parent[name] = child
		return
	}

	if list, ok := existing.([]any); ok {
		parent[name] = append(list, child)
		return
	}

	parent[name] = []any{existing, child}
}

func isNamespaceAttr(attr xml.Attr) bool {
	return attr.Name.Local == "xmlns" ||
		attr.Name.Space == "xmlns" ||
		attr.Name.Space == xsiNamespace
}

func decoderFault(err error) *ParseFault {
	if syntax, ok := err.(*xml.SyntaxError); ok {
		return &ParseFault{Msg: syntax.Msg, Line: syntax.Line}
	}
	return &ParseFault{Msg: err.Error()}
}
