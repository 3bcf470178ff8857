package megatec

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

const (
	// Namespace is dictated by the service WSDL.
	Namespace = "http://www.megatec.ru/"

	ContentType = "text/xml; charset=utf-8"
)

// SOAPAction builds the dispatch header value for a method.
func SOAPAction(method string) string {
	return Namespace + method
}

// Param is one named request parameter. The WSDL declares s:sequence almost
// everywhere, so parameter order is significant and Params is a list, not a
// map. Value may be a scalar, a nested Params (one complex element) or an
// IntList (repeated <int> children).
type Param struct {
	Name  string
	Value any
}

type Params []Param

// IntList renders as <int>…</int> children, the shape ArrayOfInt takes on the
// wire (CityKeys, HotelKeys, QuotaTypes, Tariffs, Ages).
type IntList []int

// BuildEnvelope renders a SOAP 1.1 request envelope for method. Values render
// as-is: numbers in decimal text, dates pre-formatted by the caller into one
// of the two accepted shapes (2006-01-02 or 2006-01-02T15:04:05).
func BuildEnvelope(method string, params Params) string {
	var b strings.Builder

	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>`)
	b.WriteString(`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"`)
	b.WriteString(` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"`)
	b.WriteString(` xmlns:xsd="http://www.w3.org/2001/XMLSchema">`)
	b.WriteString(`<soap:Body>`)
	fmt.Fprintf(&b, `<%s xmlns="%s">`, method, Namespace)

	writeParams(&b, params)

	fmt.Fprintf(&b, `</%s>`, method)
	b.WriteString(`</soap:Body>`)
	b.WriteString(`</soap:Envelope>`)

	return b.String()
}

func writeParams(b *strings.Builder, params Params) {
	for _, param := range params {
		writeParam(b, param.Name, param.Value)
	}
}

func writeParam(b *strings.Builder, name string, value any) {
	fmt.Fprintf(b, "<%s>", name)

	switch v := value.(type) {
	case Params:
		writeParams(b, v)
	case IntList:
		for _, n := range v {
			fmt.Fprintf(b, "<int>%d</int>", n)
		}
	case string:
		writeText(b, v)
	case int:
		b.WriteString(strconv.Itoa(v))
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	case float64:
		b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case nil:
		// empty element
	default:
		writeText(b, fmt.Sprint(v))
	}

	fmt.Fprintf(b, "</%s>", name)
}

func writeText(b *strings.Builder, text string) {
	_ = xml.EscapeText(b, []byte(text))
}

// ExtractResult pulls the method-specific payload out of a normalized
// response document: Body → {method}Response → the child ending in Result.
// A SOAP Fault in the body surfaces as *Fault with its faultstring intact.
// When the response element has no Result child the element itself is
// returned, which is what void-ish methods come back as.
func ExtractResult(document map[string]any, method string) (any, error) {
	envelope, ok := ChildMap(document["Envelope"])
	if !ok {
		return nil, parseFaultf("no soap envelope in response")
	}

	body, ok := ChildMap(envelope["Body"])
	if !ok {
		return nil, parseFaultf("no soap body in response")
	}

	if faultNode, found := body["Fault"]; found {
		return nil, faultFrom(faultNode)
	}

	response, found := body[method+"Response"]
	if !found {
		return nil, parseFaultf("no %sResponse element in soap body", method)
	}

	responseMap, ok := ChildMap(response)
	if !ok {
		// e.g. an empty <ConnectResponse /> normalizes to ""
		return response, nil
	}

	for key, value := range responseMap {
		if strings.HasSuffix(key, "Result") {
			return value, nil
		}
	}

	return responseMap, nil
}

func faultFrom(node any) *Fault {
	fault := &Fault{Reason: "unknown soap fault"}

	m, ok := ChildMap(node)
	if !ok {
		if text := Text(node); text != "" {
			fault.Reason = text
		}
		return fault
	}

	if reason := FirstString(m, "faultstring"); reason != "" {
		fault.Reason = reason
	}
	fault.Code = FirstString(m, "faultcode")

	return fault
}
