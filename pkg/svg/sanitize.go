package svg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/singnet/ens-avatar-go/pkg/model"
)

// Sanitizer removes executable and redirect-capable content from raw SVG
// markup. There is no ambient implementation: callers hand one in explicitly.
type Sanitizer interface {
	Sanitize(raw string) ([]byte, error)
}

// SanitizerFunc adapts a function to Sanitizer.
type SanitizerFunc func(raw string) ([]byte, error)

// Sanitize calls f.
func (f SanitizerFunc) Sanitize(raw string) ([]byte, error) {
	return f(raw)
}

// Policy is the default Sanitizer. It walks the document as XML, preserving
// element and attribute case, and drops:
//   - forbidden elements and everything inside them
//   - event handler attributes (on*)
//   - href-like attributes whose value uses a scriptable scheme
//   - animation elements targeting an href-like attribute, and animation
//     values (values, from, to, by) that use a scriptable scheme
//   - comments, processing instructions other than the XML declaration, and doctypes
//
// Output is a deterministic serialisation, so sanitising twice yields the same bytes.
type Policy struct {
	// ForbiddenElements are matched case-insensitively on the local name.
	ForbiddenElements []string
	// ForbiddenSchemes are URL schemes rejected in href, src, action and animation values.
	ForbiddenSchemes []string
}

// DefaultPolicy strips scripts, foreign content and navigation primitives.
func DefaultPolicy() *Policy {
	return &Policy{
		ForbiddenElements: []string{
			"script", "foreignobject", "iframe", "object", "embed", "meta",
			"link", "base", "form", "handler", "listener", "noscript",
		},
		ForbiddenSchemes: []string{"javascript:", "vbscript:", "data:text/html"},
	}
}

var (
	// urlAttributes are checked against ForbiddenSchemes.
	urlAttributes = []string{"href", "src", "action", "formaction"}
	// animationElements can rewrite another attribute of their parent at runtime.
	animationElements = []string{"animate", "set", "animatemotion", "animatetransform"}
)

// ErrNoSanitizer is raised at the point of use when SVG content has to be
// sanitised and no Sanitizer was configured.
var ErrNoSanitizer = model.NewError(model.KindSanitizerRequired,
	"an SVG sanitizer must be supplied to process SVG content", "")

// Sanitize implements Sanitizer.
func (p *Policy) Sanitize(raw string) ([]byte, error) {
	dec := xml.NewDecoder(strings.NewReader(raw))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity

	var out bytes.Buffer
	skipDepth := 0
	depth := 0
	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("svg: parse markup: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if skipDepth > 0 {
				continue
			}
			if p.forbiddenElement(t.Name.Local) || animatesURL(t) {
				skipDepth = depth
				continue
			}
			p.writeStart(&out, t)
		case xml.EndElement:
			if skipDepth > 0 {
				if depth == skipDepth {
					skipDepth = 0
				}
				depth--
				continue
			}
			depth--
			out.WriteString("</")
			out.WriteString(qualified(t.Name))
			out.WriteByte('>')
		case xml.CharData:
			if skipDepth > 0 {
				continue
			}
			_ = xml.EscapeText(&out, t)
		case xml.ProcInst:
			if skipDepth == 0 && t.Target == "xml" && out.Len() == 0 {
				out.WriteString("<?xml ")
				out.Write(bytes.TrimSpace(t.Inst))
				out.WriteString("?>")
			}
		case xml.Comment, xml.Directive:
		}
	}
	return out.Bytes(), nil
}

func (p *Policy) writeStart(out *bytes.Buffer, t xml.StartElement) {
	out.WriteByte('<')
	out.WriteString(qualified(t.Name))
	for _, attr := range t.Attr {
		if !p.allowedAttr(attr) {
			continue
		}
		out.WriteByte(' ')
		out.WriteString(qualified(attr.Name))
		out.WriteString(`="`)
		_ = xml.EscapeText(out, []byte(attr.Value))
		out.WriteByte('"')
	}
	out.WriteByte('>')
}

func (p *Policy) forbiddenElement(local string) bool {
	for _, name := range p.ForbiddenElements {
		if strings.EqualFold(name, local) {
			return true
		}
	}
	return false
}

func (p *Policy) allowedAttr(attr xml.Attr) bool {
	local := strings.ToLower(attr.Name.Local)
	if strings.HasPrefix(local, "on") {
		return false
	}
	switch {
	case slices.Contains(urlAttributes, local), local == "from", local == "to", local == "by":
		return !p.forbiddenURL(attr.Value)
	case local == "values":
		for _, v := range strings.Split(attr.Value, ";") {
			if p.forbiddenURL(v) {
				return false
			}
		}
	}
	return true
}

func (p *Policy) forbiddenURL(value string) bool {
	value = strings.ToLower(strings.Join(strings.Fields(value), ""))
	for _, scheme := range p.ForbiddenSchemes {
		if strings.HasPrefix(value, scheme) {
			return true
		}
	}
	return false
}

// animatesURL reports whether t is an animation element whose attributeName
// targets an href-like attribute, with or without a namespace prefix.
func animatesURL(t xml.StartElement) bool {
	if !slices.Contains(animationElements, strings.ToLower(t.Name.Local)) {
		return false
	}
	for _, attr := range t.Attr {
		if !strings.EqualFold(attr.Name.Local, "attributeName") {
			continue
		}
		target := strings.ToLower(strings.TrimSpace(attr.Value))
		if i := strings.LastIndexByte(target, ':'); i >= 0 {
			target = target[i+1:]
		}
		if slices.Contains(urlAttributes, target) {
			return true
		}
	}
	return false
}

// qualified renders a raw (untranslated) name, keeping its prefix.
func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
