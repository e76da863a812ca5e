package dashboard

import (
	"bytes"
	"html"
	"io"
	"strconv"
	"strings"
)

const svgNamespace = "http://www.w3.org/2000/svg"

// EncodeSVG writes the scene rooted at n as SVG markup. Attributes are emitted
// in sorted order so identical scenes always produce identical bytes.
func EncodeSVG(w io.Writer, n *Node) error {
	var buf bytes.Buffer
	writeNode(&buf, n, 0)
	_, err := w.Write(buf.Bytes())
	return err
}

// SVGString is EncodeSVG into a string.
func SVGString(n *Node) string {
	var buf bytes.Buffer
	writeNode(&buf, n, 0)
	return buf.String()
}

func writeNode(buf *bytes.Buffer, n *Node, depth int) {
	if n == nil {
		return
	}
	buf.WriteString(strings.Repeat("  ", depth))
	buf.WriteByte('<')
	buf.WriteString(n.Tag)
	if n.Class != "" {
		writeAttr(buf, "class", n.Class)
	}
	for _, key := range sortedKeys(n.Attrs) {
		if key == "class" {
			continue
		}
		writeAttr(buf, key, n.Attrs[key])
	}
	if len(n.Styles) > 0 {
		var style strings.Builder
		for i, key := range sortedKeys(n.Styles) {
			if i > 0 {
				style.WriteString("; ")
			}
			style.WriteString(key)
			style.WriteString(": ")
			style.WriteString(n.Styles[key])
		}
		writeAttr(buf, "style", style.String())
	}
	if n.Text == "" && len(n.Children) == 0 && len(n.Animations) == 0 {
		buf.WriteString("/>\n")
		return
	}
	buf.WriteByte('>')
	if n.Text != "" && len(n.Children) == 0 && len(n.Animations) == 0 {
		buf.WriteString(html.EscapeString(n.Text))
		buf.WriteString("</")
		buf.WriteString(n.Tag)
		buf.WriteString(">\n")
		return
	}
	buf.WriteByte('\n')
	if n.Text != "" {
		buf.WriteString(strings.Repeat("  ", depth+1))
		buf.WriteString(html.EscapeString(n.Text))
		buf.WriteByte('\n')
	}
	for _, anim := range n.Animations {
		writeAnimation(buf, anim, depth+1)
	}
	for _, child := range n.Children {
		writeNode(buf, child, depth+1)
	}
	buf.WriteString(strings.Repeat("  ", depth))
	buf.WriteString("</")
	buf.WriteString(n.Tag)
	buf.WriteString(">\n")
}

// writeAnimation emits <animate> for plain attributes and <animateTransform>
// for translate transforms. Other transform animations are dropped.
func writeAnimation(buf *bytes.Buffer, anim Animation, depth int) {
	tag, from, to := "animate", anim.From, anim.To
	if anim.Attr == "transform" {
		var okFrom, okTo bool
		from, okFrom = translateValues(anim.From)
		to, okTo = translateValues(anim.To)
		if !okFrom || !okTo {
			return
		}
		tag = "animateTransform"
	}
	buf.WriteString(strings.Repeat("  ", depth))
	buf.WriteString("<" + tag)
	writeAttr(buf, "attributeName", anim.Attr)
	if tag == "animateTransform" {
		writeAttr(buf, "type", "translate")
	}
	writeAttr(buf, "from", from)
	writeAttr(buf, "to", to)
	writeAttr(buf, "dur", strconv.FormatInt(anim.Duration.Milliseconds(), 10)+"ms")
	writeAttr(buf, "fill", "freeze")
	buf.WriteString("/>\n")
}

// translateValues turns "translate(x,y)" into the "x y" form SMIL expects.
func translateValues(transform string) (string, bool) {
	inner, ok := strings.CutPrefix(strings.TrimSpace(transform), "translate(")
	if !ok {
		return "", false
	}
	inner, ok = strings.CutSuffix(inner, ")")
	if !ok {
		return "", false
	}
	return strings.Join(strings.FieldsFunc(inner, func(r rune) bool { return r == ',' || r == ' ' }), " "), true
}

func writeAttr(buf *bytes.Buffer, key, value string) {
	buf.WriteByte(' ')
	buf.WriteString(key)
	buf.WriteString(`="`)
	buf.WriteString(html.EscapeString(value))
	buf.WriteByte('"')
}
