package content

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"
)

// Body returns a templ.Component rendering the resolved unit sequence as
// HTML: paragraphs, subheadings, bulleted lists, and illustration images.
func Body(units []Unit) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		renderUnits(&buf, units)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func renderUnits(buf *bytes.Buffer, units []Unit) {
	for _, u := range units {
		switch u.Block.Kind {
		case KindHeading:
			buf.WriteString("<h3 class=\"post-subheading\">")
			buf.WriteString(html.EscapeString(u.Block.Text))
			buf.WriteString("</h3>")
		case KindList:
			buf.WriteString("<ul class=\"post-list\">")
			for _, item := range u.Block.ListItems() {
				buf.WriteString("<li>")
				buf.WriteString(html.EscapeString(item))
				buf.WriteString("</li>")
			}
			buf.WriteString("</ul>")
		default:
			// Paragraph, plus the fallback arm for unknown kinds.
			buf.WriteString("<p class=\"post-paragraph\">")
			buf.WriteString(html.EscapeString(u.Block.Text))
			buf.WriteString("</p>")
		}
		if src := SafeURL(u.Image); src != "" {
			buf.WriteString("<figure class=\"post-illustration\"><img src=\"")
			buf.WriteString(src)
			buf.WriteString("\" alt=\"Article illustration\" loading=\"lazy\" decoding=\"async\"/></figure>")
		}
	}
}

// SafeURL validates and escapes a URL for use in an HTML attribute.
// Relative paths and http(s) URLs pass; everything else is dropped.
func SafeURL(raw string) string {
	val := strings.TrimSpace(raw)
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return html.EscapeString(val)
	default:
		return ""
	}
}
