// Package content models the multi-shape post body stored alongside each
// blog post and flattens it into an ordered sequence of renderable units.
//
// Post bodies arrive in one of three historical shapes: a JSON array of typed
// blocks, a legacy plain-text field, or nothing at all. Resolve picks one
// shape, normalizes it, and pairs each unit with its illustration image.
package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind discriminates the block union.
type Kind string

const (
	KindParagraph Kind = "paragraph"
	KindHeading   Kind = "heading"
	KindList      Kind = "list"
)

// Placeholder is rendered when a post carries no body and no excerpt.
const Placeholder = "Content not available"

// Block is one typed unit of post body content. Text carries the payload for
// paragraphs and headings; Items carries it when the source was an array.
// Unrecognized kinds are kept verbatim and render as paragraphs.
type Block struct {
	Kind  Kind
	Text  string
	Items []string
}

// blockJSON is the stored object shape: {"type": ..., "content": ...} where
// content is either a string or an array.
type blockJSON struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

// UnmarshalJSON accepts every shape the backing rows have ever held:
// a bare string, {type, content: string}, or {type, content: [items]}.
// It never fails on payload shape, only on malformed JSON.
func (b *Block) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*b = Block{Kind: KindParagraph, Text: s}
		return nil
	}
	var obj blockJSON
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	kind := Kind(obj.Type)
	if kind == "" {
		kind = KindParagraph
	}
	out := Block{Kind: kind}
	if len(obj.Content) > 0 {
		var text string
		if err := json.Unmarshal(obj.Content, &text); err == nil {
			out.Text = text
		} else {
			var items []any
			if err := json.Unmarshal(obj.Content, &items); err == nil {
				for _, it := range items {
					out.Items = append(out.Items, stringify(it))
				}
			} else {
				var v any
				_ = json.Unmarshal(obj.Content, &v)
				out.Text = stringify(v)
			}
		}
	}
	*b = out
	return nil
}

// MarshalJSON writes the canonical {type, content} object shape, so editing
// a legacy post through the dashboard normalizes it.
func (b Block) MarshalJSON() ([]byte, error) {
	kind := b.Kind
	if kind == "" {
		kind = KindParagraph
	}
	var content any = b.Text
	if b.Kind == KindList && b.Items != nil {
		content = b.Items
	}
	return json.Marshal(blockJSON{Type: string(kind), Content: mustRaw(content)})
}

func mustRaw(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		raw = []byte(`""`)
	}
	return raw
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// ListItems returns the bullet entries for a list block. A scalar payload
// becomes a single-item list.
func (b Block) ListItems() []string {
	if len(b.Items) > 0 {
		return b.Items
	}
	return []string{b.Text}
}

// Unit is one renderable piece of a post body: a block, optionally followed
// by the image that illustrates it.
type Unit struct {
	Block Block
	Image string
}

// Resolve flattens a post body into its ordered unit sequence.
//
// Selection order: typed blocks win outright; otherwise the legacy text is
// split into paragraphs on line breaks (blank lines dropped); otherwise the
// excerpt; otherwise Placeholder. The result always has at least one unit.
//
// Image slot 0 is the hero and is never interleaved; image i+1 illustrates
// the unit at index i. Resolve is pure: identical inputs yield identical
// output and no input can make it fail.
func Resolve(blocks []Block, legacy, excerpt string, images []string) []Unit {
	var picked []Block
	switch {
	case len(blocks) > 0:
		picked = blocks
	case strings.TrimSpace(legacy) != "":
		for _, line := range strings.Split(legacy, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			picked = append(picked, Block{Kind: KindParagraph, Text: line})
		}
	case strings.TrimSpace(excerpt) != "":
		picked = []Block{{Kind: KindParagraph, Text: excerpt}}
	}
	if len(picked) == 0 {
		picked = []Block{{Kind: KindParagraph, Text: Placeholder}}
	}

	units := make([]Unit, len(picked))
	for i, b := range picked {
		units[i] = Unit{Block: b}
		if i+1 < len(images) {
			units[i].Image = images[i+1]
		}
	}
	return units
}

// ParseBlocks decodes a stored content_blocks JSON document. Empty input and
// decode failures both yield nil so callers fall through to the legacy text.
func ParseBlocks(raw string) []Block {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil
	}
	var blocks []Block
	if err := json.Unmarshal([]byte(raw), &blocks); err != nil {
		return nil
	}
	return blocks
}

// EncodeBlocks is the inverse of ParseBlocks for dashboard writes.
func EncodeBlocks(blocks []Block) string {
	if len(blocks) == 0 {
		return ""
	}
	raw, err := json.Marshal(blocks)
	if err != nil {
		return ""
	}
	return string(raw)
}
