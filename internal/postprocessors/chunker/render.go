package chunker

import (
	"fmt"
	"strings"
)

// section accumulates the paragraphs of one chunk's text.
// Empty paragraphs are dropped so optional fields leave no gaps.
type section struct {
	paragraphs []string
}

// newSection starts a chunk with its self-describing header.
func newSection(kind, title, typ string) *section {
	return &section{paragraphs: []string{fmt.Sprintf("%s: %s\nType: %s", kind, title, typ)}}
}

// header appends "Label: value" lines to the header paragraph, skipping empty values.
func (s *section) header(pairs ...string) *section {
	var b strings.Builder
	b.WriteString(s.paragraphs[0])
	for i := 0; i+1 < len(pairs); i += 2 {
		if v := strings.TrimSpace(pairs[i+1]); v != "" {
			fmt.Fprintf(&b, "\n%s: %s", pairs[i], v)
		}
	}
	s.paragraphs[0] = b.String()
	return s
}

// field appends "Label: value" as its own paragraph.
func (s *section) field(label, value string) *section {
	if v := strings.TrimSpace(value); v != "" {
		s.paragraphs = append(s.paragraphs, label+": "+v)
	}
	return s
}

// block appends "Label:" followed by the value on the next line.
func (s *section) block(label, value string) *section {
	if v := strings.TrimSpace(value); v != "" {
		s.paragraphs = append(s.paragraphs, label+":\n"+v)
	}
	return s
}

// text appends a bare paragraph.
func (s *section) text(value string) *section {
	if v := strings.TrimSpace(value); v != "" {
		s.paragraphs = append(s.paragraphs, v)
	}
	return s
}

// bullets appends a "- item" list under label.
func (s *section) bullets(label string, items []string) *section {
	return s.list(label, items, func(_ int) string { return "- " })
}

// numbered appends a "1. item" list under label.
func (s *section) numbered(label string, items []string) *section {
	return s.list(label, items, func(i int) string { return fmt.Sprintf("%d. ", i+1) })
}

func (s *section) list(label string, items []string, prefix func(int) string) *section {
	var b strings.Builder
	n := 0
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if n == 0 {
			b.WriteString(label + ":")
		}
		b.WriteString("\n" + prefix(n) + item)
		n++
	}
	if n > 0 {
		s.paragraphs = append(s.paragraphs, b.String())
	}
	return s
}

// String joins paragraphs with blank lines.
func (s *section) String() string {
	return strings.Join(s.paragraphs, "\n\n")
}

// hasAny returns true if any list has a non-blank item.
func hasAny(lists ...[]string) bool {
	for _, l := range lists {
		for _, item := range l {
			if strings.TrimSpace(item) != "" {
				return true
			}
		}
	}
	return false
}

// joinList renders a list for flat metadata.
func joinList(items []string) string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return strings.Join(out, ",")
}

// slug lowercases a label for use inside a chunk ID.
func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}
