package runlog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Entry is one recorded message.
type Entry struct {
	Level   Level
	Message string
}

// Transcript records messages in order and renders them as a colour-coded
// HTML log page. It is safe for concurrent use.
type Transcript struct {
	mu      sync.Mutex
	entries []Entry
	title   string
}

// NewTranscript returns an empty transcript whose page carries title.
func NewTranscript(title string) *Transcript {
	return &Transcript{title: title}
}

// Func returns the callback that appends to the transcript.
func (t *Transcript) Func() Func {
	return t.Record
}

// Record appends a message.
func (t *Transcript) Record(message string) {
	level, _ := ParseLevel(message)
	t.mu.Lock()
	t.entries = append(t.entries, Entry{Level: level, Message: message})
	t.mu.Unlock()
}

// Entries returns a copy of the recorded messages.
func (t *Transcript) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Count returns the number of recorded messages at level.
func (t *Transcript) Count(level Level) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, e := range t.entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Reset discards every recorded message.
func (t *Transcript) Reset() {
	t.mu.Lock()
	t.entries = nil
	t.mu.Unlock()
}

// levelColor is the CSS colour of a level on the black log background.
func levelColor(l Level) string {
	switch l {
	case LevelError:
		return "red"
	case LevelSuccess:
		return "lightgreen"
	case LevelWarning:
		return "yellow"
	default:
		return "white"
	}
}

// WriteHTML renders the transcript as a standalone HTML page.
func (t *Transcript) WriteHTML(w io.Writer) error {
	entries := t.Entries()

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	doc.AppendChild(root)

	head := element(atom.Head)
	root.AppendChild(head)
	head.AppendChild(element(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}))
	title := element(atom.Title)
	title.AppendChild(&html.Node{Type: html.TextNode, Data: t.title})
	head.AppendChild(title)

	body := element(atom.Body, html.Attribute{
		Key: "style",
		Val: "background:black;font-family:monospace;padding:8px",
	})
	root.AppendChild(body)

	for _, e := range entries {
		span := element(atom.Span,
			html.Attribute{Key: "class", Val: "log-" + lowerLevel(e.Level)},
			html.Attribute{Key: "style", Val: "color:" + levelColor(e.Level)},
		)
		span.AppendChild(&html.Node{Type: html.TextNode, Data: e.Message})
		body.AppendChild(span)
		body.AppendChild(element(atom.Br))
	}

	bw := bufio.NewWriter(w)
	if err := html.Render(bw, doc); err != nil {
		return fmt.Errorf("failed to render transcript: %w", err)
	}
	return bw.Flush()
}

// Save writes the HTML page to path.
func (t *Transcript) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create transcript: %w", err)
	}
	if err := t.WriteHTML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func lowerLevel(l Level) string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}
