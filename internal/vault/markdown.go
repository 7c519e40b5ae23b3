package vault

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	fence = []byte("---")

	// ErrUnterminatedFrontmatter is returned for a file that opens a
	// frontmatter block and never closes it.
	ErrUnterminatedFrontmatter = errors.New("frontmatter started but no closing delimiter found")
)

// Frontmatter is the yaml header of an exported note. Tags are written
// for readers of the vault and ignored on import, they are always derived.
type Frontmatter struct {
	ID      string    `yaml:"id,omitempty"`
	Title   string    `yaml:"title,omitempty"`
	Tags    []string  `yaml:"tags,omitempty"`
	Created time.Time `yaml:"created,omitempty"`
	Updated time.Time `yaml:"updated,omitempty"`
}

// Document is a markdown file split into its frontmatter and body.
type Document struct {
	Frontmatter Frontmatter
	Body        string
}

// Parse splits data into frontmatter and body. A file without a leading
// fence is all body.
func Parse(data []byte) (*Document, error) {
	doc := &Document{}

	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		doc.Body = string(data)
		return doc, nil
	}

	rest := data[bytes.IndexByte(data, '\n')+1:]
	header, body, ok := splitFence(rest)
	if !ok {
		return nil, ErrUnterminatedFrontmatter
	}

	if err := yaml.Unmarshal(header, &doc.Frontmatter); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	doc.Body = strings.TrimPrefix(string(body), "\n")
	doc.Body = strings.TrimPrefix(doc.Body, "\r\n")
	return doc, nil
}

// splitFence finds the closing fence, which must sit on its own line.
func splitFence(data []byte) (header, body []byte, ok bool) {
	offset := 0
	for offset <= len(data) {
		line := data[offset:]
		end := bytes.IndexByte(line, '\n')
		if end >= 0 {
			line = line[:end]
		}

		if bytes.Equal(bytes.TrimRight(line, "\r"), fence) {
			if end < 0 {
				return data[:offset], nil, true
			}
			return data[:offset], data[offset+end+1:], true
		}

		if end < 0 {
			break
		}
		offset += end + 1
	}
	return nil, nil, false
}

// Render serializes the document back to markdown with a frontmatter block.
func (d *Document) Render() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("---\n")
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(d.Frontmatter); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	buf.WriteString("---\n")

	buf.WriteString(d.Body)
	return buf.Bytes(), nil
}
