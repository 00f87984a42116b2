package model

import (
	"bytes"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
)

// FileIndent is the indentation used for every file the library writes
const FileIndent = "    "

// TopicFileName returns the file name of a topic ("<topic>.json")
func TopicFileName(topic string) string {
	return topic + ".json"
}

// TopicNameFromFile strips directories and the .json extension
func TopicNameFromFile(file string) string {
	if i := strings.LastIndexAny(file, "/\\"); i >= 0 {
		file = file[i+1:]
	}
	return strings.TrimSuffix(file, ".json")
}

// DecodeTopic parses a topic file. Objects become subtopics, strings
// become titles; the key order of every object is preserved.
func DecodeTopic(name string, data []byte) (*Node, error) {
	p := newParser(TopicFileName(name), data)
	root := &Node{Name: name, Kind: DetermineKind(Shape{Root: true})}
	if err := p.expectObject(); err != nil {
		return nil, err
	}
	if err := p.children(root); err != nil {
		return nil, err
	}
	if _, err := p.dec.Token(); err != io.EOF {
		return nil, p.fail(errors.New("unexpected data after topic object"))
	}
	return root, nil
}

// EncodeTopic serializes a topic root to the on-disk format
func EncodeTopic(root *Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := appendContainer(&buf, root, FileIndent, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// parser walks the token stream of one document. A token stream is the
// only way to observe object key order while decoding.
type parser struct {
	file string
	data []byte
	dec  *stdjson.Decoder
}

func newParser(file string, data []byte) *parser {
	dec := stdjson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return &parser{file: file, data: data, dec: dec}
}

func (p *parser) fail(err error) error {
	offset := p.dec.InputOffset()
	var se *stdjson.SyntaxError
	if errors.As(err, &se) {
		offset = se.Offset
	}
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return newParseError(p.file, p.data, offset, err)
}

func (p *parser) expectObject() error {
	tok, err := p.dec.Token()
	if err != nil {
		return p.fail(err)
	}
	if d, ok := tok.(stdjson.Delim); !ok || d != '{' {
		return p.fail(fmt.Errorf("topic must be a JSON object, got %v", tok))
	}
	return nil
}

// children decodes object members into parent until the closing brace.
func (p *parser) children(parent *Node) error {
	for p.dec.More() {
		tok, err := p.dec.Token()
		if err != nil {
			return p.fail(err)
		}
		key, ok := tok.(string)
		if !ok {
			return p.fail(fmt.Errorf("expected object key, got %v", tok))
		}
		tok, err = p.dec.Token()
		if err != nil {
			return p.fail(err)
		}
		child := &Node{Name: key}
		switch v := tok.(type) {
		case string:
			child.Playlist = v
			child.Kind = DetermineKind(Shape{HasValue: true})
		case stdjson.Delim:
			if v != '{' {
				return p.fail(fmt.Errorf("value for %q must be an object or a string", key))
			}
			if err := p.children(child); err != nil {
				return err
			}
			child.Kind = DetermineKind(Shape{Children: len(child.Children)})
		default:
			return p.fail(fmt.Errorf("value for %q must be an object or a string", key))
		}
		parent.setChild(child, -1)
	}
	if _, err := p.dec.Token(); err != nil {
		return p.fail(err)
	}
	return nil
}

// appendString writes s as a JSON string. HTML characters stay literal so
// files written by other tools round-trip unchanged.
func appendString(buf *bytes.Buffer, s string) error {
	b, err := json.MarshalNoEscape(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func appendContainer(buf *bytes.Buffer, n *Node, indent string, depth int) error {
	if len(n.Children) == 0 {
		buf.WriteString("{}")
		return nil
	}
	buf.WriteByte('{')
	sep := ":"
	if indent != "" {
		sep = ": "
	}
	for i, c := range n.Children {
		if i > 0 {
			buf.WriteByte(',')
		}
		newline(buf, indent, depth+1)
		if err := appendString(buf, c.Name); err != nil {
			return err
		}
		buf.WriteString(sep)
		var err error
		if c.Kind == KindTitle {
			err = appendString(buf, c.Playlist)
		} else {
			err = appendContainer(buf, c, indent, depth+1)
		}
		if err != nil {
			return err
		}
	}
	newline(buf, indent, depth)
	buf.WriteByte('}')
	return nil
}

func newline(buf *bytes.Buffer, indent string, depth int) {
	if indent == "" {
		return
	}
	buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		buf.WriteString(indent)
	}
}
