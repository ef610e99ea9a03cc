package vpax

import (
	"bytes"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
)

var bom = []byte("\xef\xbb\xbf")

// Document is a parsed JSON document of the export. Lookups go through ordered
// accessor paths because exporters disagree on key casing.
type Document struct {
	root gjson.Result
}

// ParseDocument validates raw JSON, stripping a leading byte order mark.
func ParseDocument(raw []byte) (*Document, error) {
	raw = bytes.TrimPrefix(raw, bom)
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New("empty document")
	}
	if !gjson.ValidBytes(raw) {
		return nil, errors.New("malformed JSON")
	}
	return &Document{root: gjson.ParseBytes(raw)}, nil
}

// First returns the value at the first path that exists.
func (d *Document) First(paths ...string) gjson.Result {
	if d == nil {
		return gjson.Result{}
	}
	return first(d.root, paths...)
}

func first(r gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

// firstString returns the first non-empty scalar among paths.
func firstString(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() && v.Type != gjson.JSON && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

// field reads a statistics field by its PascalCase name, falling back to camelCase.
func field(r gjson.Result, name string) gjson.Result {
	if v := r.Get(name); v.Exists() {
		return v
	}
	if name == "" {
		return gjson.Result{}
	}
	return r.Get(strings.ToLower(name[:1]) + name[1:])
}

// text renders a string value, or an array of lines joined with newlines.
func text(r gjson.Result) string {
	if !r.IsArray() {
		return r.String()
	}
	var lines []string
	for _, l := range r.Array() {
		lines = append(lines, l.String())
	}
	return strings.Join(lines, "\n")
}
