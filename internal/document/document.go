// Package document loads and parses JSON-FG documents.
//
// Parsing performs no validation: optional members are nil when absent and
// every shape question is left to the test suite.
package document

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/woozymasta/jsonfg-validator/internal/fetch"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Document is a parsed JSON-FG document root.
type Document struct {
	Type       string    `json:"type"`
	ConformsTo []string  `json:"conformsTo"`
	Time       *Temporal `json:"time"`
	Geometry   *Geometry `json:"geometry"`

	raw any
}

// Temporal is the JSON-FG time member. Absent string members are empty.
type Temporal struct {
	Date      string   `json:"date"`
	Timestamp string   `json:"timestamp"`
	Interval  []string `json:"interval"`
}

// Geometry is a GeoJSON-style geometry. Coordinates keeps the raw nested
// array form so checks can walk rings and multi-geometries of any depth.
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates any        `json:"coordinates"`
	Geometries  []Geometry `json:"geometries"`
}

// ParseError reports input that is not a valid JSON-FG document.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("encoding error: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse decodes a JSON-FG document from r. The document is decoded twice:
// into the typed Document the checks navigate, and into a raw tree kept for
// schema validation.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	raw, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		// a member with an unexpected shape is a schema violation, not a
		// parse failure: salvage what fits and let the suite report it
		doc = looseDecode(data)
	}
	doc.raw = raw

	return &doc, nil
}

// looseDecode extracts the known members one by one, leaving mismatched
// ones at their zero value.
func looseDecode(data []byte) Document {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return Document{}
	}

	var doc Document
	_ = json.Unmarshal(members["type"], &doc.Type)
	_ = json.Unmarshal(members["conformsTo"], &doc.ConformsTo)
	_ = json.Unmarshal(members["time"], &doc.Time)
	_ = json.Unmarshal(members["geometry"], &doc.Geometry)
	return doc
}

// Load reads a document from a local file.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// FromURL fetches and parses a remote document.
func FromURL(client *http.Client, url string) (*Document, error) {
	resp, err := fetch.Get(client, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	return Parse(resp.Body)
}

// Raw returns the document tree as decoded JSON, suitable for feeding to a
// schema validator.
func (d *Document) Raw() any {
	return d.raw
}
