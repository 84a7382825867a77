// Package ets implements the executable test suite for JSON-FG documents.
//
// Checks run in a fixed, statically declared order. The schema validation
// check is always first: its outcome is evaluated before anything else
// executes and, on request, gates the rest of the suite.
package ets

import (
	"fmt"

	"github.com/woozymasta/jsonfg-validator/internal/document"

	"github.com/rs/zerolog/log"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Result codes for a single requirement check.
const (
	CodePassed  = "PASSED"
	CodeFailed  = "FAILED"
	CodeSkipped = "SKIPPED"
)

const specBase = "http://www.opengis.net/spec/json-fg-1/0.2/"

// testID expands a short requirement key into its identifying URI.
func testID(key string) string {
	return specBase + key
}

// SchemaStore resolves a document type tag to the authoritative schema file
// for it. Implemented by bundle.Store.
type SchemaStore interface {
	Resolve(typeTag string) (string, error)
}

// Result is the outcome of one requirement check.
type Result struct {
	ID      string   `json:"id"`
	Code    string   `json:"code"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// Report aggregates all requirement results for one document.
// Summary partitions Tests by code exactly.
type Report struct {
	Summary map[string]int `json:"summary"`
	Tests   []Result       `json:"tests"`
}

// Envelope wraps the report under the ets-report key, matching the wire
// format consumers expect.
type Envelope struct {
	Report Report `json:"ets-report"`
}

// AbortError is returned by Run when the schema validation check fails and
// the caller asked to gate the suite on it. It carries the violation list.
type AbortError struct {
	Errors []string
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("record fails JSON FG schema validation, stopping ETS: %d error(s)", len(e.Errors))
}

type checkFunc func(*Suite) (Result, error)

type descriptor struct {
	key string
	run checkFunc
}

// registry is the fixed check order. The schema validation check must stay
// at index 0; Run relies on that for the gating rule.
var registry = []descriptor{
	{"req/core/schema-valid", (*Suite).checkSchemaValid},
	{"req/core/metadata", (*Suite).checkConformance},
	{"req/core/instant", (*Suite).checkTemporalInstant},
	{"req/core/interval", (*Suite).checkTemporalInterval},
	{"req/core/instant-and-interval", (*Suite).checkInstantAndInterval},
	{"req/core/utc", (*Suite).checkTemporalUTC},
	{"req/core/coordinate-dimension", (*Suite).checkCoordinateDimension},
	{"req/core/geometry-wgs84", (*Suite).checkGeometryWGS84},
}

// Suite runs every requirement check against one document.
// Checks receive a read-only view of the document and never mutate it.
type Suite struct {
	doc    *document.Document
	store  SchemaStore
	schema *jsonschema.Schema // compiled at most once per run
}

// NewSuite returns a suite for doc resolving schemas through store.
func NewSuite(doc *document.Document, store SchemaStore) *Suite {
	return &Suite{doc: doc, store: store}
}

// Run executes all requirement checks in registry order and assembles the
// report. When failOnSchemaValidation is set and the schema check fails,
// Run aborts with *AbortError and produces no report. A schema that cannot
// be resolved or compiled aborts the run regardless of the flag.
func (s *Suite) Run(failOnSchemaValidation bool) (*Envelope, error) {
	first, err := registry[0].run(s)
	if err != nil {
		return nil, err
	}

	if first.Code == CodeFailed && failOnSchemaValidation {
		log.Error().
			Strs("errors", first.Errors).
			Msg("Record fails JSON FG validation, stopping ETS")
		return nil, &AbortError{Errors: first.Errors}
	}

	results := make([]Result, 0, len(registry))
	results = append(results, first)
	for _, d := range registry[1:] {
		results = append(results, s.safeRun(d))
	}

	summary := map[string]int{
		CodePassed:  0,
		CodeFailed:  0,
		CodeSkipped: 0,
	}
	for _, r := range results {
		summary[r.Code]++
	}

	return &Envelope{Report: Report{Summary: summary, Tests: results}}, nil
}

// safeRun executes one check behind an error and panic boundary so a
// misbehaving check becomes a FAILED result instead of killing the run.
func (s *Suite) safeRun(d descriptor) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("check", d.key).Interface("panic", r).Msg("Check panicked")
			res = Result{
				ID:      testID(d.key),
				Code:    CodeFailed,
				Message: fmt.Sprintf("internal error: %v", r),
			}
		}
	}()

	res, err := d.run(s)
	if err != nil {
		res = Result{ID: testID(d.key), Code: CodeFailed, Message: err.Error()}
	}

	return res
}
