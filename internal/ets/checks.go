package ets

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// conformanceClasses are the recognized core conformance identifiers, in
// URI and bracketed short form.
var conformanceClasses = []string{
	"http://www.opengis.net/spec/json-fg-1/0.2/conf/core",
	"[ogc-json-fg-1-0.2:core]",
}

var violationPrinter = message.NewPrinter(language.English)

// checkSchemaValid validates the document against the authoritative JSON-FG
// schema for its type. An unresolvable or uncompilable schema is a
// configuration error that aborts the whole run.
func (s *Suite) checkSchemaValid() (Result, error) {
	status := Result{ID: testID("req/core/schema-valid"), Code: CodePassed}

	switch s.doc.Type {
	case "Feature", "FeatureCollection":
	default:
		status.Code = CodeFailed
		status.Message = fmt.Sprintf(
			"unrecognized document type %q, expected Feature or FeatureCollection", s.doc.Type)
		return status, nil
	}

	schema, err := s.loadSchema()
	if err != nil {
		return Result{}, err
	}

	log.Debug().Str("type", s.doc.Type).Msg("Validating document against schema")

	err = schema.Validate(s.doc.Raw())
	if err == nil {
		return status, nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return Result{}, fmt.Errorf("schema validation: %w", err)
	}

	violations := flattenViolations(verr, nil)
	status.Code = CodeFailed
	status.Message = fmt.Sprintf("%d error(s)", len(violations))
	status.Errors = violations

	return status, nil
}

// loadSchema resolves and compiles the schema for the document type at most
// once per suite.
func (s *Suite) loadSchema() (*jsonschema.Schema, error) {
	if s.schema != nil {
		return s.schema, nil
	}

	path, err := s.store.Resolve(s.doc.Type)
	if err != nil {
		return nil, fmt.Errorf("schema lookup: %w", err)
	}

	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft2020)
	schema, err := c.Compile(path)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", path, err)
	}

	s.schema = schema
	return schema, nil
}

// flattenViolations collects leaf validation errors as "$.path: message"
// pairs, depth first so sibling order is stable.
func flattenViolations(ve *jsonschema.ValidationError, out []string) []string {
	if len(ve.Causes) == 0 {
		msg := ve.ErrorKind.LocalizedString(violationPrinter)
		return append(out, fmt.Sprintf("%s: %s", jsonPath(ve.InstanceLocation), msg))
	}
	for _, cause := range ve.Causes {
		out = flattenViolations(cause, out)
	}
	return out
}

// jsonPath renders an instance location in $.member[0] form.
func jsonPath(location []string) string {
	var b strings.Builder
	b.WriteString("$")
	for _, seg := range location {
		if isIndex(seg) {
			fmt.Fprintf(&b, "[%s]", seg)
		} else {
			b.WriteString(".")
			b.WriteString(seg)
		}
	}
	return b.String()
}

func isIndex(seg string) bool {
	if seg == "" {
		return false
	}
	for _, r := range seg {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// checkConformance verifies the document declares a recognized core
// conformance class.
func (s *Suite) checkConformance() (Result, error) {
	status := Result{ID: testID("req/core/metadata"), Code: CodePassed}

	if s.doc.ConformsTo == nil {
		status.Code = CodeFailed
		status.Message = "Missing conformsTo member"
		return status, nil
	}

	found := false
	for _, cc := range conformanceClasses {
		if slices.Contains(s.doc.ConformsTo, cc) {
			found = true
			break
		}
	}
	if !found {
		status.Code = CodeFailed
		status.Message = "Missing valid conformsTo member"
	}

	return status, nil
}

// The temporal instant and interval shapes are fully constrained by the
// schema; these two checks exist to enumerate the conformance classes.

func (s *Suite) checkTemporalInstant() (Result, error) {
	return Result{
		ID:      testID("req/core/instant"),
		Code:    CodePassed,
		Message: "Passes given data is compliant/valid to schema",
	}, nil
}

func (s *Suite) checkTemporalInterval() (Result, error) {
	return Result{
		ID:      testID("req/core/interval"),
		Code:    CodePassed,
		Message: "Passes given data is compliant/valid to schema",
	}, nil
}
