// =============================================================================
// Swedbank pain.001 Generator - XSD Schema Validation
// =============================================================================
//
// This module validates generated documents against the official
// pain.001.001.03 XSD. The schema file is not distributed with this
// repository; it is picked up from the configured schema path at runtime.
// When the file is missing or unusable, validation degrades to an advisory
// skip instead of failing the generation run.
//
// The compiled schema is cached after the first use, so repeated validation
// within one run only pays the compilation cost once.
//
// =============================================================================

package schema

import (
	"fmt"
	"os"
	"sync"

	"github.com/lestrrat-go/libxml2"
	"github.com/lestrrat-go/libxml2/xsd"
)

// =============================================================================
// RESULT TYPE
// =============================================================================

// Result is the outcome of validating one document.
type Result struct {
	// Valid reports whether the document passed. A skipped validation
	// (schema unavailable) counts as valid with Advisory set.
	Valid bool

	// Violations holds one message per schema violation, in document order.
	Violations []string

	// Advisory is set when validation was skipped and explains why.
	Advisory string
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator validates pain.001 documents against an XSD file. The zero value
// is not usable; construct with NewValidator.
type Validator struct {
	schemaPath string

	once     sync.Once
	schema   *xsd.Schema
	advisory string
}

// NewValidator creates a Validator reading its XSD from schemaPath.
func NewValidator(schemaPath string) *Validator {
	return &Validator{schemaPath: schemaPath}
}

// load compiles the schema on first use. Failures are remembered as an
// advisory so every subsequent Validate call reports the same skip reason.
func (v *Validator) load() {
	if v.schemaPath == "" {
		v.advisory = "schema validation skipped: no schema path configured"
		return
	}

	buf, err := os.ReadFile(v.schemaPath)
	if err != nil {
		v.advisory = fmt.Sprintf("schema validation skipped: cannot read %s: %v", v.schemaPath, err)
		return
	}

	schema, err := xsd.Parse(buf)
	if err != nil {
		v.advisory = fmt.Sprintf("schema validation skipped: cannot compile %s: %v", v.schemaPath, err)
		return
	}

	v.schema = schema
}

// Validate checks a serialized document against the schema.
//
// PARAMETERS:
//   - document: the XML bytes, declaration included.
//
// RETURNS:
//   - Result with Valid=true and an Advisory when the schema is unavailable.
//   - Result with Valid=false and one message when the document does not
//     parse at all.
//   - Result with Valid=false and the full violation list when the schema
//     rejects the document.
func (v *Validator) Validate(document []byte) Result {
	v.once.Do(v.load)

	if v.schema == nil {
		return Result{Valid: true, Advisory: v.advisory}
	}

	doc, err := libxml2.Parse(document)
	if err != nil {
		return Result{
			Valid:      false,
			Violations: []string{fmt.Sprintf("document is not well-formed XML: %v", err)},
		}
	}
	defer doc.Free()

	if err := v.schema.Validate(doc); err != nil {
		return Result{Valid: false, Violations: violationMessages(err)}
	}

	return Result{Valid: true}
}

// Close releases the compiled schema. Safe to call on a Validator that
// never loaded one.
func (v *Validator) Close() {
	if v.schema != nil {
		v.schema.Free()
		v.schema = nil
	}
}

// violationMessages flattens a validation error into per-violation strings.
func violationMessages(err error) []string {
	if sve, ok := err.(xsd.SchemaValidationError); ok {
		errs := sve.Errors()
		messages := make([]string, 0, len(errs))
		for _, e := range errs {
			messages = append(messages, e.Error())
		}
		return messages
	}
	return []string{err.Error()}
}
