// =============================================================================
// Swedbank pain.001 Generator - Generation Pipeline
// =============================================================================
//
// This module ties the stages together: batch validation and document
// assembly (painxml), then schema validation (schema). It is the single
// entry point the CLI uses per journal batch.
//
// PIPELINE STAGES:
//   1. Build     - validate the batch, assemble and serialize the document.
//   2. Validate  - check the result against the pain.001.001.03 XSD.
//   3. Package   - attach the output filename and the validation outcome.
//
// Schema violations are reported with a hard cap on the message list, so a
// structurally broken document does not flood the logs.
//
// =============================================================================

package pipeline

import (
	"fmt"
	"strings"

	"github.com/nordkonto/swedbank-pain001/internal/config"
	"github.com/nordkonto/swedbank-pain001/internal/idgen"
	"github.com/nordkonto/swedbank-pain001/internal/model"
	"github.com/nordkonto/swedbank-pain001/internal/painxml"
	"github.com/nordkonto/swedbank-pain001/internal/schema"
)

// maxReportedViolations caps the violations quoted in a SchemaViolationError.
const maxReportedViolations = 10

// =============================================================================
// ERROR TYPES
// =============================================================================

// SchemaViolationError is returned when a generated document fails XSD
// validation. The document itself is preserved on the error so callers can
// still write it out for inspection.
type SchemaViolationError struct {
	Journal    string
	Violations []string
	Document   []byte
}

func (e *SchemaViolationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "journal %s: generated document failed schema validation:", e.Journal)

	shown := e.Violations
	if len(shown) > maxReportedViolations {
		shown = shown[:maxReportedViolations]
	}
	for _, v := range shown {
		sb.WriteString("\n  - ")
		sb.WriteString(v)
	}
	if extra := len(e.Violations) - len(shown); extra > 0 {
		fmt.Fprintf(&sb, "\n  ... and %d more", extra)
	}
	return sb.String()
}

// =============================================================================
// PIPELINE
// =============================================================================

// Pipeline generates validated pain.001 documents. One Pipeline is shared by
// all journals of a run; the journal is supplied per call.
type Pipeline struct {
	ids       idgen.Source
	validator *schema.Validator
}

// New creates a Pipeline using the given ID source and schema validator.
func New(ids idgen.Source, validator *schema.Validator) *Pipeline {
	return &Pipeline{ids: ids, validator: validator}
}

// GenerateValidated runs the full pipeline for one journal batch.
//
// PARAMETERS:
//   - journal: the journal configuration the batch belongs to.
//   - payments: the payments to include, in batch-file order.
//
// RETURNS:
//   - A GeneratedDocument whose Valid flag and Advisory reflect the schema
//     validation outcome.
//   - A validation.ConfigurationError or validation.BatchValidationError
//     when the batch is rejected, or a SchemaViolationError when the
//     document fails the XSD.
func (p *Pipeline) GenerateValidated(journal *config.JournalConfig, payments []model.PaymentInstruction) (*model.GeneratedDocument, error) {
	builder := painxml.NewBuilder(journal, p.ids)
	content, err := builder.Build(payments)
	if err != nil {
		return nil, err
	}

	result := p.validator.Validate(content)
	doc := &model.GeneratedDocument{
		Filename: p.Filename(journal),
		Content:  content,
		Valid:    result.Valid,
		Errors:   result.Violations,
		Advisory: result.Advisory,
	}

	if !result.Valid {
		return doc, &SchemaViolationError{
			Journal:    journal.Code,
			Violations: result.Violations,
			Document:   content,
		}
	}
	return doc, nil
}

// Filename derives the output filename for a journal at the current
// generation timestamp: swedbank_pain001_<journal>_<YYYYMMDD_HHMMSS>.xml.
func (p *Pipeline) Filename(journal *config.JournalConfig) string {
	code := journal.Code
	if code == "" {
		code = "payment"
	}
	return fmt.Sprintf("swedbank_pain001_%s_%s.xml",
		strings.ToLower(code), p.ids.Now().Format("20060102_150405"))
}
