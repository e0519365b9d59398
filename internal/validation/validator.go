package validation

import (
	"encoding/json"
	"errors"
	"fmt"

	"fitforge/coach-app/internal/catalog"
	"fitforge/coach-app/internal/domain"

	"github.com/xeipuuv/gojsonschema"
)

// Result reports the outcome of validating a generated workout document.
// OK is true only when zero errors accumulated across all passes.
type Result struct {
	OK     bool
	Errors []string
}

// CatalogView is what the validator needs from the catalog: existence by id
// and independent name resolution. A *catalog.Snapshot satisfies it.
type CatalogView interface {
	Get(id int64) (domain.ExerciseRecord, bool)
	Resolve(name string) (int64, error)
}

// PayloadValidator runs the structural and referential checks on generated
// workout documents. All passes run; errors accumulate, nothing
// short-circuits.
type PayloadValidator struct {
	schema *gojsonschema.Schema
}

// NewPayloadValidator compiles the embedded payload schema once.
func NewPayloadValidator() (*PayloadValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(workoutPayloadSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile workout payload schema: %w", err)
	}
	return &PayloadValidator{schema: schema}, nil
}

// Validate runs four passes over the document:
//  1. structural schema (types, required fields, value bounds)
//  2. block cardinality invariants
//  3. every referenced exerciseId exists in the catalog
//  4. each item's name independently resolves to the id already on the item
func (v *PayloadValidator) Validate(doc *domain.WorkoutPayload, cat CatalogView) Result {
	var errs []string

	errs = append(errs, v.checkSchema(doc)...)
	errs = append(errs, checkBlockCardinality(doc)...)
	errs = append(errs, checkExerciseIDs(doc, cat)...)
	errs = append(errs, checkNameAgreement(doc, cat)...)

	return Result{OK: len(errs) == 0, Errors: errs}
}

func (v *PayloadValidator) checkSchema(doc *domain.WorkoutPayload) []string {
	raw, err := json.Marshal(doc)
	if err != nil {
		return []string{fmt.Sprintf("payload not serializable: %v", err)}
	}
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return []string{fmt.Sprintf("schema validation failed to run: %v", err)}
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return errs
}

func checkBlockCardinality(doc *domain.WorkoutPayload) []string {
	counts := map[domain.BlockType]int{}
	for _, block := range doc.Blocks {
		counts[block.Type]++
	}

	var errs []string
	for _, bt := range []domain.BlockType{domain.BlockWarmup, domain.BlockMain, domain.BlockRecovery} {
		if counts[bt] != 1 {
			errs = append(errs, fmt.Sprintf("expected exactly one %q block, got %d", bt, counts[bt]))
		}
	}

	for _, block := range doc.Blocks {
		switch block.Type {
		case domain.BlockMain:
			if n := len(block.Items); n < 3 || n > 6 {
				errs = append(errs, fmt.Sprintf("main block must have 3-6 items, got %d", n))
			}
		case domain.BlockRecovery:
			if len(block.Items) < 1 {
				errs = append(errs, "recovery block must have at least 1 item")
			}
		}
	}
	return errs
}

func checkExerciseIDs(doc *domain.WorkoutPayload, cat CatalogView) []string {
	var errs []string
	for _, block := range doc.Blocks {
		for _, item := range block.Items {
			if _, ok := cat.Get(item.ExerciseID); !ok {
				errs = append(errs, fmt.Sprintf("exerciseId %d (%s) does not exist in the catalog", item.ExerciseID, item.Name))
			}
		}
	}
	return errs
}

// checkNameAgreement defends against the model inventing an id despite a
// valid name, or vice versa: the name must resolve to the id on the item.
func checkNameAgreement(doc *domain.WorkoutPayload, cat CatalogView) []string {
	var errs []string
	for _, block := range doc.Blocks {
		for _, item := range block.Items {
			resolved, err := cat.Resolve(item.Name)
			if err != nil {
				var nfe *catalog.NotFoundError
				if errors.As(err, &nfe) {
					errs = append(errs, err.Error())
				} else {
					errs = append(errs, fmt.Sprintf("failed to resolve %q: %v", item.Name, err))
				}
				continue
			}
			if resolved != item.ExerciseID {
				errs = append(errs, fmt.Sprintf("name %q resolves to exercise %d but item carries exerciseId %d", item.Name, resolved, item.ExerciseID))
			}
		}
	}
	return errs
}
