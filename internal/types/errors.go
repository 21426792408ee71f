package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrReadOnlyCapability is returned when a write workflow is invoked
// without a capability that permits writes.
var ErrReadOnlyCapability = errors.New("capability does not permit writes")

// ValidationError reports bad or missing draft fields. It is raised
// before any I/O is attempted and is recoverable by re-prompting.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid draft: " + strings.Join(e.Fields, "; ")
}

// ImageProcessingError reports a crop or compress failure. Callers
// must not proceed to upload after receiving one.
type ImageProcessingError struct {
	Op  string
	Err error
}

func (e *ImageProcessingError) Error() string {
	return fmt.Sprintf("image %s failed: %v", e.Op, e.Err)
}

func (e *ImageProcessingError) Unwrap() error { return e.Err }

// Workflow step identifiers carried by StorageWriteError.
const (
	StepUploadImage     = "upload_image"
	StepDeleteImage     = "delete_image"
	StepInsertRecipe    = "insert_recipe"
	StepUpdateRecipe    = "update_recipe"
	StepDeleteRecipe    = "delete_recipe"
	StepInsertTagLinks  = "insert_tag_links"
	StepReplaceTagLinks = "replace_tag_links"
	StepDeleteTagLinks  = "delete_tag_links"
	StepNutrition       = "reconcile_nutrition"
)

// StorageWriteError reports a remote write failure with the workflow
// step that failed identified.
type StorageWriteError struct {
	Step string
	Err  error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("storage write failed at %s: %v", e.Step, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }

// NotFoundError reports a read of a missing record.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}
