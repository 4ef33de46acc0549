package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshgraph/pkg/mesh"
)

// Compile errors. Every one aborts the whole compile.
var (
	ErrEmptyInput          = errors.New("mesh has no objects")
	ErrMaterialRange       = errors.New("material key out of range")
	ErrAllocation          = errors.New("batch allocation failed")
	ErrAttributeResolution = errors.New("face index does not resolve")
	ErrBatchMismatch       = errors.New("batch count differs from estimate")
)

// faceError attaches the source location of a face to err.
func faceError(err error, obj *mesh.Object, group *mesh.Group, face int) error {
	return fmt.Errorf("object %q group %q face %d: %w", obj.Name, group.Name, face, err)
}
