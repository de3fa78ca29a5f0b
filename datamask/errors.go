package datamask

import (
	"github.com/rise-and-shine/datamask/fieldpath"
	"github.com/rise-and-shine/datamask/regexcache"
	"github.com/rise-and-shine/datamask/val"
	"github.com/rise-and-shine/datamask/value"
)

const (
	// CodeEmptyFields is returned when a field list is given but holds no paths.
	CodeEmptyFields = "EMPTY_FIELDS"
	// CodeUnsupportedType is returned when field paths are applied to data that is not a mapping.
	CodeUnsupportedType = "UNSUPPORTED_TYPE"
	// CodeFieldNotFound is returned for unresolved paths when missing fields are fatal.
	CodeFieldNotFound = "FIELD_NOT_FOUND"
	// CodeUnsupportedOperation is returned when the provider lacks a capability.
	CodeUnsupportedOperation = "UNSUPPORTED_OPERATION"

	CodeInvalidPath      = fieldpath.CodeInvalidPath
	CodeInvalidPattern   = regexcache.CodeInvalidPattern
	CodeMaxDepthExceeded = value.CodeMaxDepthExceeded
	CodeValidationFailed = val.CodeValidationFailed
)
