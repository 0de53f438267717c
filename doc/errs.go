package doc

import "errors"

var (
	// ErrConstruct indicates a node allocation or value copy failed.
	// It should not occur on a well-formed document and signals an
	// internal fault rather than a recoverable condition.
	ErrConstruct = errors.New("element construction error")

	ErrParse = errors.New("parse error")
)
