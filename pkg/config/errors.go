package config

import "errors"

var (
	// ErrParsingConfig indicates the environment could not be parsed into
	// the config struct
	ErrParsingConfig = errors.New("config.parsing_failed")

	// ErrNilPointer indicates a nil pointer was passed to Load
	ErrNilPointer = errors.New("config.nil_pointer")
)
