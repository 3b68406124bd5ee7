package content

import (
	"errors"
	"fmt"
)

// Markup diagnostics. They are collected on the unit and never stop parsing.
var (
	ErrUnrecognizedTag        = errors.New("unrecognized tag")
	ErrBlockTagNotAtLineStart = errors.New("block tag not starting in new line")
)

// TagError reports a tag the unit could not place.
type TagError struct {
	Tag string
	Err error
}

func (e *TagError) Error() string {
	return fmt.Sprintf("%v '@%s'", e.Err, e.Tag)
}

func (e *TagError) Unwrap() error { return e.Err }
