package plugininstall

import (
	"fmt"
)

// ConflictingSourceError is the error type returned when an installation
// request names more than one mutually-exclusive source option.
type ConflictingSourceError struct {
	Option1, Option2 string
}

func (err ConflictingSourceError) Error() string {
	return fmt.Sprintf("options %q and %q cannot be used together", err.Option1, err.Option2)
}

// InvalidOptionError is the error type returned when an installation
// option combination is malformed in some way other than a source
// conflict, such as a branch given without a git source.
type InvalidOptionError struct {
	Message string
}

func (err InvalidOptionError) Error() string {
	return err.Message
}
