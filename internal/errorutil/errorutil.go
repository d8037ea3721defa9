package errorutil

import "errors"

// ErrDataIntegrity is a base error type to use for failures that are due to
// call data that cannot be applied to a registry, such as a cost vector with
// the wrong number of dimensions.
var ErrDataIntegrity = errors.New("data integrity error")

// ErrNoResults represents situations in which a lookup found nothing.
var ErrNoResults = errors.New("no results returned")
