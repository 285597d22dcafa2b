package domain

import "errors"

// ErrCompanyNotFound marks a lookup for a code or ticker the registry does
// not know. Handlers map it to a 404.
var ErrCompanyNotFound = errors.New("company not found")
