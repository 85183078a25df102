package api

import "fmt"

// Convention selects which of the two backend flavours the client speaks.
// The flavours differ in auth route prefixes, in the HTTP status used for
// validation failures, and in the shape of the validation-error body. One
// deployment speaks exactly one convention.
type Convention int

const (
	// ConventionExpress: flat auth routes (/login), validation failures are
	// 400 with an errors array of {path, msg} entries.
	ConventionExpress Convention = iota

	// ConventionLaravel: prefixed auth routes (/auth/login), validation
	// failures are 422 with an errors map of field -> messages.
	ConventionLaravel
)

// ParseConvention maps a config string to a Convention. An empty string
// defaults to the Express convention.
func ParseConvention(s string) (Convention, error) {
	switch s {
	case "", "express":
		return ConventionExpress, nil
	case "laravel":
		return ConventionLaravel, nil
	}
	return 0, fmt.Errorf("unknown backend convention: %s", s)
}

// String returns the config spelling of the convention.
func (c Convention) String() string {
	if c == ConventionLaravel {
		return "laravel"
	}
	return "express"
}

// ValidationStatus is the HTTP status the backend uses for validation
// failures under this convention.
func (c Convention) ValidationStatus() int {
	if c == ConventionLaravel {
		return 422
	}
	return 400
}

// authPath returns the route for an auth endpoint name ("login", "logout",
// "register", "me") under this convention.
func (c Convention) authPath(name string) string {
	if c == ConventionLaravel {
		return "/auth/" + name
	}
	return "/" + name
}
