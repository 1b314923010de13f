// Package location handles external table locations of the form
// scheme://bucket/prefix, as declared in the external_location table
// property.
package location

import (
	"fmt"
	"net/url"

	"github.com/opencatalog/schemabridge/internal/errors"
)

// Source is a parsed external location: one bucket and one prefix path.
// The prefix keeps its leading slash, matching the path form stored in the
// registry's sources mapping.
type Source struct {
	Bucket string
	Prefix string
}

// Parse splits raw into bucket and prefix. Returns an INVALID_LOCATION
// error when raw is not a scheme://bucket/prefix shaped URI.
func Parse(raw string) (Source, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Source{}, errors.Wrap(errors.ErrCategoryValidation, errors.CodeInvalidLocation,
			fmt.Sprintf("error processing location string: %s", raw), err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Source{}, errors.NewValidationError(errors.CodeInvalidLocation,
			fmt.Sprintf("location %q must have the form scheme://bucket/prefix", raw))
	}
	return Source{Bucket: u.Host, Prefix: u.Path}, nil
}

// Sources returns the registry metadata mapping for the source: exactly one
// bucket key mapping to a one-element prefix list. Multi-location tables
// are not representable in the current document shape.
func (s Source) Sources() map[string][]string {
	return map[string][]string{s.Bucket: {s.Prefix}}
}
