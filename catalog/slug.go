// Package catalog holds the storefront rules that do not touch storage:
// slugs, prices, catalog filtering and form field normalization.
package catalog

import (
	"regexp"
	"strings"

	"github.com/hamim5264/devengine/errs"
)

// spaceClass is whitespace as browsers see it: ASCII spaces, Unicode space
// separators, line and paragraph separators and the BOM.
const spaceClass = `\s\v\p{Zs}\x{2028}\x{2029}\x{feff}`

var (
	disallowedSlugChars = regexp.MustCompile(`[^a-z0-9` + spaceClass + `-]`)
	whitespaceRun       = regexp.MustCompile(`[` + spaceClass + `]+`)
	hyphenRun           = regexp.MustCompile(`-+`)
)

// Slug lowercases s and reduces it to [a-z0-9-] with single interior hyphens.
// Applying it to its own output returns the same string.
func Slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = disallowedSlugChars.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = hyphenRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Slugify is Slug for user input: field names the form field reported on failure.
func Slugify(field, s string) (string, error) {
	slug := Slug(s)
	if slug == "" {
		return "", errs.NewInvalidSlugError(field)
	}
	return slug, nil
}
