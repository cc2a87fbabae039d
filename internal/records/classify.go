// Package records turns raw store rows into the views the dashboard displays:
// it classifies page slugs, parses entity annotations and filters record sets.
// Nothing in this package performs I/O or mutates its inputs.
package records

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"ThreatMonitor/internal/domain"
)

// Intent selects the query strategy and labelling of a page.
type Intent string

const (
	IntentCategory Intent = "category"
	IntentEntity   Intent = "entity"
	IntentSource   Intent = "source"
)

const (
	EntityPeople        = "people"
	EntityPlaces        = "places"
	EntityOrganizations = "organizations"
)

var categorySlugs = map[string]struct{}{
	"gvb":      {},
	"crime":    {},
	"politics": {},
	"business": {},
	"other":    {},
	"scams":    {},
}

var entityPrefixes = map[string]string{
	EntityPeople:        prefixPerson,
	EntityPlaces:        prefixLocation,
	EntityOrganizations: prefixOrganization,
}

// NormalizeSlug lower-cases and trims an already decoded path segment.
func NormalizeSlug(raw string) string {
	return strings.TrimSpace(strings.ToLower(raw))
}

// Classify resolves a normalized slug to a page intent. Every slug resolves:
// unknown slugs are treated as a publisher domain fragment.
func Classify(slug string) Intent {
	if _, ok := categorySlugs[slug]; ok {
		return IntentCategory
	}
	if _, ok := entityPrefixes[slug]; ok {
		return IntentEntity
	}
	return IntentSource
}

// StoreCategory maps a category slug to the label stored in keyword_category.
func StoreCategory(slug string) string {
	if slug == "gvb" {
		return domain.CategoryGVB
	}
	return capitalize(slug)
}

// EntityPrefix returns the annotation prefix an entity page selects on.
func EntityPrefix(slug string) (string, bool) {
	prefix, ok := entityPrefixes[slug]
	return prefix, ok
}

// SourceDomain is the part of a source slug matched against site URLs.
func SourceDomain(slug string) string {
	if i := strings.IndexByte(slug, ' '); i >= 0 {
		return slug[:i]
	}
	return slug
}

// DisplayTitle renders the page heading for a slug.
func DisplayTitle(slug string, intent Intent) string {
	switch intent {
	case IntentCategory:
		return StoreCategory(slug) + " News"
	case IntentEntity:
		return "Mentioned " + capitalize(slug)
	default:
		return titleWords(slug) + " Archive"
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// titleWords upper-cases every word character that follows a non-word character,
// so "the-star.co.ke" becomes "The-Star.Co.Ke".
func titleWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevWord := false
	for _, r := range s {
		word := isWordRune(r)
		if word && !prevWord {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
		prevWord = word
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)))
}
