package sanitize

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// stripPolicy allows zero tags: every HTML/XML element is removed wholesale,
// attributes included.
var stripPolicy = bluemonday.StrictPolicy()

// Residual payload patterns checked after stripping. The stripper handles
// well-formed markup; these catch malformed or obfuscated remnants.
var (
	dangerousPattern    = regexp.MustCompile(`(?i)<script|javascript:|data:`)
	eventHandlerPattern = regexp.MustCompile(`(?i)\bon\w+\s*=`)
)

// maxStripPasses bounds the strip/unescape loop. Each pass removes one
// level of entity encoding; legitimate text stabilizes in one or two.
const maxStripPasses = 8

// Clean trims the value and removes all markup, leaving only text content.
// Stripping and unescaping iterate to a fixpoint: unescaping can turn
// entity-encoded input back into markup, so the stripper must run again
// until nothing changes. The result contains no tags regardless of how
// many encoding layers the input carried.
func Clean(raw string) string {
	cleaned := strings.TrimSpace(raw)
	for i := 0; i < maxStripPasses; i++ {
		next := html.UnescapeString(stripPolicy.Sanitize(cleaned))
		if next == cleaned {
			break
		}
		cleaned = next
	}
	return strings.TrimSpace(cleaned)
}

// Validate runs the full pipeline for one field class over one raw value.
// It is a pure function: identical inputs yield identical results, and an
// accepted cleaned value revalidates to itself with no new violations.
func Validate(class FieldClass, raw string) ValidatedField {
	cleaned := Clean(raw)
	field := ValidatedField{Field: class.Name, Cleaned: cleaned}

	reject := func(msg string) {
		field.Violations = append(field.Violations, Violation{Field: class.Name, Message: msg})
	}

	if dangerousPattern.MatchString(cleaned) {
		reject("invalid characters")
	} else if class.Kind == KindFreeText && eventHandlerPattern.MatchString(cleaned) {
		reject("invalid characters")
	}

	if cleaned == "" {
		if !class.Optional {
			reject("cannot be empty")
		}
		return field
	}

	if class.MaxLen > 0 && utf8.RuneCountInString(cleaned) > class.MaxLen {
		reject(fmt.Sprintf("cannot exceed %d characters", class.MaxLen))
	}

	if class.Kind == KindYear {
		year, err := strconv.Atoi(cleaned)
		if err != nil {
			reject("must be a whole number")
		} else if year < class.YearMin || year > class.YearMax {
			reject(fmt.Sprintf("must be between %d and %d", class.YearMin, class.YearMax))
		}
	}

	return field
}
