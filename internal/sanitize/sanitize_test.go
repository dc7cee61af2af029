package sanitize_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandria-lms/alexandria/internal/sanitize"
)

func TestCleanStripsAllMarkup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "The Go Programming Language", "The Go Programming Language"},
		{"surrounding whitespace trimmed", "  Clean Title  ", "Clean Title"},
		{"simple tags removed", "  <b>Clean</b>  ", "Clean"},
		{"script tag and body removed", "<script>alert(1)</script>", ""},
		{"attribute payload removed with the tag", `<img src=x onerror=alert(1)>`, ""},
		{"nested markup flattened", "<div><p>Dune</p></div>", "Dune"},
		{"entities restored to text", "Tom &amp; Jerry", "Tom & Jerry"},
		{"encoded markup stripped after unescape", "&lt;b&gt;Clean&lt;/b&gt;", "Clean"},
		{"encoded payload never becomes live markup", "&lt;img src=x onerror=alert(1)&gt;", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitize.Clean(tt.input))
		})
	}
}

func TestValidateRejectsResidualPayloads(t *testing.T) {
	class := sanitize.TextClass("title", 200)

	tests := []struct {
		name  string
		input string
	}{
		{"javascript protocol", "javascript:alert(1)"},
		{"data protocol", "data:text/html;base64,xxx"},
		{"obfuscated script fragment", "harmless <script src=x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := sanitize.Validate(class, tt.input)
			require.False(t, field.OK())
			assert.Equal(t, "invalid characters", field.Violations[0].Message)
			assert.Equal(t, "title", field.Violations[0].Field)
		})
	}
}

func TestEntityEncodedMarkupNeverSurvives(t *testing.T) {
	class := sanitize.TextClass("title", 200)

	tests := []struct {
		name  string
		input string
	}{
		{"encoded img tag", "&lt;img src=x onerror=alert(1)&gt;"},
		{"encoded script tag", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"double encoded script tag", "&amp;lt;script&amp;gt;alert(1)&amp;lt;/script&amp;gt;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := sanitize.Validate(class, tt.input)
			require.False(t, field.OK(), "cleaned=%q", field.Cleaned)
			lowered := strings.ToLower(field.Cleaned)
			assert.NotContains(t, lowered, "<img")
			assert.NotContains(t, lowered, "<script")
			assert.NotContains(t, lowered, "onerror=")
		})
	}

	// Encoded markup embedded in otherwise valid text is stripped, not
	// resurrected.
	field := sanitize.Validate(class, "Read &lt;b&gt;this&lt;/b&gt; now")
	require.True(t, field.OK())
	assert.NotContains(t, field.Cleaned, "<")
}

func TestValidateIdempotentWithEntities(t *testing.T) {
	class := sanitize.TextClass("title", 200)
	first := sanitize.Validate(class, "Tom &amp; Jerry")
	require.True(t, first.OK())
	assert.Equal(t, "Tom & Jerry", first.Cleaned)

	second := sanitize.Validate(class, first.Cleaned)
	require.True(t, second.OK())
	assert.Equal(t, first.Cleaned, second.Cleaned)
}

func TestValidateAcceptedValueContainsNoPayload(t *testing.T) {
	class := sanitize.TextClass("title", 200)
	field := sanitize.Validate(class, "  <b>Clean</b>  ")
	require.True(t, field.OK())
	assert.Equal(t, "Clean", field.Cleaned)

	lowered := strings.ToLower(field.Cleaned)
	assert.NotContains(t, lowered, "<script")
	assert.NotContains(t, lowered, "javascript:")
	assert.NotContains(t, lowered, "data:")
}

func TestValidateIdempotent(t *testing.T) {
	class := sanitize.TextClass("author", 100)
	first := sanitize.Validate(class, "  Ursula K. <i>Le Guin</i>  ")
	require.True(t, first.OK())

	second := sanitize.Validate(class, first.Cleaned)
	require.True(t, second.OK())
	assert.Equal(t, first.Cleaned, second.Cleaned)
}

func TestValidateEmptiness(t *testing.T) {
	class := sanitize.TextClass("title", 200)

	field := sanitize.Validate(class, "   ")
	require.False(t, field.OK())
	assert.Equal(t, "cannot be empty", field.Violations[0].Message)

	// A value that is nothing but markup must not pass as empty-but-valid.
	field = sanitize.Validate(class, "<script>alert(1)</script>")
	require.False(t, field.OK())
	assert.Equal(t, "cannot be empty", field.Violations[0].Message)

	optional := sanitize.FieldClass{Name: "note", Kind: sanitize.KindText, MaxLen: 200, Optional: true}
	field = sanitize.Validate(optional, "")
	assert.True(t, field.OK())
}

func TestValidateLengthBoundary(t *testing.T) {
	class := sanitize.TextClass("title", 200)

	exact := strings.Repeat("a", 200)
	field := sanitize.Validate(class, exact)
	require.True(t, field.OK())
	assert.Equal(t, exact, field.Cleaned)

	field = sanitize.Validate(class, strings.Repeat("a", 201))
	require.False(t, field.OK())
	assert.Equal(t, "cannot exceed 200 characters", field.Violations[0].Message)
}

func TestValidateYearRange(t *testing.T) {
	class := sanitize.YearClass("publication_year", 2030)

	tests := []struct {
		name    string
		input   string
		wantOK  bool
		message string
	}{
		{"lower bound", "1000", true, ""},
		{"upper bound", "2030", true, ""},
		{"below range", "999", false, "must be between 1000 and 2030"},
		{"above range", "2031", false, "must be between 1000 and 2030"},
		{"not a number", "twenty", false, "must be a whole number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := sanitize.Validate(class, tt.input)
			if tt.wantOK {
				assert.True(t, field.OK())
				return
			}
			require.False(t, field.OK())
			assert.Equal(t, tt.message, field.Violations[0].Message)
		})
	}
}

func TestValidateFreeTextEventHandlers(t *testing.T) {
	class := sanitize.FreeTextClass("message", 500)

	field := sanitize.Validate(class, "click here onload=doEvil()")
	require.False(t, field.OK())
	assert.Equal(t, "invalid characters", field.Violations[0].Message)

	// Single-line classes do not apply the event-handler scan.
	title := sanitize.TextClass("title", 200)
	field = sanitize.Validate(title, "Once=Upon a Time")
	assert.True(t, field.OK())
}

func TestCollect(t *testing.T) {
	title := sanitize.Validate(sanitize.TextClass("title", 200), "")
	author := sanitize.Validate(sanitize.TextClass("author", 100), "javascript:void(0)")
	year := sanitize.Validate(sanitize.YearClass("publication_year", 2030), "2020")

	err := sanitize.Collect(title, author, year)
	require.Error(t, err)

	var verr *sanitize.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 2)
	assert.Equal(t, "title", verr.Violations[0].Field)
	assert.Equal(t, "author", verr.Violations[1].Field)

	assert.NoError(t, sanitize.Collect(year))
}
