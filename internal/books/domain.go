package books

import (
	"time"

	"github.com/alexandria-lms/alexandria/internal/sanitize"
)

// Book is a catalog record.
type Book struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	PublicationYear int       `json:"publication_year"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Input carries the raw, untrusted field values of a create or update
// submission. Nothing here is stored before passing the sanitizer.
type Input struct {
	Title           string
	Author          string
	PublicationYear string
}

// Field length limits for catalog records.
const (
	TitleMaxLen  = 200
	AuthorMaxLen = 100
)

// fieldClasses bundles the validation rules for one configured year bound.
type fieldClasses struct {
	title  sanitize.FieldClass
	author sanitize.FieldClass
	year   sanitize.FieldClass
}

func newFieldClasses(yearMax int) fieldClasses {
	return fieldClasses{
		title:  sanitize.TextClass("title", TitleMaxLen),
		author: sanitize.TextClass("author", AuthorMaxLen),
		year:   sanitize.YearClass("publication_year", yearMax),
	}
}
