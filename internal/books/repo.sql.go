package books

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alexandria-lms/alexandria/internal/platform/httpx"
)

// PGRepository provides PostgreSQL backed persistence for books.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const bookColumns = `id, title, author, publication_year, created_at, updated_at`

// List returns all books ordered by title.
func (r *PGRepository) List(ctx context.Context) ([]Book, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+bookColumns+` FROM books ORDER BY title, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.PublicationYear, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// Get fetches one book by ID.
func (r *PGRepository) Get(ctx context.Context, id int64) (Book, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id)
	var b Book
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &b.PublicationYear, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, httpx.ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

// Create inserts a new book.
func (r *PGRepository) Create(ctx context.Context, book Book) (Book, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO books (title, author, publication_year, created_at, updated_at) VALUES ($1, $2, $3, NOW(), NOW()) RETURNING `+bookColumns,
		book.Title, book.Author, book.PublicationYear)
	var b Book
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &b.PublicationYear, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return Book{}, mapPGError(err)
	}
	return b, nil
}

// Update replaces the stored fields of an existing book.
func (r *PGRepository) Update(ctx context.Context, id int64, book Book) (Book, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE books SET title = $2, author = $3, publication_year = $4, updated_at = NOW() WHERE id = $1 RETURNING `+bookColumns,
		id, book.Title, book.Author, book.PublicationYear)
	var b Book
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &b.PublicationYear, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, httpx.ErrNotFound
		}
		return Book{}, mapPGError(err)
	}
	return b, nil
}

// Delete removes a book by ID. Returns ErrNotFound if nothing was deleted.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// mapPGError surfaces unique violations as duplicates; everything else
// passes through untouched.
func mapPGError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return httpx.ErrDuplicate
	}
	return err
}

var _ Repository = (*PGRepository)(nil)
