package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Oxyrus/gallery/internal/storage"
)

const photoColumns = `id, locator, name, album_name, date_taken, favorite`

func (s *Store) QueryAllPhotos(ctx context.Context) ([]storage.Photo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+photoColumns+`
		FROM photos
		ORDER BY date_taken DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list photos: %w", err)
	}
	return collectPhotos(rows)
}

func (s *Store) QueryPhotosByAlbum(ctx context.Context, albumName string) ([]storage.Photo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+photoColumns+`
		FROM photos
		WHERE album_name = ?
		ORDER BY date_taken DESC, id DESC`,
		albumName,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list album photos: %w", err)
	}
	return collectPhotos(rows)
}

// GetByLocator returns the photo indexed under locator.
func (s *Store) GetByLocator(ctx context.Context, locator string) (storage.Photo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+photoColumns+`
		FROM photos
		WHERE locator = ?`,
		locator,
	)
	return scanPhoto(row)
}

func (s *Store) Upsert(ctx context.Context, record storage.PhotoRecord) (storage.Photo, error) {
	if record.Locator == "" {
		return storage.Photo{}, fmt.Errorf("sqlite: upsert photo: locator must not be empty")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO photos (locator, name, album_name, date_taken)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(locator) DO UPDATE SET
			name = CASE WHEN photos.renamed = 1 THEN photos.name ELSE excluded.name END,
			album_name = excluded.album_name,
			date_taken = excluded.date_taken`,
		record.Locator,
		record.Name,
		record.AlbumName,
		toMillis(record.DateTaken),
	)
	if err != nil {
		return storage.Photo{}, fmt.Errorf("sqlite: upsert photo: %w", err)
	}

	return s.GetByLocator(ctx, record.Locator)
}

func (s *Store) Locators(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT locator FROM photos ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list locators: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var locator string
		if err := rows.Scan(&locator); err != nil {
			return nil, fmt.Errorf("sqlite: scan locator: %w", err)
		}
		result = append(result, locator)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list locators: %w", err)
	}

	return result, nil
}

func (s *Store) Delete(ctx context.Context, locator string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM photos WHERE locator = ?`, locator)
	if err != nil {
		return 0, fmt.Errorf("sqlite: delete photo: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: delete photo: %w", err)
	}

	return rowsAffected, nil
}

// Update applies fields to the photo stored under locator and reports how
// many rows it matched. An update with no fields set writes nothing but still
// reports whether the photo exists.
func (s *Store) Update(ctx context.Context, locator string, fields storage.PhotoFields) (int64, error) {
	setClauses := make([]string, 0, 2)
	args := make([]any, 0, 3)

	if fields.Name != nil {
		setClauses = append(setClauses, "name = ?", "renamed = 1")
		args = append(args, *fields.Name)
	}

	if len(setClauses) == 0 {
		var n int64
		err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM photos WHERE locator = ?`, locator).Scan(&n)
		if err != nil {
			return 0, fmt.Errorf("sqlite: update photo: %w", err)
		}
		return n, nil
	}

	args = append(args, locator)
	query := fmt.Sprintf("UPDATE photos SET %s WHERE locator = ?", strings.Join(setClauses, ", "))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("sqlite: update photo: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: update photo: %w", err)
	}

	return rowsAffected, nil
}

func collectPhotos(rows *sql.Rows) ([]storage.Photo, error) {
	defer rows.Close()

	var result []storage.Photo
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, photo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list photos: %w", err)
	}

	return result, nil
}

type photoScanner interface {
	Scan(dest ...any) error
}

func scanPhoto(s photoScanner) (storage.Photo, error) {
	var (
		photo     storage.Photo
		dateTaken int64
		favorite  int64
	)

	err := s.Scan(
		&photo.ID,
		&photo.Locator,
		&photo.Name,
		&photo.AlbumName,
		&dateTaken,
		&favorite,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Photo{}, storage.ErrNotFound
		}
		return storage.Photo{}, fmt.Errorf("sqlite: scan photo: %w", err)
	}

	photo.DateTaken = fromMillis(dateTaken)
	photo.Favorite = favorite != 0

	return photo, nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
