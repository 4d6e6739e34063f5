package sqlite

import (
	"context"
	"fmt"

	"github.com/Oxyrus/gallery/internal/storage"
)

// QueryAllAlbums aggregates photos by album name. The newest photo of each
// album provides its thumbnail.
func (s *Store) QueryAllAlbums(ctx context.Context) ([]storage.Album, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.album_name,
			COUNT(*),
			(SELECT t.locator
				FROM photos t
				WHERE t.album_name = p.album_name
				ORDER BY t.date_taken DESC, t.id DESC
				LIMIT 1)
		FROM photos p
		GROUP BY p.album_name
		ORDER BY p.album_name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list albums: %w", err)
	}
	defer rows.Close()

	var result []storage.Album
	for rows.Next() {
		var album storage.Album
		if err := rows.Scan(&album.Name, &album.PhotoCount, &album.ThumbnailLocator); err != nil {
			return nil, fmt.Errorf("sqlite: scan album: %w", err)
		}
		result = append(result, album)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list albums: %w", err)
	}

	return result, nil
}
