package model

import "time"

// Movie represents a catalog entry as stored in the `movies` table.
// Movies are created by admins and are immutable from the storefront's
// point of view.
//
// Fields:
//  ID          – CHAR(36) UUID primary key.
//  Title       – movie title.
//  Director    – director name.
//  Genre       – genre label used by the catalog filter.
//  Rating      – decimal rating between 1 and 5 inclusive.
//  Description – long-form description shown on the detail page.
//  CoverColor  – hex color string "#RRGGBB" backing the cover artwork.
//  CoverURL    – URL of the hosted cover image.
//  Summary     – short summary shown on cards and the hero section.
//  CreatedAt   – creation timestamp; the catalog lists newest first.
type Movie struct {
	ID          string    // movies.id
	Title       string    // movies.title
	Director    string    // movies.director
	Genre       string    // movies.genre
	Rating      float64   // movies.rating (DECIMAL(2,1))
	Description string    // movies.description
	CoverColor  string    // movies.cover_color
	CoverURL    string    // movies.cover_url
	Summary     string    // movies.summary
	CreatedAt   time.Time // movies.created_at
}
