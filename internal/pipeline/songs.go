package pipeline

import (
	"github.com/streamhouse/songlake/internal/model"
	"github.com/streamhouse/songlake/internal/transform"
)

// BuildSongs projects song-metadata records onto the songs dimension,
// deduplicated by full-row equality. Input order is preserved.
func BuildSongs(records []model.SongRecord) []model.Song {
	songs := make([]model.Song, len(records))
	for i, r := range records {
		songs[i] = model.Song{
			SongID:   r.SongID,
			Title:    r.Title,
			ArtistID: r.ArtistID,
			Year:     int64(r.Year),
			Duration: r.Duration,
		}
	}
	return transform.Distinct(songs, func(s model.Song) model.Song { return s })
}

// BuildArtists projects song-metadata records onto the artists dimension,
// deduplicated by full-row equality. An artist_id appearing with conflicting
// attributes keeps every distinct variant.
func BuildArtists(records []model.SongRecord) []model.Artist {
	artists := make([]model.Artist, len(records))
	for i, r := range records {
		artists[i] = model.Artist{
			ArtistID:  r.ArtistID,
			Name:      r.ArtistName,
			Location:  r.ArtistLocation,
			Latitude:  r.ArtistLatitude,
			Longitude: r.ArtistLongitude,
		}
	}
	return transform.Distinct(artists, model.Artist.Key)
}
