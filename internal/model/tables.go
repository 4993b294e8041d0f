package model

import "time"

// Song is a row of the songs dimension table.
type Song struct {
	SongID   string  `parquet:"song_id" json:"song_id"`
	Title    string  `parquet:"title" json:"title"`
	ArtistID string  `parquet:"artist_id" json:"artist_id"`
	Year     int64   `parquet:"year" json:"year"`
	Duration float64 `parquet:"duration" json:"duration"`
}

// Artist is a row of the artists dimension table. Latitude and longitude are
// optional columns.
type Artist struct {
	ArtistID  string   `parquet:"artist_id" json:"artist_id"`
	Name      string   `parquet:"name" json:"name"`
	Location  string   `parquet:"location" json:"location"`
	Latitude  *float64 `parquet:"latitude,optional" json:"latitude,omitempty"`
	Longitude *float64 `parquet:"longitude,optional" json:"longitude,omitempty"`
}

// ArtistKey is the comparable full-row tuple used for artist deduplication.
// Conflicting attribute values under the same artist_id yield distinct keys,
// so both rows survive.
type ArtistKey struct {
	ArtistID, Name, Location  string
	Latitude, Longitude       float64
	HasLatitude, HasLongitude bool
}

// Key returns the full-tuple dedup key for the artist row.
func (a Artist) Key() ArtistKey {
	k := ArtistKey{ArtistID: a.ArtistID, Name: a.Name, Location: a.Location}
	if a.Latitude != nil {
		k.Latitude, k.HasLatitude = *a.Latitude, true
	}
	if a.Longitude != nil {
		k.Longitude, k.HasLongitude = *a.Longitude, true
	}
	return k
}

// User is a row of the users dimension table.
type User struct {
	UserID    string `parquet:"user_id" json:"user_id"`
	FirstName string `parquet:"first_name" json:"first_name"`
	LastName  string `parquet:"last_name" json:"last_name"`
	Gender    string `parquet:"gender" json:"gender"`
	Level     string `parquet:"level" json:"level"`
}

// TimeRow is a row of the time dimension table, one per distinct event
// timestamp. Year and Month double as the table's partition columns and are
// kept inside the files as well.
type TimeRow struct {
	StartTime time.Time `parquet:"start_time,timestamp" json:"start_time"`
	Hour      int64     `parquet:"hour" json:"hour"`
	Day       int64     `parquet:"day" json:"day"`
	Week      int64     `parquet:"week" json:"week"`
	Weekday   string    `parquet:"weekday" json:"weekday"`
	Month     int64     `parquet:"month" json:"month"`
	Year      int64     `parquet:"year" json:"year"`
}

// Songplay is a row of the songplays fact table. SongplayID is a surrogate
// key unique within a single run; it carries no ordering and no cross-run
// stability guarantee. SongID and ArtistID are null when an event survives a
// left join without a matching song.
type Songplay struct {
	SongplayID int64     `parquet:"songplay_id" json:"songplay_id"`
	StartTime  time.Time `parquet:"start_time,timestamp" json:"start_time"`
	UserID     string    `parquet:"user_id" json:"user_id"`
	Level      string    `parquet:"level" json:"level"`
	SongID     *string   `parquet:"song_id,optional" json:"song_id,omitempty"`
	ArtistID   *string   `parquet:"artist_id,optional" json:"artist_id,omitempty"`
	SessionID  int64     `parquet:"session_id" json:"session_id"`
	Location   string    `parquet:"location" json:"location"`
	UserAgent  string    `parquet:"user_agent" json:"user_agent"`
}
