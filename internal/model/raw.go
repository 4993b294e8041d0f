package model

// SongRecord is one raw song-metadata record as found in song_data JSON files.
// Latitude and longitude are null for artists with no registered location.
type SongRecord struct {
	SongID          string   `json:"song_id"`
	Title           string   `json:"title"`
	ArtistID        string   `json:"artist_id"`
	ArtistName      string   `json:"artist_name"`
	ArtistLocation  string   `json:"artist_location"`
	ArtistLatitude  *float64 `json:"artist_latitude"`
	ArtistLongitude *float64 `json:"artist_longitude"`
	Year            int      `json:"year"`
	Duration        float64  `json:"duration"`
}

// LogEvent is one raw user-activity event as found in log_data JSON files.
// Song, Artist and Length are free text copied from the player and may not
// correspond to any SongRecord. TS is epoch milliseconds.
type LogEvent struct {
	TS        int64    `json:"ts"`
	UserID    string   `json:"userId"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Gender    string   `json:"gender"`
	Level     string   `json:"level"`
	SessionID int64    `json:"sessionId"`
	Location  string   `json:"location"`
	UserAgent string   `json:"userAgent"`
	Song      string   `json:"song"`
	Artist    string   `json:"artist"`
	Length    *float64 `json:"length"`
	Page      string   `json:"page"`
}
