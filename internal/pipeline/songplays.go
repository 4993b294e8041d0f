package pipeline

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/streamhouse/songlake/internal/model"
)

// JoinKey selects how activity events are matched against the songs
// dimension.
type JoinKey string

const (
	// JoinKeyTitle matches on song title equality alone.
	JoinKeyTitle JoinKey = "title"

	// JoinKeyComposite matches on title plus artist name plus duration
	// (within one second), which survives title collisions.
	JoinKeyComposite JoinKey = "composite"
)

// ParseJoinKey validates a join key name.
func ParseJoinKey(s string) (JoinKey, error) {
	switch JoinKey(s) {
	case JoinKeyTitle, JoinKeyComposite:
		return JoinKey(s), nil
	default:
		return "", eris.Errorf("unknown join key: %q (valid: title, composite)", s)
	}
}

// JoinType selects what happens to events with no matching song.
type JoinType string

const (
	// JoinInner drops unmatched events; no fact row is produced.
	JoinInner JoinType = "inner"

	// JoinLeft keeps unmatched events with null song_id and artist_id.
	JoinLeft JoinType = "left"
)

// ParseJoinType validates a join type name.
func ParseJoinType(s string) (JoinType, error) {
	switch JoinType(s) {
	case JoinInner, JoinLeft:
		return JoinType(s), nil
	default:
		return "", eris.Errorf("unknown join type: %q (valid: inner, left)", s)
	}
}

// durationTolerance is the allowed gap between a song's catalog duration and
// the played length under the composite key.
const durationTolerance = 1.0

// BuildSongplays reconstructs song-play facts by joining activity events
// against the materialized songs dimension. The artists dimension is
// consulted only by the composite key, to resolve artist names. songplay_id
// is a counter local to this call; it is unique within the run and nothing
// more.
func BuildSongplays(events []TimedEvent, songs []model.Song, artists []model.Artist, key JoinKey, join JoinType) []model.Songplay {
	byTitle := make(map[string][]model.Song, len(songs))
	for _, s := range songs {
		byTitle[s.Title] = append(byTitle[s.Title], s)
	}

	artistName := make(map[string]string, len(artists))
	for _, a := range artists {
		if _, ok := artistName[a.ArtistID]; !ok {
			artistName[a.ArtistID] = a.Name
		}
	}

	var out []model.Songplay
	var nextID int64
	for _, e := range events {
		song, ok := match(e.Event, byTitle, artistName, key)
		if !ok && join == JoinInner {
			continue
		}

		nextID++
		play := model.Songplay{
			SongplayID: nextID,
			StartTime:  e.Time.StartTime,
			UserID:     e.Event.UserID,
			Level:      e.Event.Level,
			SessionID:  e.Event.SessionID,
			Location:   e.Event.Location,
			UserAgent:  e.Event.UserAgent,
		}
		if ok {
			songID, artistID := song.SongID, song.ArtistID
			play.SongID, play.ArtistID = &songID, &artistID
		}
		out = append(out, play)
	}
	return out
}

// match finds the first song satisfying the join key for an event. Candidates
// are scanned in dimension order, so ties resolve deterministically.
func match(e model.LogEvent, byTitle map[string][]model.Song, artistName map[string]string, key JoinKey) (model.Song, bool) {
	candidates := byTitle[e.Song]
	if key == JoinKeyTitle {
		if len(candidates) == 0 {
			return model.Song{}, false
		}
		return candidates[0], true
	}

	for _, s := range candidates {
		if artistName[s.ArtistID] != e.Artist {
			continue
		}
		if e.Length == nil || math.Abs(s.Duration-*e.Length) > durationTolerance {
			continue
		}
		return s, true
	}
	return model.Song{}, false
}
