package pipeline

import (
	"github.com/rotisserie/eris"

	"github.com/streamhouse/songlake/internal/model"
	"github.com/streamhouse/songlake/internal/transform"
)

// UserDedup selects how user identity is deduplicated.
type UserDedup string

const (
	// UserDedupTuple keeps one row per distinct full tuple, so a level
	// upgrade yields two rows for the same user_id.
	UserDedupTuple UserDedup = "tuple"

	// UserDedupLatest keeps one row per user_id, taking the attributes from
	// the event with the highest ts.
	UserDedupLatest UserDedup = "latest"
)

// ParseUserDedup validates a user dedup policy name.
func ParseUserDedup(s string) (UserDedup, error) {
	switch UserDedup(s) {
	case UserDedupTuple, UserDedupLatest:
		return UserDedup(s), nil
	default:
		return "", eris.Errorf("unknown user dedup policy: %q (valid: tuple, latest)", s)
	}
}

// BuildUsers projects log events onto the users dimension under the given
// dedup policy. Output order follows first appearance of the key.
func BuildUsers(events []TimedEvent, policy UserDedup) []model.User {
	users := make([]model.User, len(events))
	for i, e := range events {
		users[i] = model.User{
			UserID:    e.Event.UserID,
			FirstName: e.Event.FirstName,
			LastName:  e.Event.LastName,
			Gender:    e.Event.Gender,
			Level:     e.Event.Level,
		}
	}

	if policy == UserDedupTuple {
		return transform.Distinct(users, func(u model.User) model.User { return u })
	}

	// latest: one row per user_id with the attributes of the newest event.
	latest := make(map[string]int, len(users))
	var order []string
	for i, u := range users {
		j, seen := latest[u.UserID]
		if !seen {
			latest[u.UserID] = i
			order = append(order, u.UserID)
			continue
		}
		if events[i].Event.TS >= events[j].Event.TS {
			latest[u.UserID] = i
		}
	}

	out := make([]model.User, 0, len(order))
	for _, id := range order {
		out = append(out, users[latest[id]])
	}
	return out
}
