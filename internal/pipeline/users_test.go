package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamhouse/songlake/internal/model"
)

func timedEvents(t *testing.T, events ...model.LogEvent) []TimedEvent {
	t.Helper()
	timed, err := annotate(events, false)
	require.NoError(t, err)
	return timed
}

func TestBuildUsers_TupleDedup(t *testing.T) {
	base := model.LogEvent{TS: 1541121934796, UserID: "10", FirstName: "Sylvie", LastName: "Cruz", Gender: "F", Level: "free"}
	dup := base
	dup.TS = 1541121999000 // different event, identical user tuple

	users := BuildUsers(timedEvents(t, base, dup), UserDedupTuple)
	assert.Equal(t, []model.User{
		{UserID: "10", FirstName: "Sylvie", LastName: "Cruz", Gender: "F", Level: "free"},
	}, users)
}

func TestBuildUsers_TupleKeepsLevelChange(t *testing.T) {
	free := model.LogEvent{TS: 1541121934796, UserID: "10", FirstName: "Sylvie", LastName: "Cruz", Gender: "F", Level: "free"}
	paid := free
	paid.TS = 1541999999000
	paid.Level = "paid"

	users := BuildUsers(timedEvents(t, free, paid), UserDedupTuple)
	require.Len(t, users, 2)
	assert.Equal(t, "free", users[0].Level)
	assert.Equal(t, "paid", users[1].Level)
}

func TestBuildUsers_LatestCollapsesByUserID(t *testing.T) {
	free := model.LogEvent{TS: 1541121934796, UserID: "10", FirstName: "Sylvie", LastName: "Cruz", Gender: "F", Level: "free"}
	paid := free
	paid.TS = 1541999999000
	paid.Level = "paid"

	// Later event first in input; the highest ts still wins.
	users := BuildUsers(timedEvents(t, paid, free), UserDedupLatest)
	assert.Equal(t, []model.User{
		{UserID: "10", FirstName: "Sylvie", LastName: "Cruz", Gender: "F", Level: "paid"},
	}, users)
}

func TestBuildUsers_LatestPreservesFirstAppearanceOrder(t *testing.T) {
	a := model.LogEvent{TS: 1541121934796, UserID: "10", FirstName: "Sylvie", Level: "free"}
	b := model.LogEvent{TS: 1541121935000, UserID: "26", FirstName: "Ryan", Level: "paid"}
	a2 := a
	a2.TS = 1541999999000

	users := BuildUsers(timedEvents(t, a, b, a2), UserDedupLatest)
	require.Len(t, users, 2)
	assert.Equal(t, "10", users[0].UserID)
	assert.Equal(t, "26", users[1].UserID)
}

func TestParseUserDedup(t *testing.T) {
	for _, valid := range []string{"tuple", "latest"} {
		p, err := ParseUserDedup(valid)
		require.NoError(t, err)
		assert.Equal(t, UserDedup(valid), p)
	}
	_, err := ParseUserDedup("newest")
	require.Error(t, err)
}
