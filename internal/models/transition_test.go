package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameStatusNext(t *testing.T) {
	tests := []struct {
		name   string
		from   GameStatus
		event  GameEvent
		want   GameStatus
		wantOK bool
	}{
		{"welcome opens registration", GameStatusWelcome, GameEventOpenRegistration, GameStatusRegistration, true},
		{"registration starts races", GameStatusRegistration, GameEventStartRaces, GameStatusRaceInput, true},
		{"race input repeats", GameStatusRaceInput, GameEventSubmitRace, GameStatusRaceInput, true},
		{"last race shows leaderboard", GameStatusRaceInput, GameEventFinishRaces, GameStatusLeaderboard, true},
		{"leaderboard quits to welcome", GameStatusLeaderboard, GameEventQuit, GameStatusWelcome, true},
		{"leaderboard resets to registration", GameStatusLeaderboard, GameEventReset, GameStatusRegistration, true},
		{"reset from race input", GameStatusRaceInput, GameEventReset, GameStatusRegistration, true},
		{"reset from welcome", GameStatusWelcome, GameEventReset, GameStatusRegistration, true},
		{"reset during registration", GameStatusRegistration, GameEventReset, GameStatusRegistration, true},

		{"cannot race from welcome", GameStatusWelcome, GameEventStartRaces, "", false},
		{"cannot reopen registration", GameStatusRegistration, GameEventOpenRegistration, "", false},
		{"cannot submit during registration", GameStatusRegistration, GameEventSubmitRace, "", false},
		{"cannot quit mid race", GameStatusRaceInput, GameEventQuit, "", false},
		{"cannot submit after the last race", GameStatusLeaderboard, GameEventSubmitRace, "", false},
		{"unknown status", GameStatus("paused"), GameEventReset, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.from.Next(tt.event)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGameStatusPredicates(t *testing.T) {
	assert.True(t, GameStatusWelcome.IsWelcome())
	assert.False(t, GameStatusWelcome.IsActive())
	assert.True(t, GameStatusRegistration.IsActive())
	assert.True(t, GameStatusRaceInput.IsActive())
	assert.False(t, GameStatusLeaderboard.IsActive())
	assert.True(t, GameStatusLeaderboard.IsLeaderboard())
}

func TestRacesComplete(t *testing.T) {
	assert.False(t, (&Game{}).RacesComplete())
	assert.False(t, (&Game{TotalRaces: 3, CurrentRace: 3}).RacesComplete())
	assert.True(t, (&Game{TotalRaces: 3, CurrentRace: 4}).RacesComplete())
}
