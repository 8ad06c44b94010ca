// Package leaderboard turns a log of race results into ranked standings.
package leaderboard

import (
	"fmt"
	"sort"

	"github.com/KirkDiggler/kartboard/internal/models"
	"github.com/KirkDiggler/kartboard/internal/scoring"
)

// Error is a custom error type for aggregation errors
type Error string

// Error implements the error interface
func (e Error) Error() string {
	return string(e)
}

// ErrMalformedEntry is returned when a result could not have come from a valid submission
const ErrMalformedEntry Error = "malformed race result"

// Compute groups results by player, totals their points and ranks them.
//
// Players without results are left out. Rows are ordered by total points,
// highest first; equal totals keep the order of rosterOrder, and players
// missing from rosterOrder follow in order of their first result. Tied
// players share a rank of 1 plus the number of players with more points.
func Compute(results []*models.RaceResult, rosterOrder []string) ([]*models.LeaderboardRow, error) {
	rows := []*models.LeaderboardRow{}
	if len(results) == 0 {
		return rows, nil
	}

	seq := make(map[string]int, len(rosterOrder))
	for i, name := range rosterOrder {
		if _, ok := seq[name]; !ok {
			seq[name] = i
		}
	}

	byPlayer := make(map[string]*models.LeaderboardRow)
	for _, result := range results {
		if err := validate(result); err != nil {
			return nil, err
		}

		row, ok := byPlayer[result.PlayerName]
		if !ok {
			row = &models.LeaderboardRow{PlayerName: result.PlayerName}
			byPlayer[result.PlayerName] = row
			rows = append(rows, row)
			if _, known := seq[result.PlayerName]; !known {
				seq[result.PlayerName] = len(rosterOrder) + len(seq)
			}
		}
		row.TotalPoints += result.Points
		row.RacesScored++
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalPoints != rows[j].TotalPoints {
			return rows[i].TotalPoints > rows[j].TotalPoints
		}
		return seq[rows[i].PlayerName] < seq[rows[j].PlayerName]
	})

	for i, row := range rows {
		if i > 0 && row.TotalPoints == rows[i-1].TotalPoints {
			row.Rank = rows[i-1].Rank
		} else {
			row.Rank = i + 1
		}
	}

	return rows, nil
}

func validate(result *models.RaceResult) error {
	switch {
	case result == nil:
		return fmt.Errorf("%w: nil result", ErrMalformedEntry)
	case result.PlayerName == "":
		return fmt.Errorf("%w: race %d has no player", ErrMalformedEntry, result.RaceNumber)
	case result.RaceNumber < 1:
		return fmt.Errorf("%w: %s has race number %d", ErrMalformedEntry, result.PlayerName, result.RaceNumber)
	case !scoring.ValidPosition(result.Position):
		return fmt.Errorf("%w: %s has position %d in race %d", ErrMalformedEntry, result.PlayerName, result.Position, result.RaceNumber)
	case result.Points < 0:
		return fmt.Errorf("%w: %s has %d points in race %d", ErrMalformedEntry, result.PlayerName, result.Points, result.RaceNumber)
	}
	return nil
}

// Totals returns each player's cumulative points after every race, for
// races 1 through the highest race number present. Players appear in the
// order of their first result.
func Totals(results []*models.RaceResult) (players []string, cumulative map[string][]int) {
	lastRace := 0
	perRace := make(map[string]map[int]int)
	for _, result := range results {
		if result == nil {
			continue
		}
		if _, ok := perRace[result.PlayerName]; !ok {
			perRace[result.PlayerName] = make(map[int]int)
			players = append(players, result.PlayerName)
		}
		perRace[result.PlayerName][result.RaceNumber] += result.Points
		if result.RaceNumber > lastRace {
			lastRace = result.RaceNumber
		}
	}

	cumulative = make(map[string][]int, len(players))
	for _, name := range players {
		running := 0
		series := make([]int, lastRace)
		for race := 1; race <= lastRace; race++ {
			running += perRace[name][race]
			series[race-1] = running
		}
		cumulative[name] = series
	}
	return players, cumulative
}
