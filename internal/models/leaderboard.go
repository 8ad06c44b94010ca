package models

// LeaderboardRow is one line of the standings, computed fresh from the race results
type LeaderboardRow struct {
	// PlayerName is the name of the player
	PlayerName string

	// TotalPoints is the sum of points over all of the player's results
	TotalPoints int

	// Rank is 1 plus the number of players with strictly more points
	Rank int

	// RacesScored is how many results the player has recorded
	RacesScored int
}
