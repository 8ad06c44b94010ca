package api

import "time"

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

type gameResponse struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	TotalRaces  int       `json:"total_races"`
	CurrentRace int       `json:"current_race"`
	GameMaster  string    `json:"game_master,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type registerPlayerRequest struct {
	Name string `json:"name"`
}

type playerResponse struct {
	Name string `json:"name"`
}

type gameMasterResponse struct {
	GameMaster string `json:"game_master"`
}

type startRacesRequest struct {
	TotalRaces int `json:"total_races"`
}

type submitRaceRequest struct {
	Positions map[string]int `json:"positions"`
}

type recordResultRequest struct {
	RaceNumber int    `json:"race_number"`
	Player     string `json:"player"`
	Position   int    `json:"position"`
}

type resultResponse struct {
	RaceNumber int    `json:"race_number"`
	Player     string `json:"player"`
	Position   int    `json:"position"`
	Points     int    `json:"points"`
}

type leaderboardRowResponse struct {
	Player      string `json:"player"`
	TotalPoints int    `json:"total_points"`
	Rank        int    `json:"rank"`
	Races       int    `json:"races"`
}

type submitRaceResponse struct {
	RaceNumber  int                      `json:"race_number"`
	Finished    bool                     `json:"finished"`
	Results     []resultResponse         `json:"results"`
	Leaderboard []leaderboardRowResponse `json:"leaderboard"`
	Game        gameResponse             `json:"game"`
}
