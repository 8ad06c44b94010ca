package export

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

type yamlDocument struct {
	Game      yamlGame     `yaml:"game"`
	Players   []string     `yaml:"players"`
	Standings []yamlRow    `yaml:"standings"`
	Results   []yamlResult `yaml:"results"`
}

type yamlGame struct {
	ID         string    `yaml:"id"`
	Status     string    `yaml:"status"`
	TotalRaces int       `yaml:"total_races"`
	GameMaster string    `yaml:"game_master,omitempty"`
	CreatedAt  time.Time `yaml:"created_at"`
}

type yamlRow struct {
	Rank   int    `yaml:"rank"`
	Player string `yaml:"player"`
	Points int    `yaml:"points"`
	Races  int    `yaml:"races"`
}

type yamlResult struct {
	Race     int    `yaml:"race"`
	Player   string `yaml:"player"`
	Position int    `yaml:"position"`
	Points   int    `yaml:"points"`
}

// WriteYAML writes the standings and the full result log as one document
func WriteYAML(w io.Writer, snap *Snapshot) error {
	doc := yamlDocument{
		Game: yamlGame{
			ID:         snap.Game.ID,
			Status:     string(snap.Game.Status),
			TotalRaces: snap.Game.TotalRaces,
			GameMaster: snap.Game.GameMaster,
			CreatedAt:  snap.Game.CreatedAt,
		},
		Players:   make([]string, 0, len(snap.Players)),
		Standings: make([]yamlRow, 0, len(snap.Leaderboard)),
		Results:   make([]yamlResult, 0, len(snap.Results)),
	}

	for _, p := range snap.Players {
		doc.Players = append(doc.Players, p.Name)
	}
	for _, row := range snap.Leaderboard {
		doc.Standings = append(doc.Standings, yamlRow{
			Rank:   row.Rank,
			Player: row.PlayerName,
			Points: row.TotalPoints,
			Races:  row.RacesScored,
		})
	}
	for _, r := range snap.Results {
		doc.Results = append(doc.Results, yamlResult{
			Race:     r.RaceNumber,
			Player:   r.PlayerName,
			Position: r.Position,
			Points:   r.Points,
		})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("encoding to YAML failed: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encoding to YAML failed on close: %w", err)
	}
	return nil
}
