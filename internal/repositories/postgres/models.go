package postgres

import (
	"time"

	"github.com/uptrace/bun"
)

// GameRow is one scorekeeping session
type GameRow struct {
	bun.BaseModel `bun:"table:games,alias:g"`

	ID          string    `bun:"id,pk"`
	ChannelID   string    `bun:"channel_id,notnull"`
	Status      string    `bun:"status,notnull"`
	TotalRaces  int       `bun:"total_races,notnull"`
	CurrentRace int       `bun:"current_race,notnull"`
	GameMaster  string    `bun:"game_master,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

// GameChannelRow maps a chat channel to the game it last saved
type GameChannelRow struct {
	bun.BaseModel `bun:"table:game_channels,alias:gc"`

	ChannelID string `bun:"channel_id,pk"`
	GameID    string `bun:"game_id,notnull"`
}

// PlayerRow is a roster entry. ID preserves registration order.
type PlayerRow struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID           int64     `bun:"id,pk,autoincrement"`
	GameID       string    `bun:"game_id,notnull,unique:players_game_id_name_key"`
	Name         string    `bun:"name,notnull,unique:players_game_id_name_key"`
	RegisteredAt time.Time `bun:"registered_at,notnull"`
}

// RaceResultRow is one entry of the result log. ID preserves insertion order.
type RaceResultRow struct {
	bun.BaseModel `bun:"table:race_results,alias:rr"`

	ID         int64     `bun:"id,pk,autoincrement"`
	GameID     string    `bun:"game_id,notnull,unique:race_results_game_race_player_key"`
	RaceNumber int       `bun:"race_number,notnull,unique:race_results_game_race_player_key"`
	PlayerName string    `bun:"player_name,notnull,unique:race_results_game_race_player_key"`
	Position   int       `bun:"position,notnull"`
	Points     int       `bun:"points,notnull"`
	RecordedAt time.Time `bun:"recorded_at,notnull"`
}
