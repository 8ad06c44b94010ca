package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/kartboard/internal/dice"
	"github.com/KirkDiggler/kartboard/internal/models"
)

// service implements the Service interface
type service struct {
	diceRoller dice.Roller
}

// NewService creates a new messaging service
func NewService(config *ServiceConfig) (Service, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}

	if config.DiceRoller == nil {
		return nil, errors.New("dice roller cannot be nil")
	}

	return &service{
		diceRoller: config.DiceRoller,
	}, nil
}

// pick selects one of the messages at random
func (s *service) pick(messages []string) string {
	return messages[s.diceRoller.Roll(len(messages))-1]
}

// GetJoinMessage returns a message for when a racer registers
func (s *service) GetJoinMessage(ctx context.Context, input *GetJoinMessageInput) (*GetJoinMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	var messages []string
	switch {
	case input.RacerCount <= 1:
		messages = []string{
			fmt.Sprintf("%s is first on the grid. Anyone else brave enough?", input.PlayerName),
			fmt.Sprintf("%s takes pole position by showing up first.", input.PlayerName),
		}
	case input.RacerCount >= 12:
		messages = []string{
			fmt.Sprintf("%s fills the grid. That's a full field!", input.PlayerName),
			fmt.Sprintf("Twelve racers with %s. Bring on the blue shells.", input.PlayerName),
		}
	default:
		messages = []string{
			fmt.Sprintf("%s pulls up to the starting line.", input.PlayerName),
			fmt.Sprintf("A new challenger appears: %s!", input.PlayerName),
			fmt.Sprintf("%s is revving the engine.", input.PlayerName),
			fmt.Sprintf("Make room on the grid, %s has arrived.", input.PlayerName),
		}
	}

	return &GetJoinMessageOutput{
		Message: s.pick(messages),
		Tone:    ToneFunny,
	}, nil
}

// GetRaceResultMessage returns commentary for a recorded race
func (s *service) GetRaceResultMessage(ctx context.Context, input *GetRaceResultMessageInput) (*GetRaceResultMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.Finished {
		leaders := leadersOf(input.Leaderboard)
		if len(leaders) == 0 {
			return &GetRaceResultMessageOutput{Message: "That's the last race.", Tone: ToneNeutral}, nil
		}
		if len(leaders) > 1 {
			return &GetRaceResultMessageOutput{
				Message: s.pick([]string{
					"A dead heat at the top! Nobody gets the trophy alone tonight.",
					"It ends in a tie for first. Rematch?",
				}),
				Tone: ToneCelebration,
			}, nil
		}
		return &GetRaceResultMessageOutput{
			Message: s.pick([]string{
				fmt.Sprintf("%s takes the cup! 🏆", leaders[0]),
				fmt.Sprintf("Champagne for %s!", leaders[0]),
				fmt.Sprintf("%s is the grand prix champion.", leaders[0]),
			}),
			Tone: ToneCelebration,
		}, nil
	}

	winners := winnersOf(input.Results)
	switch len(winners) {
	case 0:
		return &GetRaceResultMessageOutput{
			Message: s.pick([]string{
				"Nobody crossed the line first. Was everyone hit by lightning?",
				"No winner this race. The banana peels won.",
			}),
			Tone: ToneFunny,
		}, nil
	case 1:
		return &GetRaceResultMessageOutput{
			Message: s.pick([]string{
				fmt.Sprintf("%s takes the checkered flag!", winners[0]),
				fmt.Sprintf("%s was untouchable that race.", winners[0]),
				fmt.Sprintf("First across the line: %s.", winners[0]),
			}),
			Tone: ToneCelebration,
		}, nil
	default:
		return &GetRaceResultMessageOutput{
			Message: "A photo finish! More than one racer claims first place.",
			Tone:    ToneFunny,
		}, nil
	}
}

// GetLeaderboardMessage returns commentary for the standings
func (s *service) GetLeaderboardMessage(ctx context.Context, input *GetLeaderboardMessageInput) (*GetLeaderboardMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if len(input.Rows) == 0 {
		return &GetLeaderboardMessageOutput{
			Message: "The track is empty. Record a race to get things going.",
			Tone:    ToneNeutral,
		}, nil
	}

	leaders := leadersOf(input.Rows)
	if len(leaders) > 1 {
		return &GetLeaderboardMessageOutput{
			Message: fmt.Sprintf("%d racers are tied for the lead.", len(leaders)),
			Tone:    ToneNeutral,
		}, nil
	}

	if input.Final {
		return &GetLeaderboardMessageOutput{
			Message: fmt.Sprintf("%s finished on top.", leaders[0]),
			Tone:    ToneCelebration,
		}, nil
	}

	gap := 0
	if len(input.Rows) > 1 {
		gap = input.Rows[0].TotalPoints - input.Rows[1].TotalPoints
	}

	switch {
	case len(input.Rows) == 1:
		return &GetLeaderboardMessageOutput{
			Message: fmt.Sprintf("%s is racing alone. Hard to lose from here.", leaders[0]),
			Tone:    ToneFunny,
		}, nil
	case gap >= 10:
		return &GetLeaderboardMessageOutput{
			Message: s.pick([]string{
				fmt.Sprintf("%s is running away with it, %d points clear.", leaders[0], gap),
				fmt.Sprintf("Someone send a blue shell at %s. The lead is %d.", leaders[0], gap),
			}),
			Tone: ToneFunny,
		}, nil
	default:
		return &GetLeaderboardMessageOutput{
			Message: fmt.Sprintf("%s leads by %d. Still anyone's race.", leaders[0], gap),
			Tone:    ToneNeutral,
		}, nil
	}
}

// GetErrorMessage returns a user-friendly title for a rejected command
func (s *service) GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	var titles []string
	switch input.Reason {
	case "already_exists", "duplicate_entry":
		titles = []string{"Déjà vu!", "Already on the board"}
	case "unknown_player":
		titles = []string{"Who's that racer?", "Not on the grid"}
	case "invalid_position", "invalid_input":
		titles = []string{"Wrong way!", "That doesn't add up"}
	case "invalid_game_state", "game_not_found":
		titles = []string{"Not so fast", "Yellow flag"}
	case "incomplete_race", "no_players":
		titles = []string{"Missing racers", "Empty grid"}
	case "":
		return &GetErrorMessageOutput{Title: "Spun out", Tone: ToneNeutral}, nil
	default:
		titles = []string{"Error"}
	}

	return &GetErrorMessageOutput{
		Title: s.pick(titles),
		Tone:  ToneFunny,
	}, nil
}

// leadersOf returns the players ranked first
func leadersOf(rows []*models.LeaderboardRow) []string {
	var leaders []string
	for _, row := range rows {
		if row.Rank == 1 {
			leaders = append(leaders, row.PlayerName)
		}
	}
	return leaders
}

// winnersOf returns the players who finished first
func winnersOf(results []*models.RaceResult) []string {
	var winners []string
	for _, r := range results {
		if r.Position == 1 {
			winners = append(winners, r.PlayerName)
		}
	}
	return winners
}
