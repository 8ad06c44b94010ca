package models

// GameEvent is an action that moves a game between states
type GameEvent string

const (
	// GameEventOpenRegistration leaves the welcome screen
	GameEventOpenRegistration GameEvent = "open_registration"

	// GameEventStartRaces closes registration and begins race 1
	GameEventStartRaces GameEvent = "start_races"

	// GameEventSubmitRace records a race that is not the last one
	GameEventSubmitRace GameEvent = "submit_race"

	// GameEventFinishRaces records the last race
	GameEventFinishRaces GameEvent = "finish_races"

	// GameEventReset wipes the roster and results
	GameEventReset GameEvent = "reset"

	// GameEventQuit returns to the welcome screen
	GameEventQuit GameEvent = "quit"
)

type transitionKey struct {
	from  GameStatus
	event GameEvent
}

var transitions = map[transitionKey]GameStatus{
	{GameStatusWelcome, GameEventOpenRegistration}: GameStatusRegistration,
	{GameStatusRegistration, GameEventStartRaces}:  GameStatusRaceInput,
	{GameStatusRaceInput, GameEventSubmitRace}:     GameStatusRaceInput,
	{GameStatusRaceInput, GameEventFinishRaces}:    GameStatusLeaderboard,
	{GameStatusLeaderboard, GameEventQuit}:         GameStatusWelcome,
	{GameStatusLeaderboard, GameEventReset}:        GameStatusRegistration,
	{GameStatusWelcome, GameEventReset}:            GameStatusRegistration,
	{GameStatusRegistration, GameEventReset}:       GameStatusRegistration,
	{GameStatusRaceInput, GameEventReset}:          GameStatusRegistration,
}

// Next returns the state reached by applying event to s.
// ok is false when the event is not allowed from s.
func (s GameStatus) Next(event GameEvent) (next GameStatus, ok bool) {
	next, ok = transitions[transitionKey{from: s, event: event}]
	return next, ok
}
