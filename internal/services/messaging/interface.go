package messaging

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/kartboard/internal/services/messaging Service

// Service is the interface for the messaging service
type Service interface {
	// GetJoinMessage returns a message for when a racer registers
	GetJoinMessage(ctx context.Context, input *GetJoinMessageInput) (*GetJoinMessageOutput, error)

	// GetRaceResultMessage returns commentary for a recorded race
	GetRaceResultMessage(ctx context.Context, input *GetRaceResultMessageInput) (*GetRaceResultMessageOutput, error)

	// GetLeaderboardMessage returns commentary for the standings
	GetLeaderboardMessage(ctx context.Context, input *GetLeaderboardMessageInput) (*GetLeaderboardMessageOutput, error)

	// GetErrorMessage returns a user-friendly title for a rejected command
	GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error)
}
