package discord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KirkDiggler/kartboard/internal/services/game"
)

// ParsePositions reads a race line such as "Mario=1, Luigi=2" into finishing
// positions by player. Pairs may be separated by commas, semicolons or
// newlines, and ':' is accepted in place of '='. Range checks are left to the
// game service.
func ParsePositions(line string) (map[string]int, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})

	positions := make(map[string]int, len(fields))
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		sep := strings.LastIndexAny(field, "=:")
		if sep < 0 {
			return nil, fmt.Errorf("%w: %q is not name=position", game.ErrInvalidInput, field)
		}

		name := strings.TrimSpace(field[:sep])
		if name == "" {
			return nil, fmt.Errorf("%w: %q is missing a player name", game.ErrInvalidInput, field)
		}

		position, err := strconv.Atoi(strings.TrimSpace(field[sep+1:]))
		if err != nil {
			return nil, fmt.Errorf("%w: position for %s is not a number", game.ErrInvalidInput, name)
		}

		if _, ok := positions[name]; ok {
			return nil, fmt.Errorf("%w: %s is listed twice", game.ErrDuplicateEntry, name)
		}
		positions[name] = position
	}

	if len(positions) == 0 {
		return nil, fmt.Errorf("%w: no positions given", game.ErrInvalidInput)
	}

	return positions, nil
}
