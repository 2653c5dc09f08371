package models

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrMissingDrawDate is returned when a record carries no primary draw timestamp.
var ErrMissingDrawDate = errors.New("draw record has no draw date")

// DrawRecord is one document of the results collection: the main Daily
// Million game plus its addon games, all drawn at the same instant.
type DrawRecord struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Standard   Game               `json:"standard" bson:"standard"`
	AddonGames []Game             `json:"addonGames" bson:"addonGames"`
}

// Game is the payload shared by the main game and every addon game.
type Game struct {
	GameTitle     string      `json:"gameTitle" bson:"gameTitle"`
	GameLogo      string      `json:"gameLogo" bson:"gameLogo"`
	JackpotAmount string      `json:"jackpotAmount" bson:"jackpotAmount"`
	DrawDates     []string    `json:"drawDates" bson:"drawDates"`
	Grids         []Grid      `json:"grids" bson:"grids"`
	Prizes        []PrizeTier `json:"prizes" bson:"prizes"`
}

// Grid holds the drawn numbers. Standard[0] is the main line and
// Additional[0][0] the bonus ball.
type Grid struct {
	Standard   [][]int `json:"standard" bson:"standard"`
	Additional [][]int `json:"additional" bson:"additional"`
}

// PrizeTier is one row of the prize breakdown.
type PrizeTier struct {
	Match           string      `json:"match" bson:"match"`
	PrizeType       string      `json:"prizeType" bson:"prizeType"`
	NumberOfWinners WinnerCount `json:"numberOfWinners" bson:"numberOfWinners"`
	Prize           string      `json:"prize" bson:"prize"`
}

// DrawTime parses the primary timestamp, standard.drawDates[0].
func (r *DrawRecord) DrawTime() (time.Time, error) {
	if len(r.Standard.DrawDates) == 0 || r.Standard.DrawDates[0] == "" {
		return time.Time{}, ErrMissingDrawDate
	}
	t, err := time.Parse(time.RFC3339, r.Standard.DrawDates[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("parse draw date %q: %w", r.Standard.DrawDates[0], err)
	}
	return t, nil
}

// PlusGame returns the first addon game, if any.
func (r *DrawRecord) PlusGame() (Game, bool) {
	if len(r.AddonGames) == 0 {
		return Game{}, false
	}
	return r.AddonGames[0], true
}
