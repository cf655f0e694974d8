package entity

import (
	"github.com/rocketscienceinc/chessrelay-backend/internal/apperror"
)

const (
	ModeSingleDevice = "single"
	ModeMultiplayer  = "multiplayer"

	WinnerDraw = "draw"
)

// PlayerSlot is one participant in a game session. Delta is the points change
// for this game and is assigned exactly once, when the game is settled.
type PlayerSlot struct {
	Role     string `json:"role"`
	Nickname string `json:"nickname"`
	Points   int    `json:"points"`
	Delta    int    `json:"delta"`
	DeltaSet bool   `json:"delta_set"`
}

// GameSession is one chess match instance on the client side. It is created
// on game creation or join, mutated by relay frames, and kept (marked ended)
// on conclusion or surrender.
type GameSession struct {
	ID             string        `json:"id"`
	Mode           string        `json:"mode"`
	Players        []*PlayerSlot `json:"players"`
	TimerMinutes   int           `json:"timer_minutes"`
	Ended          bool          `json:"ended"`
	Winner         string        `json:"winner,omitempty"`
	LocalRole      string        `json:"local_role"`
	StartingPoints int           `json:"starting_points"`
}

func NewGameSession(id, mode, localRole string, timerMinutes int) *GameSession {
	return &GameSession{
		ID:           id,
		Mode:         mode,
		LocalRole:    localRole,
		TimerMinutes: timerMinutes,
	}
}

func (that *GameSession) IsMultiplayer() bool {
	return that.Mode == ModeMultiplayer
}

func (that *GameSession) IsEnded() bool {
	return that.Ended
}

func (that *GameSession) HasWinner() bool {
	return that.Winner != ""
}

// AddPlayer - fills the next free slot. A session holds at most two players.
func (that *GameSession) AddPlayer(role, nickname string) (*PlayerSlot, error) {
	if len(that.Players) >= 2 {
		return nil, apperror.ErrSessionFull
	}

	slot := &PlayerSlot{Role: role, Nickname: nickname}
	that.Players = append(that.Players, slot)

	return slot, nil
}

// SwapSlots - reverses display order so the local player renders first.
func (that *GameSession) SwapSlots() {
	if len(that.Players) != 2 {
		return
	}

	that.Players[0], that.Players[1] = that.Players[1], that.Players[0]
}

// SlotByRole - finds the slot registered under the given role.
func (that *GameSession) SlotByRole(role string) *PlayerSlot {
	for _, slot := range that.Players {
		if slot.Role == role {
			return slot
		}
	}

	return nil
}

// LocalSlot - the slot belonging to the player on this device.
func (that *GameSession) LocalSlot() *PlayerSlot {
	return that.SlotByRole(that.LocalRole)
}

// OpponentRole - the role opposing the local player.
func (that *GameSession) OpponentRole() string {
	if that.LocalRole == RoleCreator {
		return RoleJoiner
	}

	return RoleCreator
}

// MarkSurrendered - ends the session with the surrendering side's opponent
// recorded as winner.
func (that *GameSession) MarkSurrendered(surrenderingRole string) error {
	if that.Ended {
		return apperror.ErrGameEnded
	}

	that.Ended = true
	if surrenderingRole == RoleCreator {
		that.Winner = RoleJoiner
	} else {
		that.Winner = RoleCreator
	}

	return nil
}
