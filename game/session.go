// game/session.go
package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/khaldane/Scrabble-Game/board"
	"github.com/khaldane/Scrabble-Game/lexicon"
	"github.com/khaldane/Scrabble-Game/placement"
	"github.com/khaldane/Scrabble-Game/tiles"
)

var (
	ErrNotYourTurn    = errors.New("not your turn")
	ErrPlayerNotFound = errors.New("player not found")
	ErrGameStarted    = errors.New("game already started")
	ErrGameNotStarted = errors.New("game not started")
	ErrGameOver       = errors.New("game is over")
	ErrNoPlayers      = errors.New("no players registered")
)

// PlayerID 按注册顺序从 1 开始分配
type PlayerID int

// Session 一局游戏的全部状态，本身不是并发安全的，由房间的命令循环独占
type Session struct {
	board     *board.Board
	supply    *tiles.Supply
	validator *placement.Validator

	roster []PlayerID
	hands  map[PlayerID]*tiles.Hand
	scores map[PlayerID]int
	turn   int
	nextID PlayerID

	started   bool
	over      bool
	endReason string
}

type Option func(*Session)

// WithSupply replaces the shuffled supply, e.g. with tiles.NewOrderedSupply.
func WithSupply(s *tiles.Supply) Option {
	return func(g *Session) {
		g.supply = s
	}
}

// WithBoard replaces the default board.
func WithBoard(b *board.Board) Option {
	return func(g *Session) {
		g.board = b
	}
}

func NewSession(oracle lexicon.Oracle, opts ...Option) *Session {
	g := &Session{
		board:     board.New(),
		validator: placement.NewValidator(oracle),
		hands:     make(map[PlayerID]*tiles.Hand),
		scores:    make(map[PlayerID]int),
		nextID:    1,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.supply == nil {
		g.supply = tiles.NewSupply()
	}
	return g
}

// AddPlayer appends a new player to the roster.
func (g *Session) AddPlayer() (PlayerID, error) {
	if g.started {
		return 0, ErrGameStarted
	}
	id := g.nextID
	g.nextID++
	g.roster = append(g.roster, id)
	return id, nil
}

// RemovePlayer drops id from the roster. Its score is kept for the final
// standings.
func (g *Session) RemovePlayer(id PlayerID) error {
	idx := lo.IndexOf(g.roster, id)
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrPlayerNotFound, id)
	}
	g.roster = append(g.roster[:idx], g.roster[idx+1:]...)
	delete(g.hands, id)
	if idx < g.turn {
		g.turn--
	}
	if g.turn >= len(g.roster) {
		g.turn = 0
	}
	return nil
}

// Roster returns the turn order.
func (g *Session) Roster() []PlayerID {
	out := make([]PlayerID, len(g.roster))
	copy(out, g.roster)
	return out
}

func (g *Session) HasPlayer(id PlayerID) bool {
	return lo.Contains(g.roster, id)
}

// Deal gives every player a full hand, zeroes scores and hands the turn
// to the first registered player.
func (g *Session) Deal() error {
	if g.started {
		return ErrGameStarted
	}
	if len(g.roster) == 0 {
		return ErrNoPlayers
	}
	for _, id := range g.roster {
		h := tiles.NewHand()
		h.Fill(g.supply)
		g.hands[id] = h
		g.scores[id] = 0
	}
	g.turn = 0
	g.started = true
	return nil
}

func (g *Session) Started() bool {
	return g.started
}

// CurrentPlayer returns the turn holder, 0 when nobody holds it.
func (g *Session) CurrentPlayer() PlayerID {
	if !g.started || g.over || len(g.roster) == 0 {
		return 0
	}
	return g.roster[g.turn]
}

// Place validates and commits a placement for id. A rejected placement
// leaves board, hands, supply and scores untouched.
func (g *Session) Place(ctx context.Context, id PlayerID, cells []board.Cell) (*Turn, error) {
	switch {
	case g.over:
		return nil, ErrGameOver
	case !g.started:
		return nil, ErrGameNotStarted
	case id != g.CurrentPlayer():
		return nil, fmt.Errorf("%w: player %d, turn belongs to %d", ErrNotYourTurn, id, g.CurrentPlayer())
	}

	// 先检查坐标与字母，再检查手牌
	if err := placement.CheckStructure(g.board, cells); err != nil {
		return nil, err
	}
	hand := g.hands[id]
	letters := lo.Map(cells, func(c board.Cell, _ int) tiles.Letter { return c.Letter })
	if !hand.Has(letters) {
		return nil, fmt.Errorf("%w: %v", tiles.ErrTileNotInHand, letters)
	}

	res, err := g.validator.Validate(ctx, g.board, cells, g.board.IsEmpty())
	if err != nil {
		return nil, err
	}

	for _, c := range cells {
		if err := g.board.Commit(c.Coordinate, c.Letter); err != nil {
			// validated above, so this is a programming error
			return nil, fmt.Errorf("commit %s: %w", c.Coordinate, err)
		}
	}
	for _, c := range res.Bonuses {
		g.board.ConsumeBonus(c)
	}
	if err := hand.Remove(letters); err != nil {
		return nil, err
	}
	exhausted := hand.Fill(g.supply)

	g.scores[id] += res.Score
	g.turn = (g.turn + 1) % len(g.roster)

	return &Turn{
		Player:          id,
		Placed:          cells,
		Words:           res.Words,
		Score:           res.Score,
		Accepted:        true,
		SupplyExhausted: exhausted,
	}, nil
}

// Finish ends the game. Later calls keep the first reason.
func (g *Session) Finish(reason string) {
	if g.over {
		return
	}
	g.over = true
	g.endReason = reason
}

func (g *Session) Over() bool {
	return g.over
}

func (g *Session) EndReason() string {
	return g.endReason
}

// Scores returns a copy of every score recorded in this game.
func (g *Session) Scores() map[PlayerID]int {
	out := make(map[PlayerID]int, len(g.scores))
	for k, v := range g.scores {
		out[k] = v
	}
	return out
}

// Hand returns a copy of id's tiles.
func (g *Session) Hand(id PlayerID) []tiles.Tile {
	h, ok := g.hands[id]
	if !ok {
		return nil
	}
	return h.Tiles()
}

func (g *Session) Remaining() int {
	return g.supply.Remaining()
}

// Board exposes the board for read-only use.
func (g *Session) Board() *board.Board {
	return g.board
}
