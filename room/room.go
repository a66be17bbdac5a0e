// room/room.go
package room

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/khaldane/Scrabble-Game/board"
	"github.com/khaldane/Scrabble-Game/events"
	"github.com/khaldane/Scrabble-Game/game"
	"github.com/khaldane/Scrabble-Game/lexicon"
	"github.com/khaldane/Scrabble-Game/logger"
	"github.com/khaldane/Scrabble-Game/models"
	"github.com/khaldane/Scrabble-Game/monitor"
	"github.com/khaldane/Scrabble-Game/placement"
	"github.com/khaldane/Scrabble-Game/state"
	"github.com/khaldane/Scrabble-Game/tiles"
)

const (
	DefaultMaxPlayers = 4
	// 98 张牌每人 7 张，最多 14 人，留一手给补牌
	MaxPlayersLimit       = 13
	DefaultLexiconTimeout = 5 * time.Second
)

var (
	ErrRoomFull     = state.ErrRoomFull
	ErrRoomClosed   = errors.New("room closed")
	ErrRoomNotFound = errors.New("room not found")
)

// Options 房间配置
type Options struct {
	MaxPlayers     int
	Oracle         lexicon.Oracle
	NewSupply      func() *tiles.Supply
	NewBoard       func() *board.Board
	Publisher      events.Publisher
	Monitor        *monitor.Monitor
	LexiconTimeout time.Duration
	// OnEnded runs on the room loop when the game ends; it must not block.
	OnEnded func(roomID string)
}

func (o Options) withDefaults() Options {
	if o.MaxPlayers <= 0 {
		o.MaxPlayers = DefaultMaxPlayers
	}
	o.MaxPlayers = min(o.MaxPlayers, MaxPlayersLimit)
	if o.Oracle == nil {
		o.Oracle = lexicon.Default()
	}
	if o.Publisher == nil {
		o.Publisher = events.Nop{}
	}
	if o.LexiconTimeout <= 0 {
		o.LexiconTimeout = DefaultLexiconTimeout
	}
	return o
}

type command struct {
	ctx   context.Context
	kind  string
	run   func(ctx context.Context) (state.Outcome, error)
	reply chan result
}

type result struct {
	outcome state.Outcome
	err     error
}

// Room 是一局游戏的核心结构，所有修改都在 loop goroutine 中串行执行
type Room struct {
	ID           string
	Name         string
	MaxPlayers   int
	Status       state.Status
	StateMachine state.StateMachine
	CreatedAt    time.Time

	game        *game.Session
	channels    map[game.PlayerID]game.Channel
	opts        Options
	statusMutex sync.RWMutex
	playerMutex sync.RWMutex
	commands    chan command
	closeChan   chan struct{}
	closeOnce   sync.Once
}

// NewRoom 创建一个新房间并启动命令循环
func NewRoom(id, name string, opts Options) *Room {
	opts = opts.withDefaults()

	var gameOpts []game.Option
	if opts.NewSupply != nil {
		gameOpts = append(gameOpts, game.WithSupply(opts.NewSupply()))
	}
	if opts.NewBoard != nil {
		gameOpts = append(gameOpts, game.WithBoard(opts.NewBoard()))
	}

	room := &Room{
		ID:         id,
		Name:       name,
		MaxPlayers: opts.MaxPlayers,
		CreatedAt:  time.Now(),
		game:       game.NewSession(opts.Oracle, gameOpts...),
		channels:   make(map[game.PlayerID]game.Channel),
		opts:       opts,
		commands:   make(chan command),
		closeChan:  make(chan struct{}),
	}

	// 初始化状态机，将房间自身(room)作为上下文传入
	room.StateMachine = state.NewSessionStateMachine(room)

	go room.loop()
	return room
}

// --- 实现 state.SessionContext 接口 ---

// GetID 返回房间ID
func (r *Room) GetID() string {
	return r.ID
}

func (r *Room) GetMaxPlayers() int {
	return r.MaxPlayers
}

// Game is only safe to use from the room loop.
func (r *Room) Game() *game.Session {
	return r.game
}

// ChangeState 改变房间的状态机状态
func (r *Room) ChangeState(newState state.State) error {
	return r.StateMachine.ChangeState(newState)
}

// SetStatus 设置房间的业务状态
func (r *Room) SetStatus(status state.Status) {
	r.statusMutex.Lock()
	defer r.statusMutex.Unlock()
	r.Status = status
}

// GetStatus 获取房间的业务状态
func (r *Room) GetStatus() state.Status {
	r.statusMutex.RLock()
	defer r.statusMutex.RUnlock()
	return r.Status
}

func (r *Room) Attach(id game.PlayerID, ch game.Channel) {
	if ch == nil {
		return
	}
	r.playerMutex.Lock()
	defer r.playerMutex.Unlock()
	r.channels[id] = ch
}

func (r *Room) Detach(id game.PlayerID) {
	r.playerMutex.Lock()
	defer r.playerMutex.Unlock()
	delete(r.channels, id)
}

// ConnectedCount is the number of attached channels.
func (r *Room) ConnectedCount() int {
	r.playerMutex.RLock()
	defer r.playerMutex.RUnlock()
	return len(r.channels)
}

func (r *Room) snapshotChannels() map[game.PlayerID]game.Channel {
	r.playerMutex.RLock()
	defer r.playerMutex.RUnlock()
	out := make(map[game.PlayerID]game.Channel, len(r.channels))
	for id, ch := range r.channels {
		out[id] = ch
	}
	return out
}

// BroadcastLobby pushes the lobby view to every channel.
func (r *Room) BroadcastLobby() {
	channels := r.snapshotChannels()
	snap := r.game.Lobby(len(channels))
	for _, ch := range channels {
		ch.NotifyLobby(snap)
	}
}

// BroadcastGame pushes each player its own view after turn.
func (r *Room) BroadcastGame(turn *game.Turn) {
	for id, ch := range r.snapshotChannels() {
		ch.Notify(r.game.Snapshot(id, turn))
	}
}

func (r *Room) Publish(kind string, turn *game.Turn) {
	e := events.Event{
		Kind:      kind,
		RoomID:    r.ID,
		Scores:    r.game.Scores(),
		Remaining: r.game.Remaining(),
		Reason:    r.game.EndReason(),
		Time:      time.Now(),
	}
	if turn != nil {
		e.Player = turn.Player
		e.Score = turn.Score
		e.Words = lo.Map(turn.Words, func(w placement.Word, _ int) string { return w.Text })
	}
	if err := r.opts.Publisher.Publish(e); err != nil {
		logger.Log.Warnf("房间 %s 发布事件 %s 失败: %v", r.ID, kind, err)
	}
}

func (r *Room) OnEnded() {
	r.opts.Monitor.GameFinished(endOutcome(r.game.EndReason()))
	if r.opts.OnEnded != nil {
		r.opts.OnEnded(r.ID)
	}
}

// --- 命令 ---

// endOutcome maps an end reason to its metric label; admin reasons are free text.
func endOutcome(reason string) string {
	switch reason {
	case state.ReasonPlayerLeft:
		return monitor.EndPlayerLeft
	case state.ReasonSupplyEmpty:
		return monitor.EndSupplyEmpty
	}
	return monitor.EndAdmin
}

// Register adds a player in the lobby and attaches ch as its push channel.
func (r *Room) Register(ctx context.Context, ch game.Channel) (game.PlayerID, error) {
	out, err := r.dispatch(ctx, state.Action{Kind: state.ActionRegister, Channel: ch})
	return out.Player, err
}

// Unregister removes a player. During a game this ends it.
func (r *Room) Unregister(ctx context.Context, id game.PlayerID) error {
	_, err := r.dispatch(ctx, state.Action{Kind: state.ActionUnregister, Player: id})
	return err
}

// StartGame deals and moves the room out of the lobby.
func (r *Room) StartGame(ctx context.Context) error {
	_, err := r.dispatch(ctx, state.Action{Kind: state.ActionStart})
	return err
}

// SubmitPlacement plays cells for id. An empty placement passes.
func (r *Room) SubmitPlacement(ctx context.Context, id game.PlayerID, cells []board.Cell) (*game.Turn, error) {
	out, err := r.dispatch(ctx, state.Action{Kind: state.ActionPlace, Player: id, Cells: cells})
	return out.Turn, err
}

// EndGame ends the room from the lobby or a running game.
func (r *Room) EndGame(ctx context.Context, reason string) error {
	_, err := r.dispatch(ctx, state.Action{Kind: state.ActionEnd, Reason: reason})
	return err
}

// Info returns a summary read on the room loop.
func (r *Room) Info(ctx context.Context) (models.RoomInfo, error) {
	var info models.RoomInfo
	_, err := r.submit(ctx, "info", func(context.Context) (state.Outcome, error) {
		info = models.RoomInfo{
			ID:          r.ID,
			Name:        r.Name,
			Status:      r.GetStatus().String(),
			Players:     r.ConnectedCount(),
			MaxPlayers:  r.MaxPlayers,
			Roster:      r.game.Roster(),
			Scores:      r.game.Scores(),
			CurrentTurn: r.game.CurrentPlayer(),
			Remaining:   r.game.Remaining(),
			EndReason:   r.game.EndReason(),
			CreatedAt:   r.CreatedAt,
		}
		return state.Outcome{}, nil
	})
	return info, err
}

func (r *Room) dispatch(ctx context.Context, action state.Action) (state.Outcome, error) {
	return r.submit(ctx, action.Kind.String(), func(ctx context.Context) (state.Outcome, error) {
		return r.StateMachine.GetCurrentState().HandleAction(ctx, action)
	})
}

// submit hands fn to the loop and waits for its result. Once the loop has
// taken the command it runs to completion even if ctx is cancelled.
func (r *Room) submit(ctx context.Context, kind string, fn func(ctx context.Context) (state.Outcome, error)) (state.Outcome, error) {
	cmd := command{ctx: ctx, kind: kind, run: fn, reply: make(chan result, 1)}

	select {
	case r.commands <- cmd:
	case <-r.closeChan:
		return state.Outcome{}, ErrRoomClosed
	case <-ctx.Done():
		return state.Outcome{}, ctx.Err()
	}

	select {
	case res := <-cmd.reply:
		return res.outcome, res.err
	case <-r.closeChan:
		return state.Outcome{}, ErrRoomClosed
	}
}

// loop 是房间的主循环，串行执行所有命令
func (r *Room) loop() {
	for {
		select {
		case cmd := <-r.commands:
			r.execute(cmd)
		case <-r.closeChan:
			return
		}
	}
}

func (r *Room) execute(cmd command) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.WithoutCancel(cmd.ctx), r.opts.LexiconTimeout)
	defer cancel()

	out, err := cmd.run(ctx)
	if cmd.kind != "info" {
		r.opts.Monitor.ObserveCommand(cmd.kind, err, time.Since(start))
	}
	if out.Turn != nil {
		r.opts.Monitor.AddPoints(out.Turn.Score)
	}
	cmd.reply <- result{outcome: out, err: err}
}

// Close 关闭房间，停止主循环
func (r *Room) Close() {
	r.closeOnce.Do(func() {
		close(r.closeChan)
	})
}

// Closed reports whether Close has been called.
func (r *Room) Closed() bool {
	select {
	case <-r.closeChan:
		return true
	default:
		return false
	}
}
