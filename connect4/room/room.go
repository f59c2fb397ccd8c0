package room

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"connect4server/internal/game"
)

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusSpinning Status = "spinning"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

const (
	MaxPlayers        = 2
	MaxNicknameLength = 20
	DefaultTurnTime   = 30

	aiPlayerID   = "AI"
	aiNickname   = "AI"
	tickInterval = time.Second
)

type Player struct {
	ID       string    `json:"id"`
	Nickname string    `json:"nickname"`
	Color    game.Cell `json:"color"`
	IsAI     bool      `json:"isAI"`
}

// Move は履歴スタックの1手
type Move struct {
	Row         int       `json:"row"`
	Col         int       `json:"col"`
	Color       game.Cell `json:"color"`
	PlayerIndex int       `json:"playerIndex"`
}

// State はクライアントに送るルームの全状態
type State struct {
	RoomID           string          `json:"roomId"`
	Players          []Player        `json:"players"`
	Board            game.Board      `json:"board"`
	CurrentPlayer    int             `json:"currentPlayer"`
	GameStatus       Status          `json:"gameStatus"`
	Winner           *Player         `json:"winner"`
	IsDraw           bool            `json:"isDraw"`
	TurnTime         int             `json:"turnTime"`
	RemainingTime    int             `json:"remainingTime"`
	IsSpinning       bool            `json:"isSpinning"`
	PracticeMode     bool            `json:"practiceMode"`
	HasAI            bool            `json:"hasAI"`
	LastMove         *game.Position  `json:"lastMove"`
	WinningPositions []game.Position `json:"winningPositions"`
	RematchRequests  []string        `json:"rematchRequests"`
	MoveCount        int             `json:"moveCount"`
}

// Info is the room-list entry.
type Info struct {
	RoomID       string `json:"roomId"`
	HostNickname string `json:"hostNickname"`
	PlayerCount  int    `json:"playerCount"`
	MaxPlayers   int    `json:"maxPlayers"`
	TurnTime     int    `json:"turnTime"`
	GameStatus   Status `json:"gameStatus"`
}

type SpinResult struct {
	FirstPlayer     int    `json:"firstPlayer"`
	FirstPlayerInfo Player `json:"firstPlayerInfo"`
	// Gen is passed back to StartAfterSpin.
	Gen uint64 `json:"-"`
}

type MoveResult struct {
	Row              int
	Col              int
	Color            game.Cell
	Won              bool
	Draw             bool
	WinningPositions []game.Position
	Winner           *Player
	Status           Status
	NextTurn         int
	State            State
}

// Finished reports whether the move ended the game.
func (m MoveResult) Finished() bool {
	return m.Won || m.Draw
}

type RematchResult struct {
	Reset bool
	State State
}

type RemoveResult struct {
	Player     Player
	Remaining  int
	HumansLeft int
	State      State
}

// Notifier receives turn clock events. Calls are made without the room lock held.
type Notifier interface {
	TimeUpdate(roomID string, remaining int)
	TimeOver(roomID string, loser, winner Player, state State)
}

type nopNotifier struct{}

func (nopNotifier) TimeUpdate(string, int)                {}
func (nopNotifier) TimeOver(string, Player, Player, State) {}

type Option func(*Room)

// WithNow replaces the clock used for turn timing and activity tracking.
func WithNow(now func() time.Time) Option {
	return func(r *Room) { r.now = now }
}

// WithCoinFlip replaces the first-player draw. The function must return 0 or 1.
func WithCoinFlip(flip func() int) Option {
	return func(r *Room) { r.coin = flip }
}

func WithTickInterval(d time.Duration) Option {
	return func(r *Room) {
		if d > 0 {
			r.tick = d
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(r *Room) {
		if n != nil {
			r.notifier = n
		}
	}
}

// Room は1つの対局を管理する。全ての変更はmuの下で行う。
type Room struct {
	mu sync.Mutex

	id               string
	board            game.Board
	players          []Player
	currentPlayer    int
	status           Status
	winner           *Player
	draw             bool
	turnTime         int
	practice         bool
	winningPositions []game.Position
	lastMove         *game.Position
	history          []Move
	rematch          []string
	hasAI            bool
	guestSeq         int

	createdAt     time.Time
	lastActivity  time.Time
	turnStartedAt time.Time

	// 古いタイマーのtickを無視するための世代番号
	clockGen    uint64
	clockCancel context.CancelFunc
	// ルーレットごとの世代。リセットで進むので古いルーレットは開始できない
	spinGen uint64
	// 盤面が変わるたびに進む。思考中のAIの手が古くなったか判定する
	moveSeq   uint64
	aiRunning bool
	closed    bool

	ctx    context.Context
	cancel context.CancelFunc

	now      func() time.Time
	coin     func() int
	tick     time.Duration
	notifier Notifier
}

func New(id string, turnTime int, practice bool, opts ...Option) *Room {
	if practice {
		turnTime = 0
	}
	rng := createLocalRandGenerator()
	r := &Room{
		id:       id,
		status:   StatusWaiting,
		turnTime: turnTime,
		practice: practice,
		now:      time.Now,
		coin:     func() int { return rng.Intn(2) },
		tick:     tickInterval,
		notifier: nopNotifier{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.ctx, r.cancel = context.WithCancel(context.Background())
	r.createdAt = r.now()
	r.lastActivity = r.createdAt
	return r
}

// ID, Practice and CreatedAt are fixed at construction and read without the lock.
func (r *Room) ID() string {
	return r.id
}

func (r *Room) Practice() bool {
	return r.practice
}

func (r *Room) CreatedAt() time.Time {
	return r.createdAt
}

// Done is closed when the room is closed.
func (r *Room) Done() <-chan struct{} {
	return r.ctx.Done()
}

func (r *Room) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Room) HasAI() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hasAI
}

func (r *Room) LastActivity() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActivity
}

// IsIdle reports whether nothing happened in the room for at least window.
func (r *Room) IsIdle(now time.Time, window time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return now.Sub(r.lastActivity) >= window
}

// NormalizeNickname trims the nickname and checks its length.
func NormalizeNickname(nickname string) (string, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" || utf8.RuneCountInString(nickname) > MaxNicknameLength {
		return "", ErrInvalidNickname
	}
	return nickname, nil
}

func (r *Room) AddPlayer(connID, nickname string) (Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return Player{}, ErrRoomClosed
	}
	if r.indexOfLocked(connID) >= 0 {
		return Player{}, ErrAlreadyInRoom
	}
	if len(r.players) >= MaxPlayers {
		return Player{}, ErrRoomFull
	}

	r.guestSeq++
	if strings.TrimSpace(nickname) == "" {
		nickname = fmt.Sprintf("Guest %d", r.guestSeq)
	}
	nickname, err := NormalizeNickname(nickname)
	if err != nil {
		return Player{}, err
	}

	p := Player{ID: connID, Nickname: nickname, Color: r.nextColorLocked()}
	r.players = append(r.players, p)
	// 2人揃っても自動では始めない。ルーレットは明示的に回す
	r.status = StatusWaiting
	r.touchLocked()
	return p, nil
}

func (r *Room) AddAIPlayer() (Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return Player{}, ErrRoomClosed
	}
	if len(r.players) >= MaxPlayers {
		return Player{}, ErrRoomFull
	}

	p := Player{ID: aiPlayerID, Nickname: aiNickname, Color: r.nextColorLocked(), IsAI: true}
	r.players = append(r.players, p)
	r.hasAI = true
	r.status = StatusWaiting
	r.touchLocked()
	return p, nil
}

// SpinWheel draws the first player. The game starts with StartAfterSpin.
func (r *Room) SpinWheel() (SpinResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.status {
	case StatusSpinning, StatusPlaying:
		return SpinResult{}, ErrAlreadyStarted
	case StatusFinished:
		return SpinResult{}, ErrGameFinished
	}
	if len(r.players) != MaxPlayers {
		return SpinResult{}, ErrNeedTwoPlayers
	}

	first := r.coin()
	if first != 0 {
		first = 1
	}
	r.currentPlayer = first
	r.status = StatusSpinning
	r.spinGen++
	r.touchLocked()
	return SpinResult{FirstPlayer: first, FirstPlayerInfo: r.players[first], Gen: r.spinGen}, nil
}

// StartAfterSpin starts the game drawn by the spin with generation gen.
func (r *Room) StartAfterSpin(gen uint64) (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusSpinning {
		return State{}, ErrNotSpinning
	}
	if gen != r.spinGen {
		return State{}, ErrStaleSpin
	}
	r.status = StatusPlaying
	r.startClockLocked()
	r.touchLocked()
	return r.snapshotLocked(), nil
}

func (r *Room) MakeMove(connID string, col int) (MoveResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusPlaying {
		return MoveResult{}, ErrNotPlaying
	}
	if col < 0 || col >= game.Columns {
		return MoveResult{}, ErrInvalidColumn
	}
	idx := r.indexOfLocked(connID)
	if idx < 0 {
		return MoveResult{}, ErrPlayerNotFound
	}
	if idx != r.currentPlayer {
		return MoveResult{}, ErrNotYourTurn
	}
	return r.applyMoveLocked(col)
}

func (r *Room) applyMoveLocked(col int) (MoveResult, error) {
	if r.currentPlayer < 0 || r.currentPlayer >= len(r.players) {
		return MoveResult{}, ErrBoardCorrupted
	}
	row, err := r.board.NextOpenRow(col)
	if err != nil {
		return MoveResult{}, err
	}

	player := r.players[r.currentPlayer]
	r.board.Drop(row, col, player.Color)
	r.history = append(r.history, Move{Row: row, Col: col, Color: player.Color, PlayerIndex: r.currentPlayer})
	r.lastMove = &game.Position{Row: row, Col: col}
	r.moveSeq++
	r.touchLocked()

	res := MoveResult{Row: row, Col: col, Color: player.Color}
	if run := r.board.CheckWin(row, col, player.Color); run != nil {
		winner := player
		r.winner = &winner
		r.winningPositions = run
		r.status = StatusFinished
		r.stopClockLocked()
		res.Won = true
		res.WinningPositions = run
		res.Winner = &winner
	} else if r.board.IsFull() {
		r.status = StatusFinished
		r.draw = true
		r.stopClockLocked()
		res.Draw = true
	} else {
		r.currentPlayer = (r.currentPlayer + 1) % MaxPlayers
		r.startClockLocked()
	}

	res.Status = r.status
	res.NextTurn = r.currentPlayer
	res.State = r.snapshotLocked()
	return res, nil
}

// UndoMove takes back the last move in practice mode. Against the AI it takes
// back the moves since the human's last one, so the human is to move again.
func (r *Room) UndoMove(connID string) (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.practice {
		return State{}, ErrNotPractice
	}
	if r.status == StatusFinished {
		return State{}, ErrGameFinished
	}
	if r.indexOfLocked(connID) < 0 {
		return State{}, ErrPlayerNotFound
	}

	n, err := r.undoCountLocked()
	if err != nil {
		return State{}, err
	}
	popped := r.history[len(r.history)-n:]
	// 盤面を変更する前に全ての手を検証する
	for _, m := range popped {
		if r.board[m.Row][m.Col] != m.Color {
			return State{}, ErrBoardCorrupted
		}
	}
	for i := len(popped) - 1; i >= 0; i-- {
		r.board.Undo(popped[i].Row, popped[i].Col)
	}
	r.currentPlayer = popped[0].PlayerIndex
	r.history = r.history[:len(r.history)-n]

	r.lastMove = nil
	if k := len(r.history); k > 0 {
		r.lastMove = &game.Position{Row: r.history[k-1].Row, Col: r.history[k-1].Col}
	}
	// 思考中のAIの手はmoveSeqで破棄される
	r.moveSeq++
	r.touchLocked()
	return r.snapshotLocked(), nil
}

// undoCountLocked returns how many history entries an undo removes. Against
// the AI that is the AI's reply plus the human move before it, or only the
// human move while the AI has not answered yet.
func (r *Room) undoCountLocked() (int, error) {
	h := len(r.history)
	if h == 0 {
		return 0, ErrNothingToUndo
	}
	if !r.hasAI {
		return 1, nil
	}
	isAI := func(m Move) (bool, error) {
		if m.PlayerIndex < 0 || m.PlayerIndex >= len(r.players) {
			return false, ErrBoardCorrupted
		}
		return r.players[m.PlayerIndex].IsAI, nil
	}

	lastAI, err := isAI(r.history[h-1])
	if err != nil {
		return 0, err
	}
	if !lastAI {
		return 1, nil
	}
	// AIの初手だけでは戻せない
	if h < 2 {
		return 0, ErrNothingToUndo
	}
	prevAI, err := isAI(r.history[h-2])
	if err != nil {
		return 0, err
	}
	if prevAI {
		return 0, ErrBoardCorrupted
	}
	return 2, nil
}

// RequestRematch records the request and resets the room once every human has asked.
func (r *Room) RequestRematch(connID string) (RematchResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusFinished {
		return RematchResult{}, ErrGameNotFinished
	}
	if r.indexOfLocked(connID) < 0 {
		return RematchResult{}, ErrPlayerNotFound
	}
	for _, id := range r.rematch {
		if id == connID {
			return RematchResult{}, ErrAlreadyRequested
		}
	}
	r.rematch = append(r.rematch, connID)
	r.touchLocked()

	if r.hasAI || len(r.rematch) >= MaxPlayers {
		r.resetLocked()
		return RematchResult{Reset: true, State: r.snapshotLocked()}, nil
	}
	return RematchResult{State: r.snapshotLocked()}, nil
}

// RemovePlayer drops the player. With fewer than two players left the game is reset.
func (r *Room) RemovePlayer(connID string) (RemoveResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOfLocked(connID)
	if idx < 0 {
		return RemoveResult{}, ErrPlayerNotFound
	}
	removed := r.players[idx]
	r.players = append(r.players[:idx], r.players[idx+1:]...)

	r.hasAI = false
	for _, p := range r.players {
		if p.IsAI {
			r.hasAI = true
		}
	}
	if len(r.players) < MaxPlayers {
		r.resetLocked()
	}
	r.touchLocked()

	return RemoveResult{
		Player:     removed,
		Remaining:  len(r.players),
		HumansLeft: r.humanCountLocked(),
		State:      r.snapshotLocked(),
	}, nil
}

func (r *Room) UpdateNickname(connID, nickname string) (State, error) {
	nickname, err := NormalizeNickname(nickname)
	if err != nil {
		return State{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOfLocked(connID)
	if idx < 0 {
		return State{}, ErrPlayerNotFound
	}
	r.players[idx].Nickname = nickname
	if r.winner != nil && r.winner.ID == connID {
		r.winner.Nickname = nickname
	}
	r.touchLocked()
	return r.snapshotLocked(), nil
}

// Player returns the room member with the given connection id.
func (r *Room) Player(connID string) (Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOfLocked(connID)
	if idx < 0 {
		return Player{}, ErrPlayerNotFound
	}
	return r.players[idx], nil
}

// Touch records activity that does not change the game, such as chat.
func (r *Room) Touch() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touchLocked()
}

func (r *Room) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) Info() Info {
	r.mu.Lock()
	defer r.mu.Unlock()

	host := "Unknown"
	if len(r.players) > 0 {
		host = r.players[0].Nickname
	}
	return Info{
		RoomID:       r.id,
		HostNickname: host,
		PlayerCount:  len(r.players),
		MaxPlayers:   MaxPlayers,
		TurnTime:     r.turnTime,
		GameStatus:   r.status,
	}
}

// Close stops the clock and cancels pending work bound to the room. Safe to call twice.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.aiRunning = false
	r.stopClockLocked()
	r.cancel()
}

func (r *Room) snapshotLocked() State {
	players := make([]Player, len(r.players))
	copy(players, r.players)

	var winner *Player
	if r.winner != nil {
		w := *r.winner
		winner = &w
	}
	var lastMove *game.Position
	if r.lastMove != nil {
		lm := *r.lastMove
		lastMove = &lm
	}
	winning := make([]game.Position, len(r.winningPositions))
	copy(winning, r.winningPositions)
	rematch := make([]string, len(r.rematch))
	copy(rematch, r.rematch)

	return State{
		RoomID:           r.id,
		Players:          players,
		Board:            r.board,
		CurrentPlayer:    r.currentPlayer,
		GameStatus:       r.status,
		Winner:           winner,
		IsDraw:           r.draw,
		TurnTime:         r.turnTime,
		RemainingTime:    r.remainingLocked(),
		IsSpinning:       r.status == StatusSpinning,
		PracticeMode:     r.practice,
		HasAI:            r.hasAI,
		LastMove:         lastMove,
		WinningPositions: winning,
		RematchRequests:  rematch,
		MoveCount:        len(r.history),
	}
}

// ゲームをルーレット前の状態に戻す。プレイヤーはそのまま
func (r *Room) resetLocked() {
	r.stopClockLocked()
	r.board = game.Board{}
	r.history = nil
	r.rematch = nil
	r.winner = nil
	r.draw = false
	r.winningPositions = nil
	r.lastMove = nil
	r.currentPlayer = 0
	r.status = StatusWaiting
	r.turnStartedAt = time.Time{}
	r.moveSeq++
	r.spinGen++
}

func (r *Room) touchLocked() {
	r.lastActivity = r.now()
}

func (r *Room) indexOfLocked(connID string) int {
	for i, p := range r.players {
		if p.ID == connID {
			return i
		}
	}
	return -1
}

// 空いている色を返す。赤が優先
func (r *Room) nextColorLocked() game.Cell {
	for _, p := range r.players {
		if p.Color == game.Red {
			return game.Yellow
		}
	}
	return game.Red
}

func (r *Room) humanCountLocked() int {
	n := 0
	for _, p := range r.players {
		if !p.IsAI {
			n++
		}
	}
	return n
}
