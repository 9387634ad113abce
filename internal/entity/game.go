package entity

const (
	PlayerX = "X"
	PlayerO = "O"

	EmptyCell  = ""
	WinnerDraw = "Draw"
)

// WinCombos - the 8 winning triples: 3 rows, 3 columns, 2 diagonals.
var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Players - maps each mark to its display name.
type Players struct {
	X string `json:"X"`
	O string `json:"O"`
}

// GameState is the canonical state the host produces and the guest mirrors.
// It is always replaced wholesale on the wire, never patched.
type GameState struct {
	Board   [9]string `json:"board"`
	Turn    string    `json:"currentPlayer"`
	Winner  string    `json:"winner"`
	Players Players   `json:"players"`
}

// NewGameState - builds the initial state once both names are known. X always opens.
func NewGameState(hostName, guestName string) *GameState {
	return &GameState{
		Turn: PlayerX,
		Players: Players{
			X: hostName,
			O: guestName,
		},
	}
}

// DetermineResult - returns the winning mark, WinnerDraw on a full board
// with no winner, or an empty string while the game is still in progress.
// The first matching triple wins.
func (that *GameState) DetermineResult() string {
	for _, combo := range WinCombos {
		a, b, c := that.Board[combo[0]], that.Board[combo[1]], that.Board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	for _, cell := range that.Board {
		if cell == EmptyCell {
			return EmptyCell
		}
	}

	return WinnerDraw
}

func (that *GameState) IsFinished() bool {
	return that.Winner != EmptyCell
}

func (that *GameState) IsDraw() bool {
	return that.Winner == WinnerDraw
}

// WinnerName - resolves the winning mark to a player name, empty on draw or
// while in progress.
func (that *GameState) WinnerName() string {
	switch that.Winner {
	case PlayerX:
		return that.Players.X
	case PlayerO:
		return that.Players.O
	default:
		return ""
	}
}

// Reset - clears the board for a rematch. Player names survive the reset.
func (that *GameState) Reset() {
	that.Board = [9]string{}
	that.Turn = PlayerX
	that.Winner = EmptyCell
}
