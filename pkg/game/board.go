// Package game is the ultimate tic-tac-toe model both session endpoints
// mutate. Nine micro boards sit in the cells of one macro board; a move is
// addressed by (macro, micro), both 0..8 in row-major order.
//
// X moves first. Playing micro cell m sends the opponent to macro board m,
// unless that board is already decided or full, in which case the opponent
// may play anywhere open.
package game

import (
    "errors"
    "fmt"
)

// Mark is the owner of a tile or a board.
type Mark uint8

const (
    None Mark = iota
    X
    O
)

func (m Mark) String() string {
    switch m {
    case X:
        return "X"
    case O:
        return "O"
    default:
        return "-"
    }
}

// Opponent returns the other player's mark; None stays None.
func (m Mark) Opponent() Mark {
    switch m {
    case X:
        return O
    case O:
        return X
    default:
        return None
    }
}

var (
    ErrOutOfRange  = errors.New("game: cell out of range")
    ErrGameOver    = errors.New("game: game is over")
    ErrUnavailable = errors.New("game: cell not available")
)

// Board is not safe for concurrent use.
type Board struct {
    tiles  [9][9]Mark
    micro  [9]Mark
    filled [9]int
    owner  Mark
    turn   Mark
    forced int
    moves  int
}

func NewBoard() *Board {
    b := &Board{}
    b.Reset()
    return b
}

// Reset clears every tile and gives the move to X.
func (b *Board) Reset() {
    *b = Board{turn: X, forced: -1}
}

// Turn is the mark that moves next, or None once the game is over.
func (b *Board) Turn() Mark {
    if b.Over() { return None }
    return b.turn
}

// Forced is the macro board the next move must use, or -1 for free choice.
func (b *Board) Forced() int { return b.forced }

// Winner is the owner of the macro board.
func (b *Board) Winner() Mark { return b.owner }

// Moves counts moves since the last Reset.
func (b *Board) Moves() int { return b.moves }

// Owner returns who won micro board macro, or None.
func (b *Board) Owner(macro int) Mark {
    if !inRange(macro) { return None }
    return b.micro[macro]
}

// Tile returns the mark in one micro cell.
func (b *Board) Tile(macro, micro int) Mark {
    if !inRange(macro) || !inRange(micro) { return None }
    return b.tiles[macro][micro]
}

// Over reports a decided macro board or no open micro board left.
func (b *Board) Over() bool {
    if b.owner != None { return true }
    for i := 0; i < 9; i++ {
        if b.open(i) { return false }
    }
    return true
}

// IsAvailable reports whether the next move may go into micro board macro.
func (b *Board) IsAvailable(macro int) bool {
    if !inRange(macro) || b.owner != None || !b.open(macro) { return false }
    return b.forced == -1 || b.forced == macro
}

// IsAvailableAt reports whether the next move may go into (macro, micro).
func (b *Board) IsAvailableAt(macro, micro int) bool {
    return inRange(micro) && b.IsAvailable(macro) && b.tiles[macro][micro] == None
}

// MakePlay places the current mark at (macro, micro) and passes the turn.
func (b *Board) MakePlay(macro, micro int) error {
    if !inRange(macro) || !inRange(micro) {
        return fmt.Errorf("%w: (%d,%d)", ErrOutOfRange, macro, micro)
    }
    if b.Over() { return ErrGameOver }
    if !b.IsAvailableAt(macro, micro) {
        return fmt.Errorf("%w: (%d,%d) forced=%d", ErrUnavailable, macro, micro, b.forced)
    }
    b.tiles[macro][micro] = b.turn
    b.filled[macro]++
    b.micro[macro] = Validate(b.tiles[macro])
    b.owner = Validate(b.micro)
    b.forced = -1
    if b.open(micro) { b.forced = micro }
    b.turn = b.turn.Opponent()
    b.moves++
    return nil
}

// open means undecided with at least one empty tile.
func (b *Board) open(macro int) bool {
    return b.micro[macro] == None && b.filled[macro] < 9
}

// Validate returns the owner of a completed row, column or diagonal, or None.
func Validate(cells [9]Mark) Mark {
    for i := 0; i < 3; i++ {
        if same(cells[i*3], cells[i*3+1], cells[i*3+2]) { return cells[i*3] }
    }
    for i := 0; i < 3; i++ {
        if same(cells[i], cells[i+3], cells[i+6]) { return cells[i] }
    }
    if same(cells[0], cells[4], cells[8]) { return cells[0] }
    if same(cells[2], cells[4], cells[6]) { return cells[2] }
    return None
}

func same(a, b, c Mark) bool { return a != None && a == b && b == c }

func inRange(i int) bool { return i >= 0 && i <= 8 }
