package game

import "strings"

// Snapshot is a serializable copy of a Board.
type Snapshot struct {
    Turn   string    `json:"turn" cbor:"turn"`
    Forced int       `json:"forced" cbor:"forced"`
    Winner string    `json:"winner" cbor:"winner"`
    Over   bool      `json:"over" cbor:"over"`
    Moves  int       `json:"moves" cbor:"moves"`
    Owners string    `json:"owners" cbor:"owners"` // one mark per micro board
    Tiles  [9]string `json:"tiles" cbor:"tiles"`   // one row of nine marks per micro board
}

func (b *Board) Snapshot() Snapshot {
    s := Snapshot{
        Turn:   b.Turn().String(),
        Forced: b.forced,
        Winner: b.owner.String(),
        Over:   b.Over(),
        Moves:  b.moves,
    }
    var sb strings.Builder
    for i := 0; i < 9; i++ { sb.WriteString(b.micro[i].String()) }
    s.Owners = sb.String()
    for i := 0; i < 9; i++ {
        sb.Reset()
        for j := 0; j < 9; j++ { sb.WriteString(b.tiles[i][j].String()) }
        s.Tiles[i] = sb.String()
    }
    return s
}

// String renders the board as a 9x9 grid with macro separators.
func (b *Board) String() string {
    var sb strings.Builder
    for row := 0; row < 9; row++ {
        if row > 0 && row%3 == 0 { sb.WriteString("------+-------+------\n") }
        for col := 0; col < 9; col++ {
            if col > 0 && col%3 == 0 { sb.WriteString("| ") }
            macro := (row/3)*3 + col/3
            micro := (row%3)*3 + col%3
            sb.WriteString(b.tiles[macro][micro].String())
            if col != 8 { sb.WriteByte(' ') }
        }
        sb.WriteByte('\n')
    }
    return sb.String()
}
