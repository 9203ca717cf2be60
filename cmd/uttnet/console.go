package main

import (
    "bufio"
    "fmt"
    "io"
    "strconv"
    "strings"
)

type opKind int

const (
    opPlay opKind = iota
    opReset
    opCursor
    opClick
    opBoard
    opQuit
)

// command is one parsed stdin line.
type command struct {
    op           opKind
    macro, micro int
    x, y         float32
}

func parseCommand(line string) (command, error) {
    fields := strings.Fields(line)
    if len(fields) == 0 { return command{}, fmt.Errorf("empty command") }
    switch strings.ToLower(fields[0]) {
    case "play", "p":
        if len(fields) != 3 { return command{}, fmt.Errorf("usage: play <macro 0-8> <micro 0-8>") }
        m, err1 := strconv.Atoi(fields[1])
        c, err2 := strconv.Atoi(fields[2])
        if err1 != nil || err2 != nil { return command{}, fmt.Errorf("play: cells must be integers") }
        return command{op: opPlay, macro: m, micro: c}, nil
    case "reset":
        return command{op: opReset}, nil
    case "cursor", "c", "click":
        op := opCursor
        if strings.ToLower(fields[0]) == "click" { op = opClick }
        if len(fields) != 3 { return command{}, fmt.Errorf("usage: %s <x> <y>", fields[0]) }
        x, err1 := strconv.ParseFloat(fields[1], 32)
        y, err2 := strconv.ParseFloat(fields[2], 32)
        if err1 != nil || err2 != nil { return command{}, fmt.Errorf("%s: coordinates must be numbers", fields[0]) }
        return command{op: op, x: float32(x), y: float32(y)}, nil
    case "board", "b":
        return command{op: opBoard}, nil
    case "quit", "exit", "q":
        return command{op: opQuit}, nil
    default:
        return command{}, fmt.Errorf("unknown command %q", fields[0])
    }
}

// readLines forwards non-empty lines from r until EOF, then closes the channel.
func readLines(r io.Reader, out chan<- string) {
    defer close(out)
    sc := bufio.NewScanner(r)
    for sc.Scan() {
        if line := strings.TrimSpace(sc.Text()); line != "" { out <- line }
    }
}
