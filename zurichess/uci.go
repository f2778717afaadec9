// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// uci implements the UCI protocol which is described here http://wbec-ridderkerk.nl/html/UCIProtocol.html.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	. "github.com/corvidchess/corvid/engine"
)

var errQuit = errors.New("quit")

// uciLogger outputs search in uci format.
type uciLogger struct {
	start time.Time
	buf   *bytes.Buffer
}

func newUCILogger() *uciLogger {
	return &uciLogger{buf: &bytes.Buffer{}}
}

func (ul *uciLogger) BeginSearch() {
	ul.start = time.Now()
	ul.buf.Reset()
}

func (ul *uciLogger) EndSearch() {
	ul.flush()
}

func (ul *uciLogger) PrintPV(stats Stats, score int32, pv []Move) {
	// Write depth.
	now := time.Now()
	fmt.Fprintf(ul.buf, "info depth %d seldepth %d ", stats.Depth, stats.SelDepth)

	// Write score.
	if score > KnownWinScore {
		fmt.Fprintf(ul.buf, "score mate %d ", (MateScore-score+1)/2)
	} else if score < KnownLossScore {
		fmt.Fprintf(ul.buf, "score mate %d ", (MatedScore-score)/2)
	} else {
		fmt.Fprintf(ul.buf, "score cp %d ", score)
	}

	// Write stats.
	elapsed := uint64(maxDuration(now.Sub(ul.start), time.Microsecond))
	nps := stats.Nodes * uint64(time.Second) / elapsed
	millis := elapsed / uint64(time.Millisecond)
	fmt.Fprintf(ul.buf, "nodes %d time %d nps %d ", stats.Nodes, millis, nps)

	// Write principal variation.
	fmt.Fprintf(ul.buf, "pv")
	for _, m := range pv {
		fmt.Fprintf(ul.buf, " %v", m.UCI())
	}
	fmt.Fprintf(ul.buf, "\n")

	ul.flush()
}

// flush flushes the buf to stdout.
func (ul *uciLogger) flush() {
	os.Stdout.Write(ul.buf.Bytes())
	os.Stdout.Sync()
	ul.buf.Reset()
}

// maxDuration returns maximum of a and b.
func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}

// UCI implements uci protocol.
type UCI struct {
	Engine      *Engine
	timeControl *TimeControl
	// rootMoves, when non-empty, restricts the next search to these moves
	// (set by the "go searchmoves ..." command).
	rootMoves []Move

	// buffer of 1, if empty then the engine is available
	idle chan struct{}
	// buffer of 1, if filled then the engine is pondering
	ponder chan struct{}
	// predicted position hash after 2 moves.
	predicted uint64
}

func NewUCI() *UCI {
	return &UCI{
		Engine:      NewEngine(nil, newUCILogger(), Options{}),
		timeControl: nil,
		idle:        make(chan struct{}, 1),
		ponder:      make(chan struct{}, 1),
	}
}

var reCmd = regexp.MustCompile(`^[[:word:]]+\b`)

func (uci *UCI) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	cmd := reCmd.FindString(line)
	if cmd == "" {
		return fmt.Errorf("invalid command line")
	}

	// These commands do not expect the engine to be idle.
	switch cmd {
	case "isready":
		return uci.isready(line)
	case "quit":
		return errQuit
	case "stop":
		return uci.stop(line)
	case "uci":
		return uci.uci(line)
	case "ponderhit":
		return uci.ponderhit(line)
	}

	// Make sure that the engine is idle.
	uci.idle <- struct{}{}
	<-uci.idle

	// These commands expect engine to be idle.
	switch cmd {
	case "ucinewgame":
		return uci.ucinewgame(line)
	case "position":
		return uci.position(line)
	case "go":
		return uci.go_(line)
	case "setoption":
		return uci.setoption(line)
	default:
		return fmt.Errorf("unhandled command %s", cmd)
	}
}

func (uci *UCI) uci(line string) error {
	fmt.Printf("id name corvid %v\n", buildVersion)
	fmt.Printf("id author corvidchess contributors\n")
	fmt.Printf("\n")
	fmt.Printf("option name Hash type spin default %v min 1 max 65536\n", DefaultHashTableSizeMB)
	fmt.Printf("option name Ponder type check default true\n")
	fmt.Printf("option name UCI_AnalyseMode type check default false\n")
	fmt.Println("uciok")
	return nil
}

func (uci *UCI) isready(line string) error {
	fmt.Println("readyok")
	return nil
}

func (uci *UCI) ucinewgame(line string) error {
	// Clear the hash at the beginning of each game.
	GlobalHashTable.Clear()
	return nil
}

func (uci *UCI) position(line string) error {
	args := strings.Fields(line)[1:]
	if len(args) == 0 {
		return fmt.Errorf("expected argument for 'position'")
	}

	var pos *Position

	i := 0
	var err error
	switch args[i] {
	case "startpos":
		pos, err = PositionFromFEN(FENStartPos)
		i++
	case "fen":
		for i < len(args) && args[i] != "moves" {
			i++
		}
		pos, err = PositionFromFEN(strings.Join(args[1:i], " "))
	default:
		err = fmt.Errorf("unknown position command: %s", args[0])
	}
	if err != nil {
		return err
	}

	uci.Engine.SetPosition(pos)

	if i < len(args) {
		if args[i] != "moves" {
			return fmt.Errorf("expected 'moves', got '%s'", args[1])
		}
		for _, m := range args[i+1:] {
			if move, err := uci.Engine.Position.UCIToMove(m); err != nil {
				return err
			} else {
				uci.Engine.DoMove(move)
			}
		}
	}

	return nil
}

var validGoCommands = map[string]bool{
	"searchmoves": true,
	"ponder":      true,
	"wtime":       true,
	"winc":        true,
	"btime":       true,
	"binc":        true,
	"movestogo":   true,
	"depth":       true,
	"nodes":       true,
	"mate":        true,
	"movetime":    true,
	"infinite":    true,
}

func (uci *UCI) go_(line string) error {
	uci.timeControl = NewTimeControl(uci.Engine.Position)
	uci.rootMoves = nil
	ponder := false

	args := strings.Fields(line)[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "searchmoves":
			for j := i + 1; j < len(args) && !validGoCommands[args[j]]; j++ {
				i++
				if move, err := uci.Engine.Position.UCIToMove(args[j]); err == nil {
					uci.rootMoves = append(uci.rootMoves, move)
				}
			}
		case "ponder":
			ponder = true
		case "infinite":
			uci.timeControl = NewTimeControl(uci.Engine.Position)
		case "wtime":
			i++
			t, _ := strconv.Atoi(args[i])
			uci.timeControl.WTime = time.Duration(t) * time.Millisecond
		case "winc":
			i++
			t, _ := strconv.Atoi(args[i])
			uci.timeControl.WInc = time.Duration(t) * time.Millisecond
		case "btime":
			i++
			t, _ := strconv.Atoi(args[i])
			uci.timeControl.BTime = time.Duration(t) * time.Millisecond
		case "binc":
			i++
			t, _ := strconv.Atoi(args[i])
			uci.timeControl.BInc = time.Duration(t) * time.Millisecond
		case "movestogo":
			i++
			t, _ := strconv.Atoi(args[i])
			uci.timeControl.MovesToGo = int(t)
		case "movetime":
			i++
			t, _ := strconv.Atoi(args[i])
			uci.timeControl.WTime = time.Duration(t) * time.Millisecond
			uci.timeControl.WInc = 0
			uci.timeControl.BTime = time.Duration(t) * time.Millisecond
			uci.timeControl.BInc = 0
			uci.timeControl.MovesToGo = 1
		case "depth":
			i++
			d, _ := strconv.Atoi(args[i])
			uci.timeControl.Depth = d
		case "nodes", "mate":
			log.Println(args[i], "not implemented. Ignoring")
			i++
		default:
			return fmt.Errorf("invalid go command %s", args[i])
		}
	}

	if ponder {
		// Ponder was requested, so fill the channel.
		// Next write to uci.ponder will block.
		uci.ponder <- struct{}{}
	}

	uci.timeControl.Start(ponder)
	uci.idle <- struct{}{}
	go uci.play()
	return nil
}

func (uci *UCI) ponderhit(line string) error {
	uci.timeControl.PonderHit()
	<-uci.ponder
	return nil
}

func (uci *UCI) stop(line string) error {
	// Stop the timer if not already stopped.
	if uci.timeControl != nil {
		uci.timeControl.Stop()
	}
	// No longer pondering.
	select {
	case <-uci.ponder:
	default:
	}
	// Waits until the engine becomes idle.
	uci.idle <- struct{}{}
	<-uci.idle

	return nil
}

// play starts the search. Should run in its own separate goroutine.
func (uci *UCI) play() {
	moves := uci.Engine.PlayMoves(uci.timeControl, uci.rootMoves)

	if len(moves) >= 2 {
		uci.Engine.Position.DoMove(moves[0])
		uci.Engine.Position.DoMove(moves[1])
		uci.predicted = uci.Engine.Position.Zobrist()
		uci.Engine.Position.UndoMove()
		uci.Engine.Position.UndoMove()
	} else if len(moves) == 1 {
		uci.Engine.Position.DoMove(moves[0])
		uci.predicted = uci.Engine.Position.Zobrist()
		uci.Engine.Position.UndoMove()
	}

	// If pondering was requested it will block because the channel is full.
	uci.ponder <- struct{}{}
	<-uci.ponder

	if len(moves) == 0 {
		fmt.Printf("bestmove (none)\n")
	} else if len(moves) == 1 {
		fmt.Printf("bestmove %v\n", moves[0].UCI())
	} else {
		fmt.Printf("bestmove %v ponder %v\n", moves[0].UCI(), moves[1].UCI())
	}

	// Marks the engine as idle.
	<-uci.idle
}

var reOption = regexp.MustCompile(`^setoption\s+name\s+(.+?)(\s+value\s+(.*))?$`)

func (uci *UCI) setoption(line string) error {
	option := reOption.FindStringSubmatch(line)
	if option == nil {
		return fmt.Errorf("invalid setoption arguments")
	}

	if len(option) < 1 {
		return fmt.Errorf("missing setoption name")
	}

	value := ""
	if len(option) >= 3 {
		value = option[3]
	}
	return uci.Engine.SetOption(option[1], value)
}
