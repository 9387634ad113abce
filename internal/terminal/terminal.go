package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/service"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/session"
)

const help = `commands:
  create <name>         host a new room
  join <name> <room>    join a room by code
  move <0-8>            place your mark
  again                 rematch on the same room
  board                 show the current board
  top                   show the leaderboard
  leave                 back to menu
  quit                  exit`

// Terminal - thin line-oriented presentation layer. Every decision goes
// through the session controller; this only renders and forwards intent.
type Terminal struct {
	logger      *slog.Logger
	controller  *session.Controller
	leaderboard service.LeaderboardService

	in  io.Reader
	out io.Writer

	mu sync.Mutex
}

func New(logger *slog.Logger, controller *session.Controller, leaderboard service.LeaderboardService, in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		logger:      logger.With("component", "terminal"),
		controller:  controller,
		leaderboard: leaderboard,
		in:          in,
		out:         out,
	}
}

// Run - reads commands until quit, EOF or context cancellation.
func (that *Terminal) Run(ctx context.Context) error {
	that.controller.OnUpdate(func(snapshot session.Snapshot) {
		that.render(snapshot)
	})
	that.controller.OnNotice(func(notice string) {
		that.printf("\n*** %s\n", notice)
	})

	that.printf("%s\n", help)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(that.in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := that.handleLine(ctx, line); quit {
				return nil
			}
		}
	}
}

func (that *Terminal) handleLine(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "create":
		roomID, err := that.controller.CreateGame(ctx, argAt(fields, 1))
		if err != nil {
			that.printf("could not create room: %v\n", err)
			return false
		}
		that.printf("room %s created, waiting for an opponent\n", roomID)
	case "join":
		if len(fields) < 3 {
			that.printf("usage: join <name> <room>\n")
			return false
		}
		if err := that.controller.JoinGame(ctx, fields[1], fields[2]); err != nil {
			that.printf("could not join room: %v\n", err)
		}
	case "move":
		cell, err := strconv.Atoi(argAt(fields, 1))
		if err != nil {
			that.printf("usage: move <0-8>\n")
			return false
		}
		if err = that.controller.MakeMove(ctx, cell); err != nil {
			that.printf("could not send move: %v\n", err)
		}
	case "again":
		if err := that.controller.PlayAgain(ctx); err != nil {
			that.printf("could not request rematch: %v\n", err)
		}
	case "board":
		that.render(that.controller.Snapshot())
	case "top":
		that.renderLeaderboard(ctx)
	case "leave":
		that.controller.Leave(ctx)
		that.printf("left the room\n")
	case "help":
		that.printf("%s\n", help)
	case "quit", "exit":
		that.controller.Leave(ctx)
		return true
	default:
		that.printf("unknown command %q, try help\n", fields[0])
	}

	return false
}

func (that *Terminal) render(snapshot session.Snapshot) {
	switch snapshot.Phase {
	case session.PhaseLobby:
		that.printf("\nroom %s: waiting for an opponent (%d/2)\n", snapshot.RoomID, snapshot.PlayerCount)
	case session.PhaseActive:
		that.renderGame(snapshot)
	}
}

func (that *Terminal) renderGame(snapshot session.Snapshot) {
	game := snapshot.Game
	if game == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString("\n")
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			cell := game.Board[row*3+col]
			if cell == entity.EmptyCell {
				cell = strconv.Itoa(row*3 + col)
			}
			sb.WriteString(" " + cell + " ")
			if col < 2 {
				sb.WriteString("|")
			}
		}
		sb.WriteString("\n")
		if row < 2 {
			sb.WriteString("---+---+---\n")
		}
	}

	switch {
	case game.IsDraw():
		sb.WriteString("it's a draw\n")
	case game.IsFinished():
		sb.WriteString(fmt.Sprintf("%s (%s) wins!\n", game.WinnerName(), game.Winner))
	case game.Turn == snapshot.LocalMark:
		sb.WriteString(fmt.Sprintf("your move (%s)\n", snapshot.LocalMark))
	default:
		sb.WriteString(fmt.Sprintf("waiting for %s\n", game.Turn))
	}

	that.printf("%s", sb.String())
}

func (that *Terminal) renderLeaderboard(ctx context.Context) {
	entries := that.leaderboard.Top(ctx)
	if len(entries) == 0 {
		that.printf("leaderboard is empty\n")
		return
	}

	for i, entry := range entries {
		that.printf("%2d. %-16s %d\n", i+1, entry.Name, entry.Wins)
	}
}

// printf - output is shared between the command loop and controller
// callbacks, so writes are serialized.
func (that *Terminal) printf(format string, args ...any) {
	that.mu.Lock()
	defer that.mu.Unlock()

	fmt.Fprintf(that.out, format, args...)
}

func argAt(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}
