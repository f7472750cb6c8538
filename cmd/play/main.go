// Command play runs a gomoku match on the terminal. Moves are read from stdin,
// finished matches are submitted to a history server when -server is set.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gomokuserver/gomoku"
	"gomokuserver/history/client"
	"gomokuserver/models"

	"go.uber.org/zap"
)

func main() {
	server := flag.String("server", "", "history server websocket url, e.g. ws://localhost:8080/ws")
	playerOne := flag.String("p1", "Player 1", "name of player one")
	playerTwo := flag.String("p2", "Player 2", "name of player two")
	opening := flag.String("opening", "standard", "opening rule: standard or swap2")
	debug := flag.Bool("debug", false, "log every move")
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := gomoku.Config{PlayerOneName: *playerOne, PlayerTwoName: *playerTwo}
	switch strings.ToLower(*opening) {
	case "standard":
	case "swap2":
		cfg.Opening = gomoku.Swap2
	default:
		fmt.Fprintf(os.Stderr, "unknown opening %q\n", *opening)
		os.Exit(2)
	}

	opts := []gomoku.Option{gomoku.WithLogger(logger)}
	var reporter *client.Reporter
	if *server != "" {
		reporter = client.NewReporter(*server, logger)
		opts = append(opts, gomoku.WithReporter(reporter))
	}

	s := &session{
		match:  gomoku.NewMatch(cfg, opts...),
		server: *server,
		out:    os.Stdout,
		logger: logger,
	}
	s.run(os.Stdin)

	if reporter != nil {
		reporter.Wait()
	}
}

type session struct {
	match  *gomoku.Match
	server string
	out    io.Writer
	logger *zap.Logger
}

const help = `commands:
  <x> <y>       place a stone
  choose <1-3>  swap2 choice: 1 take white, 2 take black, 3 place two more
  rematch       start over with the same players
  history       list matches stored on the server
  ping          measure the round trip to the server
  quit`

func (s *session) run(in io.Reader) {
	fmt.Fprintln(s.out, help)
	s.printBoard()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" {
			return
		}
		if err := s.exec(fields); err != nil {
			fmt.Fprintln(s.out, "error:", err)
		}
	}
}

func (s *session) exec(fields []string) error {
	switch fields[0] {
	case "choose":
		if len(fields) != 2 {
			return fmt.Errorf("usage: choose <1-3>")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return err
		}
		if err := s.match.ChooseOpening(gomoku.OpeningOption(n)); err != nil {
			return err
		}
	case "rematch":
		s.match.Rematch()
	case "history":
		return s.showHistory()
	case "ping":
		return s.ping()
	default:
		if len(fields) != 2 {
			return fmt.Errorf("unknown command %q", strings.Join(fields, " "))
		}
		x, err := strconv.Atoi(fields[0])
		if err != nil {
			return err
		}
		y, err := strconv.Atoi(fields[1])
		if err != nil {
			return err
		}
		if err := s.match.PlaceStone(x, y); err != nil {
			return err
		}
	}
	s.printBoard()
	return nil
}

func (s *session) printBoard() {
	board := s.match.Board()
	var b strings.Builder
	b.WriteString("   ")
	for x := 0; x < gomoku.BoardSize; x++ {
		fmt.Fprintf(&b, "%3d", x)
	}
	b.WriteByte('\n')
	for y := 0; y < gomoku.BoardSize; y++ {
		fmt.Fprintf(&b, "%3d", y)
		for x := 0; x < gomoku.BoardSize; x++ {
			switch board[x][y] {
			case gomoku.Black:
				b.WriteString("  X")
			case gomoku.White:
				b.WriteString("  O")
			default:
				b.WriteString("  .")
			}
		}
		b.WriteByte('\n')
	}
	fmt.Fprint(s.out, b.String())

	for _, p := range []*gomoku.Player{s.match.PlayerOne(), s.match.PlayerTwo()} {
		fmt.Fprintf(s.out, "%s (%s): stones %d, longest %d, wins %d, streak %d\n",
			p.Name, p.Color, p.Placed, p.Maximum, p.Wins, p.Streak)
	}

	switch {
	case s.match.GameOver() && s.match.Winner() != nil:
		fmt.Fprintf(s.out, "%s wins. Type rematch to play again.\n", s.match.Winner().Name)
	case s.match.GameOver():
		fmt.Fprintln(s.out, "Tie. Type rematch to play again.")
	case s.match.ChoiceRequired():
		fmt.Fprintf(s.out, "%s: choose %v\n", s.match.CurrentPlayer().Name, s.match.OpeningOptions())
	default:
		p := s.match.CurrentPlayer()
		fmt.Fprintf(s.out, "round %d, %s to move with %s\n", s.match.Round(), p.Name, p.Color)
	}
}

// withClient opens a short-lived session for one request.
func (s *session) withClient(listener client.Listener, request func(c *client.Client) error, await <-chan struct{}) error {
	if s.server == "" {
		return fmt.Errorf("no history server configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := client.Dial(ctx, s.server, listener, s.logger)
	if err != nil {
		return err
	}
	defer c.Close()
	if err := c.WaitReady(ctx); err != nil {
		return err
	}
	if err := request(c); err != nil {
		return err
	}

	select {
	case <-await:
	case <-c.Done():
		return client.ErrConnectionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	return c.CloseSession(ctx)
}

func (s *session) showHistory() error {
	received := make(chan struct{})
	listener := client.ListenerFuncs{
		HistoryAll: func(entries []models.HistoryEntry) {
			for i, e := range entries {
				result := "tie"
				switch {
				case e.PlayerOneWinner:
					result = e.PlayerOneName + " won"
				case e.PlayerTwoWinner:
					result = e.PlayerTwoName + " won"
				}
				fmt.Fprintf(s.out, "%3d. %s vs %s: %s\n", i+1, e.PlayerOneName, e.PlayerTwoName, result)
			}
			close(received)
		},
	}
	return s.withClient(listener, (*client.Client).RequestHistory, received)
}

func (s *session) ping() error {
	received := make(chan struct{})
	listener := client.ListenerFuncs{
		PingResponse: func(rtt time.Duration) {
			fmt.Fprintf(s.out, "round trip %v\n", rtt)
			close(received)
		},
	}
	return s.withClient(listener, (*client.Client).RequestPing, received)
}
