// Package loop wires a local lobby and a single client into a playable session.
package loop

import (
	"bufio"
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/tetris/internal/draw"
	"github.com/tomz197/tetris/internal/game"
	"github.com/tomz197/tetris/internal/loop/client"
	"github.com/tomz197/tetris/internal/loop/server"
)

// Options configures a local session.
type Options struct {
	Username     string
	Listener     game.Listener   // Sound or bell; may be nil
	Random       game.Randomizer // nil means randomly seeded
	Logger       *log.Logger     // nil means log.Default()
	TermSizeFunc draw.TermSizeFunc
}

// Run plays on a private lobby until the player quits. The leaderboard lives
// only as long as the session.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lobby := server.NewServer(server.WithLogger(logger))
	go lobby.Run(ctx)

	c := client.NewClient(lobby, r, w, client.ClientOptions{
		TermSizeFunc: opts.TermSizeFunc,
		Username:     opts.Username,
		Listener:     opts.Listener,
		Random:       opts.Random,
	})
	return c.Run()
}
