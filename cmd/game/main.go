package main

import (
	"bufio"
	"math/rand/v2"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/tetris/internal/config"
	"github.com/tomz197/tetris/internal/loop"
	"github.com/tomz197/tetris/internal/sound"
)

func main() {
	// Logs share the terminal with the game, so only errors are shown by default.
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "tetris"})
	level, err := log.ParseLevel(config.GetEnv("LOG_LEVEL", "error"))
	if err != nil {
		level = log.ErrorLevel
	}
	logger.SetLevel(level)

	opts := loop.Options{
		Username: config.GetEnv("USER", "player"),
		Logger:   logger,
	}

	if config.GetEnvBool("TETRIS_SOUND", true) {
		player := sound.NewPlayer()
		if err := player.Init(); err != nil {
			// Non-fatal, game can run without sound
			logger.Warn("audio initialization failed", "err", err)
		} else {
			defer player.Close()
			opts.Listener = player
		}
	}

	if seed := config.GetEnvInt("TETRIS_SEED", 0); seed != 0 {
		opts.Random = rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logger.Fatal("failed to enable raw mode", "err", err)
	}

	reader := bufio.NewReader(os.Stdin)
	runErr := loop.Run(reader, os.Stdout, opts)
	_ = term.Restore(fd, oldState)
	if runErr != nil {
		logger.Fatal("game error", "err", runErr)
	}
}
