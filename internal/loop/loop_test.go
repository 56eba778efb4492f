package loop

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunQuitsOnQ(t *testing.T) {
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- Run(bufio.NewReader(strings.NewReader("q")), &out, Options{
			Username:     "tester",
			Logger:       log.New(io.Discard),
			TermSizeFunc: func() (int, int, error) { return 80, 30, nil },
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after quit")
	}

	s := out.String()
	assert.True(t, strings.HasPrefix(s, "\033[?25l"), "cursor hidden first")
	assert.True(t, strings.HasSuffix(s, "\033[?25h"), "cursor restored last")
}
