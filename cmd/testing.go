package cmd

import (
	"bytes"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// mu serialises TestExecute: the command is shared by pointer
// and os.Stdout and os.Stderr are process wide.
var mu sync.Mutex

// TestExecute runs command with args and returns everything it wrote,
// to the command's writers as well as to os.Stdout and os.Stderr.
func TestExecute(t *testing.T, command *cobra.Command, args ...string) (string, error) {
	t.Helper()

	mu.Lock()
	defer mu.Unlock()

	out := &syncBuffer{}
	command.SetOut(out)
	command.SetErr(out)
	command.SetArgs(args)

	stdout, stderr := os.Stdout, os.Stderr

	rOut, wOut, err := os.Pipe()
	require.NoError(t, err)
	rErr, wErr, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout, os.Stderr = wOut, wErr

	// drain the pipes while the command runs, so a large output does not block it
	var wg sync.WaitGroup

	for _, r := range []io.Reader{rOut, rErr} {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, _ = io.Copy(out, r)
		}()
	}

	_, cmdErr := command.ExecuteC()

	os.Stdout, os.Stderr = stdout, stderr

	require.NoError(t, wOut.Close())
	require.NoError(t, wErr.Close())
	wg.Wait()

	command.SetArgs(nil)

	return out.String(), cmdErr
}

// syncBuffer is an io.Writer safe for concurrent use.
type syncBuffer struct {
	b bytes.Buffer
	m sync.Mutex
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.m.Lock()
	defer b.m.Unlock()

	return b.b.Write(p) //nolint:wrapcheck // bytes.Buffer only panics
}

func (b *syncBuffer) String() string {
	b.m.Lock()
	defer b.m.Unlock()

	return b.b.String()
}
