package haxor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/term"
)

// spawnCommand runs binary with args, using a PTY when stdin is a real
// terminal and falling back to a plain subprocess otherwise.
//
// Under a PTY hn sees a terminal, so its listings keep their colours and
// Ctrl-C reaches it through the line discipline.
func spawnCommand(binary string, args []string, env []string) (exitCode int, err error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		cmd := exec.Command(binary, args...)
		cmd.Env = env
		// pty.Start has not started cmd when it fails, so a fresh Cmd can
		// still be used below.
		if ptmx, ptErr := pty.Start(cmd); ptErr == nil {
			return runWithPTY(cmd, ptmx)
		}
	}

	cmd := exec.Command(binary, args...)
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return runPlain(cmd)
}

// runWithPTY drives an already-started subprocess through its PTY master.
//
// term.MakeRaw disables ISIG on the real terminal, so Ctrl-C arrives as byte
// 0x03 and is forwarded to the PTY, where the slave's line discipline turns
// it into SIGINT for the child. The shell itself never sees the signal.
func runWithPTY(cmd *exec.Cmd, ptmx *os.File) (exitCode int, err error) {
	defer func() { _ = ptmx.Close() }()

	winchC := make(chan os.Signal, 1)
	signal.Notify(winchC, syscall.SIGWINCH)
	defer func() {
		signal.Stop(winchC)
		close(winchC)
	}()
	go func() {
		for range winchC {
			_ = pty.InheritSize(os.Stdin, ptmx)
		}
	}()
	winchC <- syscall.SIGWINCH

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		_ = cmd.Wait()
		return 0, fmt.Errorf("haxor: set raw mode: %w", err)
	}
	defer func() { _ = term.Restore(int(os.Stdin.Fd()), oldState) }()

	// stdin→ptmx exits when ptmx is closed; ptmx→stdout ends with EIO once
	// the child exits.
	go func() { _, _ = io.Copy(ptmx, os.Stdin) }()
	_, _ = io.Copy(os.Stdout, ptmx)

	return exitStatus(cmd.Wait())
}

// runPlain runs cmd without a PTY. SIGINT is ignored by the shell while the
// child runs; the terminal still delivers it to the child's process group.
func runPlain(cmd *exec.Cmd) (exitCode int, err error) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)

	return exitStatus(cmd.Run())
}

// runPipeline connects stages stdout to stdin, feeds the first from the
// terminal and writes the last to out. The exit code is that of the
// rightmost stage that failed, so an hn error is not masked by a pager that
// exited cleanly.
func runPipeline(stages []*exec.Cmd, out, errOut io.Writer) (exitCode int, err error) {
	var pipes []*os.File
	closePipes := func() {
		for _, p := range pipes {
			_ = p.Close()
		}
		pipes = nil
	}

	stages[0].Stdin = os.Stdin
	for i := 0; i < len(stages)-1; i++ {
		r, w, err := os.Pipe()
		if err != nil {
			closePipes()
			return 0, fmt.Errorf("haxor: pipe: %w", err)
		}
		pipes = append(pipes, r, w)
		stages[i].Stdout = w
		stages[i+1].Stdin = r
	}
	stages[len(stages)-1].Stdout = out
	for _, c := range stages {
		c.Stderr = errOut
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)

	var startErr error
	started := 0
	for _, c := range stages {
		if err := c.Start(); err != nil {
			startErr = fmt.Errorf("haxor: start %s: %w", c.Path, err)
			break
		}
		started++
	}
	// The children hold their own copies; the parent's ends must be closed
	// for readers to see EOF.
	closePipes()

	for _, c := range stages[:started] {
		code, err := exitStatus(c.Wait())
		if err != nil && startErr == nil {
			startErr = err
		}
		if code != 0 {
			exitCode = code
		}
	}
	return exitCode, startErr
}

// exitStatus converts the result of Cmd.Wait into an exit code. A non-zero
// exit is not an error.
func exitStatus(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, err
}
