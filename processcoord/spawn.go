package processcoord

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"syscall"
)

// Result is the outcome of a spawned peer
type Result struct {
	// ExitCode is the peer's exit status
	ExitCode int

	// Report is the peer's own summary, or nil if it sent none
	Report *Report

	// ReportErr is set when the peer's report could not be decoded
	ReportErr error
}

// Process is a running peer context
type Process interface {
	// Wait blocks until the peer exits.  A nonzero exit status is not an error; the returned
	// error reports a failure to wait at all.
	Wait() (Result, error)
}

// Spawner duplicates the current context to run a peer
type Spawner interface {
	Spawn(Peer) (Process, error)
}

// SpawnerFunc is a function type that implements Spawner
type SpawnerFunc func(Peer) (Process, error)

func (sf SpawnerFunc) Spawn(p Peer) (Process, error) {
	return sf(p)
}

// ExecSpawner runs a peer by re-executing a binary, by default the current one, with the peer's
// identity in the environment.  The child inherits this process's output streams and receives one
// extra descriptor, a pipe, onto which it writes its Report.
type ExecSpawner struct {
	// Path is the binary to execute.  If unset, os.Executable is used.
	Path string

	// Args are the arguments passed to the child.  If nil, this process's arguments are reused.
	Args []string

	// RunID is passed to the child through RunEnv
	RunID string

	// Env holds extra environment entries of the form key=value
	Env []string

	// Stdout and Stderr default to this process's streams.  Passing an *os.File hands the
	// descriptor itself to the child, which keeps the ordering of writes across processes.
	Stdout io.Writer
	Stderr io.Writer
}

// setExtraFiles attaches extra files to the command and returns their descriptor numbers, which
// start at 3 in the child.
func setExtraFiles(cmd *exec.Cmd, extraFiles []*os.File) []string {
	cmd.ExtraFiles = extraFiles
	fds := make([]string, len(extraFiles))
	for i := range extraFiles {
		fds[i] = strconv.Itoa(i + 3)
	}

	return fds
}

func (es ExecSpawner) Spawn(p Peer) (Process, error) {
	path := es.Path
	if len(path) == 0 {
		var err error
		if path, err = os.Executable(); err != nil {
			return nil, err
		}
	}

	args := es.Args
	if args == nil && len(os.Args) > 1 {
		args = os.Args[1:]
	}

	reports, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(path, args...)
	cmd.Stdout = es.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}

	cmd.Stderr = es.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	fds := setExtraFiles(cmd, []*os.File{w})
	cmd.Env = append(os.Environ(), es.Env...)
	cmd.Env = append(cmd.Env,
		fmt.Sprintf("%s=%d", PeerEnv, p.Index),
		fmt.Sprintf("%s=%s", RunEnv, es.RunID),
		fmt.Sprintf("%s=%s", ReportEnv, fds[0]),
	)

	err = cmd.Start()
	w.Close()
	if err != nil {
		reports.Close()
		return nil, err
	}

	return &execProcess{cmd: cmd, reports: reports}, nil
}

type execProcess struct {
	cmd     *exec.Cmd
	reports *os.File
}

func (ep *execProcess) Wait() (Result, error) {
	var r Result
	r.Report, r.ReportErr = ReadReport(ep.reports)
	ep.reports.Close()

	err := ep.cmd.Wait()
	if err == nil {
		return r, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return r, err
	}

	r.ExitCode = exitErr.ExitCode()
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		r.ExitCode = 128 + int(ws.Signal())
	}

	return r, nil
}

// ReportFile opens the descriptor a parent handed this process for its Report.  The second return
// is false when no such descriptor was passed.
func ReportFile() (*os.File, bool) {
	v, ok := os.LookupEnv(ReportEnv)
	if !ok {
		return nil, false
	}

	fd, err := strconv.Atoi(v)
	if err != nil || fd < 3 {
		return nil, false
	}

	f := os.NewFile(uintptr(fd), "report")
	return f, f != nil
}
