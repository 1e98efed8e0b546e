package manager

import (
	"os"
	"os/signal"
	"syscall"

	"khetao.com/clikit/shutdown"
)

const Name = "PosixSignalManager"

// interrupted is the status a shell reports for a program stopped by SIGINT.
const interrupted = 130

// PosixSignalManager begins shutdown on the first of its signals and exits
// the process once the callbacks are done.
type PosixSignalManager struct {
	signals []os.Signal
	exit    func(code int)
	stop    chan struct{}
}

// NewPosixSignalManager listens for sig, or SIGINT and SIGTERM when none are
// given.
func NewPosixSignalManager(sig ...os.Signal) *PosixSignalManager {
	if len(sig) == 0 {
		sig = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	return &PosixSignalManager{signals: sig, exit: os.Exit, stop: make(chan struct{})}
}

// SetExit replaces the function called when shutdown finishes.
func (m *PosixSignalManager) SetExit(exit func(code int)) { m.exit = exit }

func (m *PosixSignalManager) Name() string { return Name }

func (m *PosixSignalManager) Finish() error {
	m.exit(interrupted)
	return nil
}

func (m *PosixSignalManager) Watch(c *shutdown.Coordinator) error {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, m.signals...)

	go func() {
		defer signal.Stop(ch)
		select {
		case <-ch:
			c.Shutdown(m)
		case <-m.stop:
		}
	}()
	return nil
}

// Stop stops listening for signals. It must be called at most once.
func (m *PosixSignalManager) Stop() { close(m.stop) }
