package runner

import (
	"bytes"
	"context"
	"os"

	"github.com/dimiro1/banner"
)

type State int

const (
	StateNew State = iota
	StateStarting
	StateRunning
	StateDraining
	StateStopped
)

// Runner is a service lifecycle: run until stopped, drain, shut down.
type Runner interface {
	Run(ctx context.Context) error
	Stop() error
	State() State
}

type Hooks struct {
	OnStart func()
	OnStop  func()
}

// Drainer is implemented by components that wind down in-flight work before
// shutdown, like the HTTP facade.
type Drainer interface {
	Drain() error
}

const Version = "dev"

// PrintBanner writes the startup banner for the named service.
func PrintBanner(service string) {
	tpl := "{{ .Title \"" + service + "\" \"\" 0 }}\nVersion: " + Version + "\n"
	banner.Init(os.Stdout, true, true, bytes.NewBufferString(tpl))
}
