package domain

import "time"

// Invocation is the captured result of one external process run.
type Invocation struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Success is true when the process exited 0.
func (i Invocation) Success() bool {
	return i.ExitCode == 0
}
