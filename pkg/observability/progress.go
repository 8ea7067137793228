// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package observability

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Progress prints the user-facing stage lines: "[+]" for stage entry and
// success, "[-]" for failure.
type Progress struct {
	out     io.Writer
	stage   *color.Color
	ok      *color.Color
	failed  *color.Color
	command *color.Color
}

// NewProgress creates a Progress writing to stdout.
func NewProgress() *Progress {
	return NewProgressTo(os.Stdout, color.NoColor)
}

// NewProgressTo creates a Progress writing to w. noColor strips ANSI codes.
func NewProgressTo(w io.Writer, noColor bool) *Progress {
	p := &Progress{
		out:     w,
		stage:   color.New(color.FgMagenta),
		ok:      color.New(color.FgGreen),
		failed:  color.New(color.FgRed),
		command: color.New(color.FgYellow),
	}
	if noColor {
		for _, c := range []*color.Color{p.stage, p.ok, p.failed, p.command} {
			c.DisableColor()
		}
	} else {
		for _, c := range []*color.Color{p.stage, p.ok, p.failed, p.command} {
			c.EnableColor()
		}
	}
	return p
}

// Stage announces entry into a stage.
func (p *Progress) Stage(format string, args ...any) {
	_, _ = p.stage.Fprintln(p.out, "[+] "+fmt.Sprintf(format, args...))
}

// Success reports a successful outcome.
func (p *Progress) Success(format string, args ...any) {
	_, _ = p.ok.Fprintln(p.out, "[+] "+fmt.Sprintf(format, args...))
}

// Failure reports a failed outcome.
func (p *Progress) Failure(format string, args ...any) {
	_, _ = p.failed.Fprintln(p.out, "[-] "+fmt.Sprintf(format, args...))
}

// Note prints an informational line without a marker, e.g. a PR title.
func (p *Progress) Note(format string, args ...any) {
	_, _ = p.ok.Fprintln(p.out, fmt.Sprintf(format, args...))
}

// Command echoes a command before it runs.
func (p *Progress) Command(cmd string) {
	_, _ = p.command.Fprintln(p.out, cmd)
}
