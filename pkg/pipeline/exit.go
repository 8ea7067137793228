// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package pipeline

// Process exit codes.
const (
	ExitSuccess  = 0
	ExitFail     = 1
	ExitInternal = 2
)

// ExitCode maps a driver's return values to a process exit code.
func ExitCode(res Result, err error) int {
	switch {
	case err != nil:
		return ExitInternal
	case res.State == StateSuccess:
		return ExitSuccess
	case res.State == StateFail:
		return ExitFail
	default:
		return ExitInternal
	}
}
