package main

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// Output files
const (
	profileFileMode = 0o644
)
