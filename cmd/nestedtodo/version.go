package main

import "fmt"

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("nestedtodo {{.Version}}\n")
}

func versionString() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
}
