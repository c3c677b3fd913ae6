// Package main is the entry point for the cricmetrics CLI tool, which
// aggregates ball-by-ball cricket match archives into per-season player stats.
package main

import "github.com/pable/go-cricket-metrics/cmd"

func main() {
	cmd.Execute()
}
