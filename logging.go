package main

import (
	"fmt"
	"log"
	"os"
)

// setupLogging sends the standard logger to a file, keeping a single rotated
// backup. Passing "-" (or nothing) leaves logging on stderr, which widget
// mode uses so runtime messages stay visible next to the prompt.
func setupLogging(path string) (*os.File, error) {
	if path == "" || path == "-" {
		return nil, nil
	}

	// Keep exactly one backup: drop the old one, rotate the current log.
	_ = os.Remove(path + ".1")
	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, path+".1"); err != nil {
			return nil, fmt.Errorf("failed to rotate existing log: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	log.SetOutput(f)
	return f, nil
}
