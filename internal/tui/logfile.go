package tui

import (
	"os"
	"path/filepath"
)

// GetLogFilePath returns the path to the log file.
// If RESTACK_LOG_FILE is set, uses that path.
// Otherwise, uses ~/.restack/logs/restack.log
func GetLogFilePath() string {
	if customPath := os.Getenv("RESTACK_LOG_FILE"); customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "restack.log"
	}

	return filepath.Join(homeDir, ".restack", "logs", "restack.log")
}
