package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/weni-ai/conversation-analyzer/pkg/logger"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Manage analyzer logs",
	Long:  "View or manage conversation-analyzer log files",
}

var logsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print log directory path",
	Run: func(cmd *cobra.Command, args []string) {
		logDir, err := logger.LogDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to resolve log directory: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(logDir)
	},
}

var logsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all log files",
	Run: func(cmd *cobra.Command, args []string) {
		logDir, err := logger.LogDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to resolve log directory: %v\n", err)
			os.Exit(1)
		}

		files, err := filepath.Glob(filepath.Join(logDir, "analyzer*.log*"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list logs: %v\n", err)
			os.Exit(1)
		}

		if len(files) == 0 {
			fmt.Println("No log files found")
			return
		}

		for _, file := range files {
			info, err := os.Stat(file)
			if err != nil {
				logger.Warn("Failed to stat %s: %v", file, err)
				continue
			}
			fmt.Printf("%s (%d bytes)\n", filepath.Base(file), info.Size())
		}
	},
}

var logsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete rotated log files (keeps current)",
	Run: func(cmd *cobra.Command, args []string) {
		logDir, err := logger.LogDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to resolve log directory: %v\n", err)
			os.Exit(1)
		}

		// Rotated files carry a timestamp (analyzer-<ts>.log, possibly
		// gzipped); the live analyzer.log never matches this pattern.
		files, err := filepath.Glob(filepath.Join(logDir, "analyzer-*.log*"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list logs: %v\n", err)
			os.Exit(1)
		}

		if len(files) == 0 {
			fmt.Println("No old log files to delete")
			return
		}

		deletedCount := 0
		for _, file := range files {
			if err := os.Remove(file); err != nil {
				logger.Warn("Failed to delete %s: %v", filepath.Base(file), err)
			} else {
				fmt.Printf("Deleted %s\n", filepath.Base(file))
				deletedCount++
			}
		}

		fmt.Printf("\nDeleted %d old log file(s)\n", deletedCount)
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(logsPathCmd)
	logsCmd.AddCommand(logsListCmd)
	logsCmd.AddCommand(logsClearCmd)
}
