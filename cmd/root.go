package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/weni-ai/conversation-analyzer/pkg/api"
	"github.com/weni-ai/conversation-analyzer/pkg/config"
	"github.com/weni-ai/conversation-analyzer/pkg/logger"
	"github.com/weni-ai/conversation-analyzer/pkg/pipeline"
	"github.com/weni-ai/conversation-analyzer/pkg/report"
)

var (
	flagStartDate   string
	flagEndDate     string
	flagToken       string
	flagProjectUUID string
	flagOutputDir   string
	flagVerbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "conversation-analyzer",
	Short: "Analyze conversations and agent traces from the Weni AI platform",
	Long: `Fetches conversations for a date range, walks their agent messages,
classifies every agent trace, and writes invocation statistics plus
per-tool CSV exports.

Credentials come from flags, the WENI_BEARER_TOKEN and
WENI_PROJECT_UUID environment variables, or the saved configuration
(see 'conversation-analyzer configure').

Examples:
  conversation-analyzer --start-date 15-05-2025 --end-date 22-05-2025 --token YOUR_TOKEN
  conversation-analyzer -s 01-01-2025 -e 31-01-2025 -t YOUR_BEARER_TOKEN
  conversation-analyzer -s 01-01-2025 -e 31-01-2025`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAnalysis,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&flagStartDate, "start-date", "s", "", "Start date in DD-MM-YYYY format (e.g. 15-05-2025)")
	rootCmd.Flags().StringVarP(&flagEndDate, "end-date", "e", "", "End date in DD-MM-YYYY format (e.g. 22-05-2025)")
	rootCmd.Flags().StringVarP(&flagToken, "token", "t", "", "Bearer token (falls back to WENI_BEARER_TOKEN)")
	rootCmd.Flags().StringVarP(&flagProjectUUID, "project-uuid", "p", "", "Project UUID (falls back to WENI_PROJECT_UUID)")
	rootCmd.Flags().StringVarP(&flagOutputDir, "output-dir", "o", ".", "Output directory for generated files")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Also write log output to stderr")

	_ = rootCmd.MarkFlagRequired("start-date")
	_ = rootCmd.MarkFlagRequired("end-date")
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize log file: %v\n", err)
	}
	defer logger.Close()
	if flagVerbose {
		logger.Get().SetLevel(logger.DEBUG)
		logger.Get().SetAlsoStderr(true)
	}

	token, projectUUID, err := config.ResolveCredentials(cmd.Context(), flagToken, flagProjectUUID)
	if err != nil {
		return err
	}

	cfg := &config.Config{
		BearerToken: token,
		ProjectUUID: projectUUID,
		StartDate:   flagStartDate,
		EndDate:     flagEndDate,
		OutputDir:   flagOutputDir,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	stop := watchInterrupts(cancel)
	defer stop()

	logger.Info("starting analysis: range=%s..%s project=%s output=%s",
		cfg.StartDate, cfg.EndDate, cfg.ProjectUUID, cfg.OutputDir)

	fmt.Println("Starting conversation analysis...")
	fmt.Printf("Date range: %s to %s\n", cfg.StartDate, cfg.EndDate)
	fmt.Printf("Project UUID: %s\n", cfg.ProjectUUID)
	fmt.Println(strings.Repeat("-", 50))

	client := api.NewClient(cfg, nil)
	st, sum, runErr := pipeline.Run(ctx, client, cfg.StartDate, cfg.EndDate, os.Stdout)
	if runErr != nil {
		logger.Error("run ended early: %v", runErr)
	}

	// Partial results are still rendered when the run is cut short.
	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	if err := report.WriteStatistics(os.Stdout, st); err != nil {
		logger.Warn("failed to render statistics: %v", err)
	}

	fmt.Println("\nGenerating CSV files...")
	files, fileErr := report.WriteFiles(cfg.OutputDir, st, time.Now())
	switch {
	case fileErr != nil:
		fmt.Fprintf(os.Stderr, "Failed to write report files: %v\n", fileErr)
		logger.Error("failed to write report files: %v", fileErr)
	case files.Combined == "":
		fmt.Println("No tool call data to export.")
		fmt.Printf("Statistics saved to: %s\n", files.Statistics)
	default:
		fmt.Printf("Generated overall tool invocations CSV: %s\n", files.Combined)
		for _, path := range files.PerTool {
			fmt.Printf("Generated tool-specific CSV: %s\n", path)
		}
		fmt.Printf("\nTotal tool invocation records exported: %d\n", len(st.ToolRows))
		fmt.Printf("Statistics saved to: %s\n", files.Statistics)
	}

	report.WriteRunSummary(os.Stdout, sum)

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return errors.New("analysis interrupted by user")
		}
		return fmt.Errorf("error during analysis: %w", runErr)
	}
	if fileErr != nil {
		return fileErr
	}

	fmt.Println("\nAnalysis completed successfully!")
	return nil
}

// watchInterrupts cancels the run on SIGINT or SIGTERM. The returned
// stop func detaches the handler and retires the goroutine.
func watchInterrupts(cancel context.CancelFunc) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\nInterrupt received, stopping after the current conversation...")
			cancel()
		case <-done:
		}
	}()
	return func() {
		signal.Stop(sigCh)
		close(done)
		<-exited
	}
}
