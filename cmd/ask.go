package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/finquery/internal/engine"
	"github.com/ziadkadry99/finquery/internal/session"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a financial question from the command line",
	Long:  `Runs one query through the full classification and fan-out pipeline and prints the answer.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().String("mode", "quick", "answer mode: quick or deep")
	askCmd.Flags().String("session", "", "session id to continue a conversation")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := args[0]
	modeStr, _ := cmd.Flags().GetString("mode")
	sessionID, _ := cmd.Flags().GetString("session")

	mode := engine.Mode(modeStr)
	if mode != engine.ModeQuick && mode != engine.ModeDeep {
		return fmt.Errorf("mode must be %q or %q", engine.ModeQuick, engine.ModeDeep)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	eng, err := buildEngine(cfg, session.NewStore(cfg.HistoryCap), nil)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("Thinking"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	answer, err := eng.HandleQuery(context.Background(), query, mode, sessionID)
	close(done)
	_ = bar.Finish()
	if err != nil {
		return err
	}

	fmt.Println(answer.Answer)

	if len(answer.Citations) > 0 {
		fmt.Println("\nSources:")
		for _, c := range answer.Citations {
			fmt.Printf("  %s\n", c)
		}
	}
	if len(answer.Suggestions) > 0 {
		fmt.Println("\nYou could ask next:")
		for _, s := range answer.Suggestions {
			fmt.Printf("  - %s\n", s)
		}
	}

	return nil
}
