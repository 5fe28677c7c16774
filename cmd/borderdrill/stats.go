package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/borderdrill/borderdrill/pkg/config"
	"github.com/borderdrill/borderdrill/pkg/tracker"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	var (
		configPath string
		since      time.Duration
		sessionID  string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show provider usage statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if !cfg.Usage.Enabled {
				fmt.Println("Usage tracking is disabled.")
				return nil
			}

			tr, err := tracker.New(cfg.DBPath)
			if err != nil {
				return err
			}
			defer tr.Close()

			ctx := context.Background()

			// Session detail view
			if sessionID != "" {
				recs, err := tr.QuerySession(ctx, sessionID)
				if err != nil {
					return err
				}
				if len(recs) == 0 {
					fmt.Println("No calls found for session.")
					return nil
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TIME\tKIND\tPERSONA\tPROMPT\tCOMPLETION\tTOTAL\tLATENCY")
				for _, r := range recs {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%dms\n",
						r.CreatedAt.Format("2006-01-02T15:04:05"), r.Kind, r.PersonaID, r.PromptTokens, r.CompletionTokens, r.TotalTokens, r.LatencyMs)
				}
				return w.Flush()
			}

			var from time.Time
			if since > 0 {
				from = time.Now().UTC().Add(-since)
			}
			summaries, err := tr.Summary(ctx, from)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Println("No usage data found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tPERSONA\tMODEL\tREQUESTS\tPROMPT\tCOMPLETION\tTOTAL")
			for _, s := range summaries {
				personaID := s.PersonaID
				if personaID == "" {
					personaID = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
					s.Kind, personaID, s.Model, s.RequestCount, s.TotalPrompt, s.TotalCompletion, s.TotalTokens)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().DurationVar(&since, "since", 0, "only include calls newer than this (e.g. 24h)")
	cmd.Flags().StringVar(&sessionID, "session-id", "", "show detail for a specific session")
	return cmd
}
