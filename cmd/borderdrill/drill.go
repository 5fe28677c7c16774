package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/borderdrill/borderdrill/pkg/interview"
	"github.com/borderdrill/borderdrill/pkg/models"
	"github.com/borderdrill/borderdrill/pkg/persona"
	"github.com/borderdrill/borderdrill/pkg/prompt"
)

func newDrillCmd() *cobra.Command {
	var (
		configPath string
		personaID  string
	)

	cmd := &cobra.Command{
		Use:   "drill",
		Short: "Run an interview session in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Pin the persona for the whole session.
			p, fallback := a.service.Personas().Resolve(personaID, persona.DefaultSource)
			if fallback && personaID != "" {
				color.Yellow("Unknown persona %q, drawing a random traveler.", personaID)
			}
			return runDrill(ctx, a.service, p.ID, os.Stdin)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVarP(&personaID, "persona", "p", "", "persona id (random when empty)")
	return cmd
}

func runDrill(ctx context.Context, svc *interview.Service, personaID string, in io.Reader) error {
	officer := color.New(color.FgGreen, color.Bold).SprintFunc()
	traveler := color.New(color.FgCyan, color.Bold).SprintFunc()
	errColor := color.New(color.FgRed).SprintFunc()

	sessionID := uuid.NewString()
	fmt.Println(officer("Border interview drill"))
	fmt.Printf("Session: %s\n", sessionID)
	fmt.Println("Ask your questions. Type /score to finish and get feedback, /quit to leave.")
	fmt.Println()

	var transcript []models.Message
	scanner := bufio.NewScanner(in)

	for {
		fmt.Print(officer("Officer: "))
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/quit":
			return nil
		case "/score":
			if len(transcript) == 0 {
				fmt.Println(errColor("Nothing to score yet, ask a question first."))
				continue
			}
			score, err := svc.Score(ctx, transcript, interview.Meta{RequestID: uuid.NewString(), SessionID: sessionID})
			if err != nil {
				fmt.Fprintln(os.Stderr, errColor("Error scoring conversation: "+err.Error()))
				continue
			}
			fmt.Println()
			fmt.Println(color.New(color.FgYellow, color.Bold).Sprint("Score & Feedback:"))
			fmt.Println(score)
			return nil
		}

		reply, err := svc.Reply(ctx, models.InterviewRequest{
			Conversation: transcript,
			NewMessage:   line,
			ProfileID:    personaID,
		}, interview.Meta{RequestID: uuid.NewString(), SessionID: sessionID})
		if err != nil {
			fmt.Fprintln(os.Stderr, errColor("Error: "+err.Error()))
			continue
		}

		fmt.Printf("%s %s\n\n", traveler("Traveler:"), reply.Text)
		transcript = append(transcript,
			models.Message{Role: models.RoleUser, Content: prompt.Sanitize(line)},
			models.Message{Role: models.RoleAssistant, Content: reply.Text},
		)
	}
}
