package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MartyrMind/email-cli-app/internal/dispatcher"
	"github.com/MartyrMind/email-cli-app/internal/history"
	"github.com/MartyrMind/email-cli-app/internal/message"
	"github.com/MartyrMind/email-cli-app/internal/scheduler"
	"github.com/MartyrMind/email-cli-app/internal/task"
	"github.com/MartyrMind/email-cli-app/internal/transport"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send an email to one or more recipients",
	Long: `Compose and send an email. The body is Markdown and is delivered both as
plain text and as rendered HTML. Each recipient is a separate delivery
attempt; the command exits non-zero if any recipient ends in error.

Examples:
  email-cli-app send --to a@b.c --subject "Hi" --body "**hello**"
  email-cli-app send --to a@b.c,d@e.f --subject "Report" --body-file report.md --attach report.pdf
  email-cli-app send --to a@b.c --subject "Later" --body "..." --at 2026-09-01T09:00:00`,
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringSlice("to", nil, "Recipient address (repeatable or comma-separated)")
	sendCmd.Flags().String("subject", "", "Message subject")
	sendCmd.Flags().String("body", "", "Markdown body text")
	sendCmd.Flags().String("body-file", "", "Read the Markdown body from a file")
	sendCmd.Flags().StringSlice("attach", nil, "Attachment path (repeatable)")
	sendCmd.Flags().String("profile", "Gmail", "Server profile to send through")
	sendCmd.Flags().String("at", "", "Defer the send until this time (RFC3339 or 2006-01-02T15:04:05)")

	_ = sendCmd.MarkFlagRequired("to")
}

func runSend(cmd *cobra.Command, _ []string) error {
	recipients, _ := cmd.Flags().GetStringSlice("to")
	subject, _ := cmd.Flags().GetString("subject")
	attachments, _ := cmd.Flags().GetStringSlice("attach")
	profile, _ := cmd.Flags().GetString("profile")
	at, _ := cmd.Flags().GetString("at")

	if len(recipients) == 0 {
		return fmt.Errorf("at least one --to recipient is required")
	}

	body, err := resolveBody(cmd)
	if err != nil {
		return err
	}

	cfg, profiles, log, err := loadApp()
	if err != nil {
		return err
	}

	store, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Warn("closing history store", "error", cerr)
		}
	}()

	t := task.EmailTask{
		ID:          uuid.NewString(),
		Recipients:  recipients,
		Subject:     subject,
		Body:        body,
		Attachments: attachments,
		Profile:     profile,
	}

	var tr transport.Transport
	if cfg.TestMode {
		tr = transport.NewSimulated(log)
	} else {
		tr = transport.NewSMTP(profiles, log)
	}
	log.Info("transport selected", "transport", tr.Name(), "test_mode", cfg.TestMode)

	// Status events flow from the dispatcher's goroutines into this channel;
	// the command goroutine is the single consumer and history writer.
	type statusEvent struct {
		id     string
		status task.Status
	}
	events := make(chan statusEvent, 2*len(recipients))

	d := dispatcher.New(dispatcher.Config{
		Transport:    tr,
		Builder:      message.NewBuilder(log),
		Sink:         func(id string, status task.Status) { events <- statusEvent{id: id, status: status} },
		PollInterval: cfg.PollInterval,
		Logger:       log,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go d.Run(ctx)

	if at != "" {
		fireAt, err := parseSendTime(at)
		if err != nil {
			return err
		}
		sched, err := scheduler.New(d, log)
		if err != nil {
			return err
		}
		sched.Start()
		defer func() {
			if serr := sched.Stop(); serr != nil {
				log.Warn("stopping scheduler", "error", serr)
			}
		}()
		if err := sched.ScheduleSend(t, fireAt); err != nil {
			return err
		}
		fmt.Printf("Scheduled for %s.\n", fireAt.Format(time.RFC3339))
	} else {
		d.Enqueue(t)
	}

	// Placeholder lines: each recipient starts in the implicit waiting state.
	recipientByID := make(map[string]string, len(recipients))
	for _, r := range recipients {
		recipientByID[task.NotificationID(t.ID, r)] = r
		fmt.Println(statusLine(task.StatusWaiting, r))
	}

	failed := 0
	terminal := 0
	for terminal < len(recipients) {
		select {
		case <-ctx.Done():
			return fmt.Errorf("interrupted with %d of %d recipients unresolved",
				len(recipients)-terminal, len(recipients))
		case ev := <-events:
			recipient := recipientByID[ev.id]
			fmt.Println(statusLine(ev.status, recipient))

			if !ev.status.Terminal() {
				continue
			}
			terminal++
			if ev.status == task.StatusError {
				failed++
			}
			if err := store.Record(context.Background(), history.Attempt{
				TaskID:         t.ID,
				Recipient:      recipient,
				NotificationID: ev.id,
				Status:         ev.status,
				Subject:        subject,
				Profile:        profile,
			}); err != nil {
				log.Warn("recording delivery attempt", "notification_id", ev.id, "error", err)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d recipients failed", failed, len(recipients))
	}
	return nil
}

// resolveBody reads the Markdown body from --body-file or --body.
func resolveBody(cmd *cobra.Command) (string, error) {
	body, _ := cmd.Flags().GetString("body")
	bodyFile, _ := cmd.Flags().GetString("body-file")

	if body != "" && bodyFile != "" {
		return "", fmt.Errorf("--body and --body-file are mutually exclusive")
	}
	if bodyFile == "" {
		return body, nil
	}

	data, err := os.ReadFile(bodyFile) //nolint:gosec // path is user-supplied by design
	if err != nil {
		return "", fmt.Errorf("reading body file: %w", err)
	}
	return string(data), nil
}

// parseSendTime accepts RFC3339 or a zone-less local timestamp.
func parseSendTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid --at time %q: use RFC3339 or 2006-01-02T15:04:05", s)
}
