package commands

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"powergrades/lib/report"
	"powergrades/lib/serviceutil"

	"github.com/jordan-wright/email"
	"github.com/spf13/cobra"
)

var emailTo *string

func init() {
	emailTo = emailCmd.Flags().String("to", "", "The address to send the report to.")
	emailCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(emailCmd)
}

var emailCmd = &cobra.Command{
	Use:   "email --to <address>",
	Short: "Scrapes the student record and emails a grade report.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		student := scrapeStudent(cmd.Context(), cfg)

		var body bytes.Buffer
		report.Write(&body, student, report.Options{})

		mail := email.NewEmail()
		mail.From = fmt.Sprintf("powergrades <%s>", cfg.Smtp.EmailAddress)
		mail.To = []string{*emailTo}
		mail.Subject = fmt.Sprintf(
			"Grade report for %s %s",
			student.FirstName, student.LastName,
		)
		mail.Text = body.Bytes()

		addr := fmt.Sprintf("%s:%d", cfg.Smtp.Server, cfg.Smtp.Port)
		err := mail.Send(
			addr,
			smtp.PlainAuth("", cfg.Smtp.EmailAddress, cfg.Smtp.Password, cfg.Smtp.Server),
		)
		// some relays reject AUTH outright, retry without it
		if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
			err = mail.Send(addr, nil)
		}
		if err != nil {
			serviceutil.Fatal("failed to send report", err)
		}
		slog.Info("sent grade report", "to", *emailTo)
	},
}
