package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/mail"
	"github.com/sells-group/leadgen-cli/internal/model"
)

var (
	sendSubject string
	sendDryRun  bool
)

var sendCmd = &cobra.Command{
	Use:   "send <leads.json>",
	Short: "Send drafted cold emails to generated leads",
	Long:  "Reads leads written by generate (a result object or a bare array) and emails every lead that has both an address and a drafted email.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		leads, err := readLeadsFile(args[0])
		if err != nil {
			return err
		}

		recipients := mail.RecipientsFromLeads(leads)
		if len(recipients) == 0 {
			return eris.New("no valid recipients found")
		}

		if sendDryRun {
			for _, r := range recipients {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d chars\n", r.Email, len(r.Body))
			}
			zap.L().Info("dry run, no emails sent", zap.Int("recipients", len(recipients)))
			return nil
		}

		if err := cfg.Validate("send"); err != nil {
			return err
		}

		res := newMailer(cfg).SendBulk(cmd.Context(), recipients, sendSubject)
		if err := writeOutput(cmd.OutOrStdout(), formatJSON, res); err != nil {
			return err
		}
		if res.Sent == 0 {
			return eris.Errorf("no emails sent (%d failed)", res.Failed)
		}
		return nil
	},
}

// readLeadsFile decodes leads from either a generate result object or a JSON
// array of leads.
func readLeadsFile(path string) ([]model.Lead, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var leads []model.Lead
		if err := json.Unmarshal(trimmed, &leads); err != nil {
			return nil, eris.Wrapf(err, "parse %s", path)
		}
		return leads, nil
	}

	var wrapped struct {
		Leads []model.Lead `json:"leads"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, eris.Wrapf(err, "parse %s", path)
	}
	return wrapped.Leads, nil
}

func init() {
	sendCmd.Flags().StringVar(&sendSubject, "subject", mail.DefaultSubject, "email subject")
	sendCmd.Flags().BoolVar(&sendDryRun, "dry-run", false, "list recipients without sending")
	rootCmd.AddCommand(sendCmd)
}
