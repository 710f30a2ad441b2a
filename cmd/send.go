package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmehdipour/iovox-sms/internal/model"
	"github.com/spf13/cobra"
)

var sendFields model.Fields

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send one SMS",
	Long: `Send one SMS through the IOVOX sendSms API.

Username, secure key and environment fall back to the api section of the
config file (or IOVOX_API_USERNAME / IOVOX_API_SECURE_KEY / IOVOX_API_ENVIRONMENT).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := a.sender.Send(ctx, sendFields)
		if !out.OK() {
			return out.Err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "SMS sent successfully! ID: %s\n", out.ActivityID)
		return nil
	},
}

func init() {
	f := sendCmd.Flags()
	f.StringVar(&sendFields.Username, "username", "", "IOVOX username")
	f.StringVar(&sendFields.SecureKey, "secure-key", "", "IOVOX secure key")
	f.StringVar(&sendFields.Origin, "origin", "", "sender id shown to the recipient (required)")
	f.StringVar(&sendFields.Destination, "destination", "", "recipient number (required)")
	f.StringVarP(&sendFields.Message, "message", "m", "", "message body, at most 160 characters (required)")
	f.StringVar(&sendFields.CallbackURL, "callback-url", "", "delivery report callback URL")
	f.StringVar(&sendFields.Expiry, "expiry", "", "expiry in minutes")
	f.StringVarP(&sendFields.Environment, "environment", "e", "", "sandbox | production")
}
