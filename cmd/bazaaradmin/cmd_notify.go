package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	notifyTitle   string
	notifyMessage string
)

// notifyCmd sends an in-app notification to one user.
var notifyCmd = &cobra.Command{
	Use:   "notify [user-id]",
	Short: "Send a notification to a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotify,
}

func init() {
	notifyCmd.Flags().StringVar(&notifyTitle, "title", "", "Notification title (required)")
	notifyCmd.Flags().StringVar(&notifyMessage, "message", "", "Notification body (required)")
	_ = notifyCmd.MarkFlagRequired("title")
	_ = notifyCmd.MarkFlagRequired("message")
}

func runNotify(cmd *cobra.Command, args []string) error {
	if cfg.Auth.Token == "" {
		return fmt.Errorf("not logged in, run 'bazaaradmin login' first")
	}
	client := newClient()
	if err := client.SendUserNotification(context.Background(), args[0], notifyTitle, notifyMessage); err != nil {
		return err
	}
	fmt.Println("Notification sent.")
	return nil
}
