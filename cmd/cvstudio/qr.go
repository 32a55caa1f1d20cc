package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmoreno/cv-studio/internal/qr"
)

var qrCmd = &cobra.Command{
	Use:   "qr <format>",
	Short: "Encode a QR payload string",
	Long:  "Reads a payload JSON object from stdin and prints the encoded QR content string for the given format (url, email, phone, sms, whatsapp, wifi, vcard, mecard, geo, event, bitcoin).",
	Args:  cobra.ExactArgs(1),
	RunE:  runQR,
}

func init() {
	rootCmd.AddCommand(qrCmd)
}

func runQR(_ *cobra.Command, args []string) error {
	body, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	payload, err := qr.Decode(qr.Format(args[0]), body)
	if err != nil {
		return err
	}

	fmt.Println(payload.Encode())
	return nil
}
