package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "absensi-server",
	Short: "Attendance reconciliation server for an RFID + face-verified entrance",
	Long: `absensi-server correlates identity taps from an access-control reader with
face-verification verdicts from a camera daemon into a single append-only
attendance log, and serves reporting queries over that log.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() {
		// .env file is optional, don't fail if not found
		_ = godotenv.Load()
	})
}
