// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"firestige.xyz/stomptap/internal/config"
	"firestige.xyz/stomptap/pkg/log"
)

var (
	// Global flags
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stomptap",
	Short: "stomptap - STOMP wire codec and traffic inspection tool",
	Long: `stomptap serializes, decodes and inspects STOMP protocol frames.

The codec handles the framing problem of byte-oriented transports: one
transport read may carry several frames, and one frame may be split
across reads. Decoding is best-effort and stateless; unconsumed trailing
bytes are carried between calls per stream.

Commands:
  encode   Serialize one frame to wire bytes
  decode   Decode captured wire bytes into frames
  pcap     Extract and decode STOMP traffic from a capture file`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (optional; defaults apply without one)")
}

// loadConfig resolves the configuration and initializes logging for the
// running command.
func loadConfig() *config.Config {
	cfg, err := config.Load(configFile)
	if err != nil {
		exitWithError("failed to load config", err)
	}
	if err := log.Init(cfg.Log); err != nil {
		exitWithError("failed to initialize logging", err)
	}
	return cfg
}

// exitWithError prints error message and exits with code 1
func exitWithError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}
