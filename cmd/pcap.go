package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"firestige.xyz/stomptap/internal/capture"
	"firestige.xyz/stomptap/internal/reporter"
	"firestige.xyz/stomptap/pkg/frame"
	"firestige.xyz/stomptap/pkg/log"
)

var (
	pcapPort   int
	pcapBinary bool
)

var pcapCmd = &cobra.Command{
	Use:   "pcap <file>",
	Short: "Extract and decode STOMP traffic from a capture file",
	Long: `
Read a pcap or pcapng file, pick out the TCP segments carrying STOMP
traffic and decode them. Each flow direction keeps its own partial
buffer, so frames split across segments come out whole.

Examples:
  stomptap pcap traffic.pcap                    # default broker port 61613
  stomptap pcap --port 61614 traffic.pcapng
  stomptap pcap --port 0 traffic.pcap           # all TCP traffic
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		logger := log.GetLogger()

		if !cmd.Flags().Changed("port") {
			pcapPort = cfg.Capture.Port
		}
		if !cmd.Flags().Changed("binary") {
			pcapBinary = cfg.Decode.Binary
		}

		rep, err := reporter.New(cfg.Reporters)
		if err != nil {
			exitWithError("failed to build reporters", err)
		}
		defer rep.Close()

		src, err := capture.OpenFile(args[0])
		if err != nil {
			exitWithError("failed to open capture", err)
		}
		defer src.Close()

		ctx := context.Background()
		captureCfg := cfg.Capture
		captureCfg.Port = pcapPort
		asm := capture.NewAssembler(captureCfg, pcapBinary, func(key capture.FlowKey, msg frame.Message) {
			if err := rep.Report(ctx, msg); err != nil {
				logger.WithError(err).WithField("flow", key.String()).Error("report failed")
			}
		})

		if err := asm.Run(src); err != nil {
			exitWithError("capture processing failed", err)
		}
	},
}

func init() {
	pcapCmd.Flags().IntVar(&pcapPort, "port", 61613, "TCP port carrying STOMP traffic (0 = all)")
	pcapCmd.Flags().BoolVar(&pcapBinary, "binary", false, "use the binary unmarshalling pipeline")
	rootCmd.AddCommand(pcapCmd)
}
