package cmd

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"firestige.xyz/stomptap/internal/reporter"
	"firestige.xyz/stomptap/pkg/codec"
	"firestige.xyz/stomptap/pkg/log"
)

var (
	decodeBinary bool
	decodeChunk  int
)

var decodeCmd = &cobra.Command{
	Use:   "decode [file]",
	Short: "Decode captured wire bytes into frames",
	Long: `
Decode raw STOMP wire bytes from a file (or stdin) into frames and hand
them to the configured reporters. Input is consumed in chunks; frames
split across chunk boundaries are reassembled through the codec's
partial buffer, exactly as a connection read loop would.

Examples:
  stomptap decode capture.bin                  # decode a dump file
  cat capture.bin | stomptap decode            # decode stdin
  stomptap decode --binary capture.bin         # force the binary pipeline
  stomptap decode --chunk 7 capture.bin        # stress frame reassembly
`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		logger := log.GetLogger()

		if !cmd.Flags().Changed("binary") {
			decodeBinary = cfg.Decode.Binary
		}
		if !cmd.Flags().Changed("chunk") {
			decodeChunk = cfg.Decode.ChunkSize
		}
		if decodeChunk <= 0 {
			exitWithError("chunk size must be positive", nil)
		}

		var in io.Reader = os.Stdin
		if len(args) == 1 {
			file, err := os.Open(args[0])
			if err != nil {
				exitWithError("failed to open input", err)
			}
			defer file.Close()
			in = file
		}

		rep, err := reporter.New(cfg.Reporters)
		if err != nil {
			exitWithError("failed to build reporters", err)
		}
		defer rep.Close()

		ctx := context.Background()
		var partial []byte
		var decoded int
		buf := make([]byte, decodeChunk)
		for {
			n, err := in.Read(buf)
			if n > 0 {
				res := codec.Unmarshal(partial, buf[:n], decodeBinary)
				partial = res.Partial
				for _, msg := range res.Messages {
					decoded++
					if rerr := rep.Report(ctx, msg); rerr != nil {
						logger.WithError(rerr).Error("report failed")
					}
				}
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				exitWithError("read failed", err)
			}
		}

		if len(partial) > 0 {
			logger.Warnf("input ended with %d bytes of an incomplete frame", len(partial))
		}
		logger.Infof("decoded %d messages", decoded)
	},
}

func init() {
	decodeCmd.Flags().BoolVar(&decodeBinary, "binary", false, "use the binary unmarshalling pipeline")
	decodeCmd.Flags().IntVar(&decodeChunk, "chunk", 0, "read size per decode call (default from config)")
	rootCmd.AddCommand(decodeCmd)
}
