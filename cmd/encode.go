package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"firestige.xyz/stomptap/pkg/frame"
)

var (
	encodeCommand  string
	encodeHeaders  []string
	encodeBody     string
	encodeBodyFile string
	encodeDescr    string
	encodeOutput   string
	encodeNoLength bool
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Serialize one STOMP frame to wire bytes",
	Long: `
Serialize one STOMP frame (command, headers, body) to its wire
representation, including the trailing NUL terminator.

Examples:
  stomptap encode --command SEND --header destination:/queue/a --body hello
  stomptap encode --command SEND --header destination:/queue/a --body-file payload.bin -o frame.bin
  stomptap encode -f frame.yaml                # frame described in YAML
  stomptap encode --command SEND --body hello --no-content-length
`,
	Run: func(cmd *cobra.Command, args []string) {
		f, err := buildFrame()
		if err != nil {
			exitWithError("failed to build frame", err)
		}

		out := os.Stdout
		if encodeOutput != "" {
			file, err := os.Create(encodeOutput)
			if err != nil {
				exitWithError("failed to create output file", err)
			}
			defer file.Close()
			out = file
		}

		if _, err := out.Write(f.Marshal()); err != nil {
			exitWithError("failed to write frame", err)
		}
	},
}

// frameDescriptor is the YAML form accepted via -f. Headers keep their
// document order.
type frameDescriptor struct {
	Command         string    `yaml:"command"`
	Headers         yaml.Node `yaml:"headers"`
	Body            string    `yaml:"body"`
	BodyFile        string    `yaml:"body_file"`
	NoContentLength bool      `yaml:"no_content_length"`
}

func buildFrame() (*frame.Frame, error) {
	if encodeDescr != "" {
		return frameFromDescriptor(encodeDescr)
	}

	if encodeCommand == "" {
		return nil, fmt.Errorf("--command is required (or use -f)")
	}
	header := frame.NewHeader()
	for _, h := range encodeHeaders {
		name, value, found := strings.Cut(h, ":")
		if !found {
			return nil, fmt.Errorf("malformed --header %q, want name:value", h)
		}
		header.Set(name, value)
	}

	body, err := resolveBody(encodeBody, encodeBodyFile)
	if err != nil {
		return nil, err
	}
	if encodeNoLength {
		header.Set(frame.ContentLength, frame.NoContentLength)
	}
	return frame.New(encodeCommand, header, body), nil
}

func frameFromDescriptor(path string) (*frame.Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame descriptor: %w", err)
	}
	var d frameDescriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse frame descriptor: %w", err)
	}
	if d.Command == "" {
		return nil, fmt.Errorf("frame descriptor requires 'command'")
	}

	header := frame.NewHeader()
	if d.Headers.Kind == yaml.MappingNode {
		// Mapping node content alternates key and value nodes, in
		// document order.
		for i := 0; i+1 < len(d.Headers.Content); i += 2 {
			header.Set(d.Headers.Content[i].Value, d.Headers.Content[i+1].Value)
		}
	}

	body, err := resolveBody(d.Body, d.BodyFile)
	if err != nil {
		return nil, err
	}
	if d.NoContentLength {
		header.Set(frame.ContentLength, frame.NoContentLength)
	}
	return frame.New(d.Command, header, body), nil
}

func resolveBody(inline, path string) ([]byte, error) {
	if inline != "" && path != "" {
		return nil, fmt.Errorf("body and body file are mutually exclusive")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read body file: %w", err)
		}
		return data, nil
	}
	return []byte(inline), nil
}

func init() {
	encodeCmd.Flags().StringVar(&encodeCommand, "command", "", "frame command (SEND, SUBSCRIBE, ...)")
	encodeCmd.Flags().StringArrayVar(&encodeHeaders, "header", nil, "header as name:value (repeatable)")
	encodeCmd.Flags().StringVar(&encodeBody, "body", "", "frame body")
	encodeCmd.Flags().StringVar(&encodeBodyFile, "body-file", "", "read frame body from file")
	encodeCmd.Flags().StringVarP(&encodeDescr, "file", "f", "", "YAML frame descriptor")
	encodeCmd.Flags().StringVarP(&encodeOutput, "output", "o", "", "write wire bytes to file instead of stdout")
	encodeCmd.Flags().BoolVar(&encodeNoLength, "no-content-length", false,
		"suppress the automatic content-length header")
	rootCmd.AddCommand(encodeCmd)
}
