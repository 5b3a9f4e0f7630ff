package main

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newSetCmd(a *app) *cobra.Command {
	var (
		payload     string
		payloadFile string
		fullFile    string
		sources     []string
	)

	cmd := &cobra.Command{
		Use:   "set KEY",
		Short: "Store a result under a key",
		Long: `Store a result payload under a key. The payload comes from --payload,
--payload-file, or stdin ("-"). Source paths recorded with --source are
snapshotted now; modifying any of them later invalidates the entry.
Rejected payloads (malformed or containing secret-like content) report a
rejected status without failing the command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readPayload(cmd, payload, payloadFile)
			if err != nil {
				return err
			}

			var full []byte
			if fullFile != "" {
				if full, err = os.ReadFile(fullFile); err != nil {
					return err
				}
			}

			engine, err := a.openEngine()
			if err != nil {
				return err
			}

			status := engine.Set(cmd.Context(), args[0], data, sources, full)
			printStatus(cmd, status)
			return nil
		},
	}

	cmd.Flags().StringVar(&payload, "payload", "", "payload as a literal string")
	cmd.Flags().StringVar(&payloadFile, "payload-file", "", `payload file, "-" for stdin`)
	cmd.Flags().StringVar(&fullFile, "full-file", "", "optional full result blob file")
	cmd.Flags().StringArrayVar(&sources, "source", nil, "source path to snapshot (repeatable)")
	return cmd
}

func readPayload(cmd *cobra.Command, literal, file string) ([]byte, error) {
	switch {
	case literal != "" && file != "":
		return nil, errors.New("--payload and --payload-file are mutually exclusive")
	case literal != "":
		return []byte(literal), nil
	case file == "-":
		return io.ReadAll(cmd.InOrStdin())
	case file != "":
		return os.ReadFile(file)
	default:
		return nil, errors.New("a payload is required: use --payload or --payload-file")
	}
}
