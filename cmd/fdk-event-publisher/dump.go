package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	eventpublisher "github.com/informasjonsforvaltning/fdk-kafka-event-publisher"
	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/jsoncodec"
)

// dumpLine is one resource from a decoded harvest report.
type dumpLine struct {
	Payload   int    `json:"payload"`
	Report    int    `json:"report"`
	Change    string `json:"change"`
	FdkID     string `json:"fdkId"`
	Timestamp int64  `json:"timestamp"`
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump [file]",
		Short: "Decode harvest report payloads",
		Long: "Decode harvest report payloads from a file, or stdin when no file is given, and print one JSON line per resource in processing order. " +
			"The input may hold several payloads one after another.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return dumpReports(in, cmd.OutOrStdout())
		},
	}
}

func dumpReports(r io.Reader, w io.Writer) error {
	payload := 0
	return jsoncodec.DecodeStream(r, func(raw json.RawMessage) error {
		defer func() { payload++ }()

		reports, err := eventpublisher.DecodeReports(raw)
		if err != nil {
			return fmt.Errorf("payload %d: %w", payload, err)
		}
		for i, rep := range reports {
			for _, ref := range rep.Changed() {
				if err := jsoncodec.Encode(w, dumpLine{payload, i, eventpublisher.CreateOrUpdate.String(), ref.FdkID, rep.Timestamp}); err != nil {
					return err
				}
			}
			for _, ref := range rep.RemovedResources {
				if err := jsoncodec.Encode(w, dumpLine{payload, i, eventpublisher.Remove.String(), ref.FdkID, rep.Timestamp}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
