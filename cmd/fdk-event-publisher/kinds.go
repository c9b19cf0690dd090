package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	eventpublisher "github.com/informasjonsforvaltning/fdk-kafka-event-publisher"
)

func newKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the registered resource kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tCONSUMER\tTOPIC\tROUTING KEYS")
			for _, name := range eventpublisher.KindNames() {
				kind, err := eventpublisher.LookupKind(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", kind.Name, kind.ConsumerName, kind.OutputTopic, strings.Join(kind.RoutingKeys, ","))
			}
			return w.Flush()
		},
	}
}
