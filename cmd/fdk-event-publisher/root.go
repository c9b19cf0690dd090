package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/resources/kinds"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fdk-event-publisher",
		Short:         "Publish harvest events to Kafka",
		Long:          "Consume harvest reports from RabbitMQ and publish one Avro event per changed or removed resource to Kafka.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newKindsCmd())
	root.AddCommand(newDumpCmd())
	return root
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
