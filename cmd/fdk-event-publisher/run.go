package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	eventpublisher "github.com/informasjonsforvaltning/fdk-kafka-event-publisher"
)

var errKindRequired = errors.New("resource kind is required: pass it as an argument or set RESOURCE_KIND")

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [kind]",
		Short: "Run the publisher for one resource kind",
		Long:  "Run the publisher for one resource kind. The kind falls back to RESOURCE_KIND; every other setting is read from the environment.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPublisher,
	}
}

func runPublisher(cmd *cobra.Command, args []string) error {
	conf, err := eventpublisher.LoadConfig()
	if err != nil {
		return err
	}

	kindName, err := resolveKind(args, conf)
	if err != nil {
		return err
	}
	kind, err := eventpublisher.LookupKind(kindName)
	if err != nil {
		return err
	}
	conf.WithDefaults(kind.ConsumerName, kind.OutputTopic)

	log := eventpublisher.NewLogger(os.Stdout, conf.SlogLevel(), conf.ConsumerName)
	log.Debug("configuration loaded", eventpublisher.LogFields{"config": conf.String()})

	svc, err := eventpublisher.NewService(kind.Name, conf, log, eventpublisher.ServiceDependencies{})
	if err != nil {
		log.Error("failed to create service", err, nil)
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("service stopped", err, nil)
		return err
	}
	return nil
}

func resolveKind(args []string, conf *eventpublisher.Config) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if conf != nil && conf.ResourceKind != "" {
		return conf.ResourceKind, nil
	}
	return "", fmt.Errorf("%w (known kinds: %v)", errKindRequired, eventpublisher.KindNames())
}
