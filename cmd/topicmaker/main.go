package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

type options struct {
	brokers     []string
	topic       string
	partitions  int32
	replication int16
}

// topicCreator is the part of [kadm.Client] makeTopic uses.
type topicCreator interface {
	CreateTopics(ctx context.Context, partitions int32, replicationFactor int16, configs map[string]*string, topics ...string) (kadm.CreateTopicResponses, error)
}

func main() {
	_ = godotenv.Load()

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		slog.Error("too few args", "err", err)
		os.Exit(2)
	}
	os.Exit(run(opts))
}

func parseFlags(args []string) (options, error) {
	fs := pflag.NewFlagSet("topicmaker", pflag.ContinueOnError)
	brokers := fs.StringSlice("brokers", splitList(os.Getenv("KAFKA_BROKERS")), "seed brokers")
	topic := fs.String("topic", envOr("KAFKA_ORDERS_TOPIC", "coffee-shop.orders"), "orders topic")
	partitions := fs.Int32("partitions", 3, "partition count")
	replication := fs.Int16("replication-factor", 1, "replication factor")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if len(*brokers) == 0 {
		return options{}, errors.New("--brokers flag or KAFKA_BROKERS: required")
	}
	return options{
		brokers:     *brokers,
		topic:       *topic,
		partitions:  *partitions,
		replication: *replication,
	}, nil
}

func run(opts options) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cl, err := kgo.NewClient(kgo.SeedBrokers(opts.brokers...))
	if err != nil {
		slog.Error("failed to create kafka client", "err", err)
		return 1
	}
	adm := kadm.NewClient(cl)
	defer adm.Close()

	if err := makeTopic(ctx, adm, opts.topic, opts.partitions, opts.replication); err != nil {
		slog.Error("failed to create topic", "topic", opts.topic, "err", err)
		return 1
	}
	return 0
}

func makeTopic(ctx context.Context, adm topicCreator, topic string, partitions int32, replication int16) error {
	retention := "604800000" // 7 days
	configs := map[string]*string{"retention.ms": &retention}

	resps, err := adm.CreateTopics(ctx, partitions, replication, configs, topic)
	if err != nil {
		return err
	}
	for _, r := range resps.Sorted() {
		switch {
		case errors.Is(r.Err, kerr.TopicAlreadyExists):
			slog.Info("topic already exists", "topic", r.Topic)
		case r.Err != nil:
			return fmt.Errorf("%s: %w", r.Topic, r.Err)
		default:
			slog.Info("topic created", "topic", r.Topic, "partitions", partitions)
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
