package clients

import (
	"context"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/pliu/ostree/pkg/config"
)

// KgoClient is the subset of *kgo.Client used by the Kafka source.
type KgoClient interface {
	PollFetches(ctx context.Context) KgoFetches
	Close()
}

// KgoFetches is the subset of kgo.Fetches used by the Kafka source.
type KgoFetches interface {
	IsClientClosed() bool
	EachError(func(string, int32, error))
	EachRecord(func(*kgo.Record))
}

// KadmClient is the subset of *kadm.Client used to inspect topics. It shares
// the KgoClient's connections, so closing that client closes this one too.
type KadmClient interface {
	ListTopics(ctx context.Context, topics ...string) (kadm.TopicDetails, error)
}

type franzGoClient struct {
	*kgo.Client
}

func (c franzGoClient) PollFetches(ctx context.Context) KgoFetches {
	return c.Client.PollFetches(ctx)
}

// GetFranzGoClient returns a new franz-go kafka client, consuming the given
// topics if any.
func GetFranzGoClient(cfg *config.KafkaConfig, topics ...string) (*kgo.Client, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.SeedBrokers...),
	}
	if len(topics) > 0 {
		opts = append(opts, kgo.ConsumeTopics(topics...))
		if cfg.GroupID != "" {
			opts = append(opts, kgo.ConsumerGroup(cfg.GroupID))
		}
	}
	return kgo.NewClient(opts...)
}

// NewKgoClient wraps a franz-go client so it satisfies KgoClient.
func NewKgoClient(client *kgo.Client) KgoClient {
	return franzGoClient{Client: client}
}

// NewKadmClient returns an admin client sharing client's connections.
func NewKadmClient(client *kgo.Client) KadmClient {
	return kadm.NewClient(client)
}
