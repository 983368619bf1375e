package source

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/phuslu/log"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/pliu/ostree/pkg/clients"
	"github.com/pliu/ostree/pkg/config"
)

var ErrTopicNotFound = errors.New("source: topic does not exist")

// KafkaSource consumes one value per record from a topic, labelling values by
// partition.
type KafkaSource struct {
	client clients.KgoClient
	admin  clients.KadmClient
	topic  string
}

func NewKafkaSourceWithClients(client clients.KgoClient, admin clients.KadmClient, topic string) *KafkaSource {
	return &KafkaSource{
		client: client,
		admin:  admin,
		topic:  topic,
	}
}

func NewKafkaSourceFromConfig(cfg *config.OSTreeConfig) (*KafkaSource, error) {
	client, err := clients.GetFranzGoClient(cfg.KafkaConfig, cfg.Topic)
	if err != nil {
		return nil, fmt.Errorf("creating kafka client: %w", err)
	}
	return NewKafkaSourceWithClients(clients.NewKgoClient(client), clients.NewKadmClient(client), cfg.Topic), nil
}

// Partitions returns the topic's partition numbers in ascending order.
func (s *KafkaSource) Partitions(ctx context.Context) ([]int32, error) {
	topicDetails, err := s.admin.ListTopics(ctx, s.topic)
	if err != nil {
		return nil, err
	}

	td, exists := topicDetails[s.topic]
	if !exists || errors.Is(td.Err, kerr.UnknownTopicOrPartition) {
		return nil, fmt.Errorf("%w: %s", ErrTopicNotFound, s.topic)
	}
	if td.Err != nil {
		return nil, td.Err
	}

	partitions := td.Partitions.Numbers()
	slices.Sort(partitions)
	return partitions, nil
}

func (s *KafkaSource) Run(ctx context.Context, obs Observer) error {
	defer s.client.Close()

	partitions, err := s.Partitions(ctx)
	if err != nil {
		return err
	}
	log.Info().Str("topic", s.topic).Int("partitions", len(partitions)).Msg("Consuming values")

	for {
		fetches := s.client.PollFetches(ctx)

		select {
		case <-ctx.Done():
			return nil
		default:
			if fetches.IsClientClosed() {
				return nil
			}

			fetches.EachError(func(topic string, partition int32, err error) {
				log.Error().Err(err).Str("topic", topic).Int32("partition", partition).Msg("fetch failed")
			})

			fetches.EachRecord(func(record *kgo.Record) {
				s.handleRecord(record, obs)
			})
		}
	}
}

func (s *KafkaSource) handleRecord(record *kgo.Record, obs Observer) {
	label := s.partitionLabel(record.Partition)
	value, err := parseValue(string(record.Value))
	if err != nil {
		obs.ParseFailure(label)
		return
	}
	obs.Observe(label, value)
}

func (s *KafkaSource) partitionLabel(partition int32) string {
	return s.topic + "/" + strconv.Itoa(int(partition))
}
