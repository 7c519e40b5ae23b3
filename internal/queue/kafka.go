package queue

import (
	"context"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/sirupsen/logrus"
)

var _ Publisher = (*KafkaPublisher)(nil)

// KafkaPublisher publishes profile events to a kafka topic and waits for the delivery report.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaPublisher(brokers, topic string) (*KafkaPublisher, error) {
	if topic == "" {
		topic = DefaultProfileTopic
	}

	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"client.id":         "notes",
		"acks":              "all",
	})
	if err != nil {
		return nil, err
	}

	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
	}, nil
}

func (k *KafkaPublisher) Publish(ctx context.Context, event *ProfileEvent) error {
	value, err := event.MarshalBinary()
	if err != nil {
		return err
	}

	delivery := make(chan kafka.Event, 1)
	err = k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &k.topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.Key()),
		Value:          value,
		Headers:        []kafka.Header{{Key: "type", Value: []byte(event.Type)}},
	}, delivery)
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case e := <-delivery:
		msg, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected kafka event: %v", e)
		}
		if msg.TopicPartition.Error != nil {
			return msg.TopicPartition.Error
		}
		logrus.Debugf("published %s to %s[%d]@%v", event.Type, k.topic, msg.TopicPartition.Partition, msg.TopicPartition.Offset)
		return nil
	}
}

func (k *KafkaPublisher) Close() {
	if remaining := k.producer.Flush(5000); remaining > 0 {
		logrus.Warnf("closing kafka publisher with %d undelivered events", remaining)
	}
	k.producer.Close()
}
