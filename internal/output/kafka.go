package output

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/chrisdamba/tablepos/internal/models"
)

// KafkaOutput publishes each message synchronously to <prefix><topic>.
type KafkaOutput struct {
	producer sarama.SyncProducer
	prefix   string
}

func NewKafkaOutput(cfg *models.Config) (*KafkaOutput, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // required by SyncProducer
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1 // required by Idempotent
	saramaConfig.Version = sarama.V2_1_0_0
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second
	if cfg.SessionTimeoutMs > 0 {
		saramaConfig.Producer.Timeout = time.Duration(cfg.SessionTimeoutMs) * time.Millisecond
	}

	brokerList := strings.Split(cfg.KafkaBrokerList, ",")
	producer, err := sarama.NewSyncProducer(brokerList, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	log.Printf("Sarama producer created successfully with brokers %v", brokerList)
	return NewKafkaOutputWithProducer(producer, cfg.KafkaTopicPrefix), nil
}

func NewKafkaOutputWithProducer(producer sarama.SyncProducer, prefix string) *KafkaOutput {
	return &KafkaOutput{producer: producer, prefix: prefix}
}

func (k *KafkaOutput) WriteMessage(topic string, msg []byte) error {
	if k.producer == nil {
		return fmt.Errorf("kafka producer is closed")
	}
	_, _, err := k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: k.prefix + topic,
		Value: sarama.ByteEncoder(msg),
	})
	if err != nil {
		log.Printf("Failed to send message to topic %s: %v", k.prefix+topic, err)
		return err
	}
	return nil
}

func (k *KafkaOutput) Close() error {
	if k.producer == nil {
		return nil
	}
	err := k.producer.Close()
	k.producer = nil
	return err
}
