package events

import (
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/pruebavolte/salvadorex-queue/internal/config"
)

type Kafka struct {
	cfg *config.Config
}

func NewKafka(cfg *config.Config) *Kafka {
	return &Kafka{
		cfg: cfg,
	}
}

func (kf *Kafka) CreateKafkaWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(kf.cfg.Kafka),
		Topic:        topic,
		Balancer:     &kafka.Hash{},         // Keyed by tenant, keeps per-tenant ordering
		Async:        true,                  // Enable asynchronous writes
		BatchSize:    10,                    // Adjust batch size based on traffic
		BatchTimeout: 10 * time.Millisecond, // Max wait time for a batch
		Compression:  kafka.Snappy,
	}
}

func (kf *Kafka) CreateKafkaReader(topic, groupID string) *kafka.Reader {
	brokers := []string{kf.cfg.Kafka}

	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e1,
		MaxBytes: 10e3,
		MaxWait:  1 * time.Second,
	})
}

func (kf *Kafka) CreateGroup(topic string) (*kafka.Writer, *kafka.Reader, func()) {
	eventWriter := kf.CreateKafkaWriter(topic)
	eventReader := kf.CreateKafkaReader(topic, topic+"-group")

	closeFunc := func() {
		_ = eventWriter.Close()
		_ = eventReader.Close()
	}

	return eventWriter, eventReader, closeFunc
}
