package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// EscrowPublisher writes milestone and dispute events to their topics for
// downstream notification and analytics consumers.
type EscrowPublisher struct {
	milestoneWriter *kafka.Writer
	disputeWriter   *kafka.Writer
}

func NewEscrowPublisher(brokers []string, milestoneTopic, disputeTopic string) *EscrowPublisher {
	return &EscrowPublisher{
		milestoneWriter: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    milestoneTopic,
			Balancer: &kafka.LeastBytes{},
		},
		disputeWriter: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    disputeTopic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *EscrowPublisher) PublishMilestone(event MilestoneEvent) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.milestoneWriter.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(event.JobID),
		Value: msg,
		Time:  time.Now(),
	})
}

func (p *EscrowPublisher) PublishDispute(event DisputeEvent) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.disputeWriter.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(event.JobID),
		Value: msg,
		Time:  time.Now(),
	})
}
