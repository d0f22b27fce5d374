//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"tempo/internal/attendance/events"
	"tempo/internal/attendance/events/publishers/kafkapub"
	"tempo/internal/attendance/models"
	"tempo/internal/platform/config"
	"tempo/internal/platform/kafka"
	id "tempo/pkg/domain"
	"tempo/pkg/testutil/containers"
)

type KafkaSuite struct {
	suite.Suite
	cfg    config.KafkaConfig
	client *kgo.Client
}

func TestKafkaSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaSuite))
}

func (s *KafkaSuite) SetupSuite() {
	rp := containers.GetManager().GetRedpanda(s.T())
	s.cfg = config.KafkaConfig{
		Brokers:           rp.Brokers,
		EventsTopic:       "attendance.lifecycle." + uuid.NewString(),
		Partitions:        3,
		ReplicationFactor: 1,
	}
	client, err := kafka.NewClient(s.cfg)
	s.Require().NoError(err)
	s.client = client
}

func (s *KafkaSuite) TearDownSuite() {
	if s.client != nil {
		s.client.Close()
	}
}

func (s *KafkaSuite) TestEnsureTopicIsIdempotent() {
	ctx := context.Background()
	s.Require().NoError(kafka.EnsureTopic(ctx, s.client, s.cfg))
	s.Require().NoError(kafka.EnsureTopic(ctx, s.client, s.cfg))
}

func (s *KafkaSuite) TestChannelEventsArriveInOrder() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.Require().NoError(kafka.EnsureTopic(ctx, s.client, s.cfg))

	pub := kafkapub.New(s.client, s.cfg.EventsTopic)
	sess := models.NewClockSession(id.SessionID(uuid.New()), models.ScheduleRef{}, time.Now())
	channel := events.SessionChannel(sess.ID)
	actions := []models.Action{models.ActionStart, models.ActionPause, models.ActionResume, models.ActionFinish}
	for _, a := range actions {
		ev, err := events.NewEvent(a, sess, time.Now())
		s.Require().NoError(err)
		s.Require().NoError(pub.Publish(ctx, channel, events.NewEnvelope(channel, ev)))
	}

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.cfg.Brokers...),
		kgo.ConsumeTopics(s.cfg.EventsTopic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	var got []string
	for len(got) < len(actions) {
		fetches := consumer.PollFetches(ctx)
		s.Require().Empty(fetches.Errors())
		fetches.EachRecord(func(r *kgo.Record) {
			if string(r.Key) != channel {
				return
			}
			var env events.Envelope
			s.Require().NoError(json.Unmarshal(r.Value, &env))
			got = append(got, env.Event)
		})
	}
	s.Equal([]string{"fichaje.started", "fichaje.paused", "fichaje.resumed", "fichaje.finished"}, got)
}
