//go:build integration

package redispub_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"tempo/internal/attendance/events"
	"tempo/internal/attendance/events/publishers/redispub"
	"tempo/internal/attendance/models"
	id "tempo/pkg/domain"
	"tempo/pkg/testutil/containers"
)

type RedisPublisherSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestRedisPublisherSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisPublisherSuite))
}

func (s *RedisPublisherSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *RedisPublisherSuite) TestSubscriberReceivesEnvelopesInOrder() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sess := models.NewClockSession(id.SessionID(uuid.New()), models.ScheduleRef{}, time.Now())
	channel := events.SessionChannel(sess.ID)

	sub := s.redis.Client.Subscribe(ctx, "tempo:"+channel)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	s.Require().NoError(err)

	pub := redispub.New(s.redis.Client, redispub.WithChannelPrefix("tempo:"))
	for _, a := range []models.Action{models.ActionStart, models.ActionPause, models.ActionResume} {
		ev, err := events.NewEvent(a, sess, time.Now())
		s.Require().NoError(err)
		s.Require().NoError(pub.Publish(ctx, channel, events.NewEnvelope(channel, ev)))
	}

	var got []string
	for range 3 {
		msg, err := sub.ReceiveMessage(ctx)
		s.Require().NoError(err)
		var env events.Envelope
		s.Require().NoError(json.Unmarshal([]byte(msg.Payload), &env))
		got = append(got, env.Event)
	}
	s.Equal([]string{"fichaje.started", "fichaje.paused", "fichaje.resumed"}, got)
}
