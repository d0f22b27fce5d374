package logpub

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempo/internal/attendance/events"
	"tempo/internal/attendance/models"
	id "tempo/pkg/domain"
)

func TestPublish_WritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	pub := New(slog.New(slog.NewJSONHandler(&buf, nil)))

	sess := models.NewClockSession(id.SessionID(uuid.New()), models.ScheduleRef{}, time.Now())
	ev, err := events.NewEvent(models.ActionFinish, sess, time.Now())
	require.NoError(t, err)
	channel := events.SessionChannel(sess.ID)

	require.NoError(t, pub.Publish(context.Background(), channel, events.NewEnvelope(channel, ev)))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Clock-out registered", line["msg"])
	assert.Equal(t, "fichaje.finished", line["event"])
	assert.Equal(t, channel, line["channel"])
	assert.Equal(t, sess.ID.String(), line["session_id"])
}
