package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/cbodonnell/twentyone/pkg/effects"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mocks "github.com/cbodonnell/twentyone/mocks/github.com/cbodonnell/twentyone/pkg/effects"
)

type published struct {
	channel string
	effect  effects.Effect
}

type fakePublisher struct {
	sent []published
	err  error
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if p.err != nil {
		cmd.SetErr(p.err)
		return cmd
	}
	var e effects.Effect
	if err := json.Unmarshal(message.([]byte), &e); err != nil {
		cmd.SetErr(err)
		return cmd
	}
	p.sent = append(p.sent, published{channel: channel, effect: e})
	cmd.SetVal(1)
	return cmd
}

func TestRedisNotifier_Channels(t *testing.T) {
	ctx := context.Background()
	p := &fakePublisher{}
	n := NewRedisNotifier(p)

	require.NoError(t, n.Announce(ctx, "Round", "", "begins"))
	require.NoError(t, n.Private(ctx, "alice", "Hole die", "4"))
	require.NoError(t, n.Warn(ctx, "bob", "not your turn"))
	require.NoError(t, n.CutIn(ctx, "bump", "alice", "bob", map[string]interface{}{"success": true}))
	require.NoError(t, n.Reveal(ctx, "alice", 6, 4))

	tests := []struct {
		channel string
		kind    effects.Kind
	}{
		{channel: PublicChannel, kind: effects.KindAnnouncement},
		{channel: "twentyone:private:alice", kind: effects.KindPrivateFeedback},
		{channel: "twentyone:private:bob", kind: effects.KindWarning},
		{channel: PublicChannel, kind: effects.KindSkillCutIn},
		{channel: PublicChannel, kind: effects.KindRevealRoll},
	}
	require.Len(t, p.sent, len(tests))
	for i, tt := range tests {
		assert.Equal(t, tt.channel, p.sent[i].channel)
		assert.Equal(t, tt.kind, p.sent[i].effect.Kind)
	}
	assert.Equal(t, 4, p.sent[4].effect.Value)
}

func TestRedisNotifier_PublishError(t *testing.T) {
	n := NewRedisNotifier(&fakePublisher{err: errors.New("connection refused")})
	err := n.Announce(context.Background(), "Round", "", "begins")
	assert.ErrorContains(t, err, "connection refused")
}

func TestMulti(t *testing.T) {
	ctx := context.Background()
	failing := mocks.NewNotifier(t)
	failing.EXPECT().Warn(ctx, "bob", "wait").Return(errors.New("gone"))
	working := mocks.NewNotifier(t)
	working.EXPECT().Warn(ctx, "bob", "wait").Return(nil)

	err := Multi{failing, NewLogNotifier(), working}.Warn(ctx, "bob", "wait")
	assert.ErrorContains(t, err, "notifier 0 failed to deliver warning")
}
