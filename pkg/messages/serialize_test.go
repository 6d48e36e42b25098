package messages

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeDeserializeMessage(t *testing.T) {
	tests := []struct {
		name    string
		message func(t *testing.T) *Message
	}{
		{
			name: "action request",
			message: func(t *testing.T) *Message {
				m, err := NewMessage("alice", MessageTypeClientAction, ActionRequest{
					RequestID: "r1",
					Action:    "roll",
					Payload:   json.RawMessage(`{"die":20}`),
				})
				require.NoError(t, err)
				return m
			},
		},
		{
			name: "no payload",
			message: func(t *testing.T) *Message {
				m, err := NewMessage("", MessageTypeClientPing, nil)
				require.NoError(t, err)
				return m
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := tt.message(t)
			b, err := SerializeMessage(want)
			require.NoError(t, err)

			got, err := DeserializeMessage(b)
			require.NoError(t, err)
			assert.Equal(t, want.ClientID, got.ClientID)
			assert.Equal(t, want.Type, got.Type)
			if want.Payload != nil {
				assert.JSONEq(t, string(want.Payload), string(got.Payload))
			}
		})
	}
}

func TestDeserializeMessageRejectsGarbage(t *testing.T) {
	_, err := DeserializeMessage([]byte("not zstd"))
	assert.Error(t, err)
}
