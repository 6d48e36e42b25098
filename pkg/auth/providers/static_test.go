package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStaticTokens(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]string
		wantErr bool
	}{
		{name: "empty", input: "", want: map[string]string{}},
		{name: "pairs", input: "t1=gm, t2=alice,", want: map[string]string{"t1": "gm", "t2": "alice"}},
		{name: "missing uid", input: "t1=", wantErr: true},
		{name: "no separator", input: "t1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStaticTokens(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStaticAuthProvider(t *testing.T) {
	p := NewStaticAuthProvider(map[string]string{"t1": "alice"})

	claims, err := p.VerifyToken(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.UID)

	_, err = p.VerifyToken(context.Background(), "nope")
	assert.Error(t, err)
}
