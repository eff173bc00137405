package apikey

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Key
	}{
		{
			name: "single",
			raw:  "chatbot_ABC123",
			want: []Key{{Destination: DestinationChatBot, Secret: "ABC123"}},
		},
		{
			name: "order preserved",
			raw:  "chatbot_first,chatbot_second,chatbot_third",
			want: []Key{
				{Destination: DestinationChatBot, Secret: "first"},
				{Destination: DestinationChatBot, Secret: "second"},
				{Destination: DestinationChatBot, Secret: "third"},
			},
		},
		{
			name: "secret keeps later underscores",
			raw:  "chatbot_a_b_c",
			want: []Key{{Destination: DestinationChatBot, Secret: "a_b_c"}},
		},
		{
			name: "case insensitive name and trimmed tokens",
			raw:  " ChatBot_x , CHATBOT_y ",
			want: []Key{
				{Destination: DestinationChatBot, Secret: "x"},
				{Destination: DestinationChatBot, Secret: "y"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, err := Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, keys)
			for _, k := range keys {
				assert.Equal(t, "chatbot", k.Name())
			}
		})
	}
}

func TestParseRejectsWholeString(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "blank", raw: "   "},
		{name: "no separator", raw: "badtoken"},
		{name: "unknown destination", raw: "slack_abc"},
		{name: "empty secret", raw: "chatbot_"},
		{name: "empty name", raw: "_secret"},
		{name: "empty token", raw: "chatbot_a,,chatbot_b"},
		{name: "trailing comma", raw: "chatbot_a,"},
		{name: "one bad among good", raw: "chatbot_a,feishu_b,chatbot_c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, err := Parse(tt.raw)
			assert.Nil(t, keys)
			assert.True(t, errors.Is(err, ErrInvalidCredentialFormat))
		})
	}
}

func TestParseDoesNotEchoSecret(t *testing.T) {
	_, err := Parse("chatbot_ok,unknown_supersecret")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "supersecret")
	assert.Contains(t, err.Error(), "token 1")
}

func TestDestination(t *testing.T) {
	d, ok := ParseDestination("CHATBOT")
	assert.True(t, ok)
	assert.Equal(t, DestinationChatBot, d)
	assert.Equal(t, "chatbot", d.String())

	_, ok = ParseDestination("email")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Destination(0).String())
}
