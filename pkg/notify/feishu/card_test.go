package feishu

import (
	"encoding/json"
	"testing"

	"github.com/lk2023060901/alertrelay/pkg/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCardRoundTrip(t *testing.T) {
	msg := &notify.Message{
		Title:     "db-01(cpu_high) CPUUtilization ALERT（95）",
		Body:      "- Instance: db-01\n- Current Value: 95",
		Color:     notify.ColorRed,
		ActionURL: "https://cloudmonitor.console.aliyun.com/#/alarmRules",
	}

	raw, err := json.Marshal(BuildCard(msg))
	require.NoError(t, err)

	var decoded CardMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "interactive", decoded.MsgType)
	assert.True(t, decoded.Card.Config.EnableForward)
	assert.False(t, decoded.Card.Config.UpdateMulti)
	assert.Equal(t, "plain_text", decoded.Card.Header.Title.Tag)
	assert.Equal(t, msg.Title, decoded.Card.Header.Title.Content)
	assert.Equal(t, msg.Title, decoded.Card.Header.Title.I18n["en_us"])
	assert.Equal(t, msg.Title, decoded.Card.Header.Title.I18n["zh_cn"])
	assert.Equal(t, "red", decoded.Card.Header.Template)

	require.Len(t, decoded.Card.Elements, 4)
	assert.Equal(t, "div", decoded.Card.Elements[0].Tag)
	assert.Equal(t, "lark_md", decoded.Card.Elements[0].Text.Tag)
	assert.Equal(t, msg.Body, decoded.Card.Elements[0].Text.Content)
	assert.Equal(t, "hr", decoded.Card.Elements[1].Tag)

	action := decoded.Card.Elements[2]
	assert.Equal(t, "action", action.Tag)
	assert.Equal(t, "flow", action.Layout)
	require.Len(t, action.Actions, 1)
	assert.Equal(t, "button", action.Actions[0].Tag)
	assert.Equal(t, "primary", action.Actions[0].Type)
	assert.Equal(t, DefaultButtonLabel, action.Actions[0].Text.Content)
	assert.Equal(t, msg.ActionURL, action.Actions[0].URL)

	note := decoded.Card.Elements[3]
	assert.Equal(t, "note", note.Tag)
	require.Len(t, note.Elements, 1)
	assert.Equal(t, "plain_text", note.Elements[0].Tag)
	assert.Equal(t, DefaultNote, note.Elements[0].Content)

	// 未签名时不输出 timestamp/sign
	assert.NotContains(t, string(raw), `"sign"`)
}

func TestBuildCardWireShape(t *testing.T) {
	raw, err := json.Marshal(BuildCard(&notify.Message{Title: "t", Body: "b"}))
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))

	card := generic["card"].(map[string]any)
	elements := card["elements"].([]any)
	assert.Equal(t, map[string]any{"tag": "hr"}, elements[1])
}

func TestBuildCardDefaults(t *testing.T) {
	tests := []struct {
		name         string
		msg          *notify.Message
		wantTemplate string
		wantElements []string
	}{
		{
			name:         "no color uses blue",
			msg:          &notify.Message{Title: "t", Body: "b", ActionURL: "https://example.com"},
			wantTemplate: "blue",
			wantElements: []string{"div", "hr", "action", "note"},
		},
		{
			name:         "empty url omits action",
			msg:          &notify.Message{Title: "t", Body: "b", Color: notify.ColorGreen},
			wantTemplate: "green",
			wantElements: []string{"div", "hr", "note"},
		},
		{
			name:         "nil message still builds",
			msg:          nil,
			wantTemplate: "blue",
			wantElements: []string{"div", "hr", "note"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := BuildCard(tt.msg)
			assert.Equal(t, tt.wantTemplate, card.Card.Header.Template)

			tags := make([]string, 0, len(card.Card.Elements))
			for _, e := range card.Card.Elements {
				tags = append(tags, e.Tag)
			}
			assert.Equal(t, tt.wantElements, tags)

			_, err := json.Marshal(card)
			assert.NoError(t, err)
		})
	}
}

func TestBuildCardOptions(t *testing.T) {
	card := BuildCard(
		&notify.Message{ActionURL: "https://example.com"},
		WithButtonLabel("查看"),
		WithNote("仅供内部使用"),
		WithButtonLabel(""),
	)

	assert.Equal(t, "查看", card.Card.Elements[2].Actions[0].Text.Content)
	assert.Equal(t, "仅供内部使用", card.Card.Elements[3].Elements[0].Content)
}
