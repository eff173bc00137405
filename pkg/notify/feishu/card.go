package feishu

import "github.com/lk2023060901/alertrelay/pkg/notify"

const (
	// DefaultButtonLabel 按钮默认文案
	DefaultButtonLabel = "View"

	// DefaultNote 卡片底部默认提示
	DefaultNote = "Note: You may need related permissions to open the buttons above."
)

// CardMessage 交互式卡片消息
// timestamp/sign 仅在机器人开启签名校验时出现
type CardMessage struct {
	Timestamp string `json:"timestamp,omitempty"`
	Sign      string `json:"sign,omitempty"`
	MsgType   string `json:"msg_type"`
	Card      Card   `json:"card"`
}

// Card 卡片主体
type Card struct {
	Config   CardConfig `json:"config"`
	Header   CardHeader `json:"header"`
	Elements []Element  `json:"elements"`
}

// CardConfig 卡片行为配置
type CardConfig struct {
	EnableForward bool `json:"enable_forward"`
	UpdateMulti   bool `json:"update_multi"`
}

// CardHeader 卡片标题栏
type CardHeader struct {
	Title    CardTitle `json:"title"`
	Template string    `json:"template"`
}

// CardTitle 标题，i18n 中英文内容一致
type CardTitle struct {
	Tag     string            `json:"tag"`
	Content string            `json:"content"`
	I18n    map[string]string `json:"i18n"`
}

// Element 卡片模块，按 tag 区分 div/hr/action/note
type Element struct {
	Tag      string   `json:"tag"`
	Text     *Text    `json:"text,omitempty"`
	Actions  []Action `json:"actions,omitempty"`
	Layout   string   `json:"layout,omitempty"`
	Elements []Text   `json:"elements,omitempty"`
}

// Text 文本元素，tag 为 plain_text 或 lark_md
type Text struct {
	Tag     string `json:"tag"`
	Content string `json:"content"`
}

// Action 按钮
type Action struct {
	Tag  string `json:"tag"`
	Text Text   `json:"text"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

type cardOptions struct {
	buttonLabel string
	note        string
}

// CardOption 卡片渲染选项
type CardOption func(*cardOptions)

// WithButtonLabel 设置按钮文案，空串保持默认
func WithButtonLabel(label string) CardOption {
	return func(o *cardOptions) {
		if label != "" {
			o.buttonLabel = label
		}
	}
}

// WithNote 设置底部提示，空串保持默认
func WithNote(note string) CardOption {
	return func(o *cardOptions) {
		if note != "" {
			o.note = note
		}
	}
}

// BuildCard 将消息渲染为交互式卡片
func BuildCard(msg *notify.Message, opts ...CardOption) *CardMessage {
	o := cardOptions{
		buttonLabel: DefaultButtonLabel,
		note:        DefaultNote,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if msg == nil {
		msg = &notify.Message{}
	}

	template := string(msg.Color)
	if template == "" {
		template = string(notify.ColorDefault)
	}

	elements := make([]Element, 0, 4)
	elements = append(elements,
		Element{Tag: "div", Text: &Text{Tag: "lark_md", Content: msg.Body}},
		Element{Tag: "hr"},
	)
	if msg.ActionURL != "" {
		elements = append(elements, Element{
			Tag: "action",
			Actions: []Action{{
				Tag:  "button",
				Text: Text{Tag: "lark_md", Content: o.buttonLabel},
				URL:  msg.ActionURL,
				Type: "primary",
			}},
			Layout: "flow",
		})
	}
	elements = append(elements, Element{
		Tag:      "note",
		Elements: []Text{{Tag: "plain_text", Content: o.note}},
	})

	return &CardMessage{
		MsgType: "interactive",
		Card: Card{
			Config: CardConfig{
				EnableForward: true,
				UpdateMulti:   false,
			},
			Header: CardHeader{
				Title: CardTitle{
					Tag:     "plain_text",
					Content: msg.Title,
					I18n: map[string]string{
						"en_us": msg.Title,
						"zh_cn": msg.Title,
					},
				},
				Template: template,
			},
			Elements: elements,
		},
	}
}
