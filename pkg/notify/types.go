package notify

// Message 平台无关的告警消息
type Message struct {
	Title     string
	Body      string // Markdown 正文
	Color     Color
	ActionURL string // 为空时不渲染按钮
}

// Color 卡片颜色
type Color string

const (
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorOrange Color = "orange"
	ColorRed    Color = "red"
	ColorGrey   Color = "grey"

	// ColorDefault 未指定颜色时卡片使用的模板色
	ColorDefault Color = "blue"
)

// Receipt 对端的原始响应
type Receipt struct {
	StatusCode int
	Body       []byte
}
