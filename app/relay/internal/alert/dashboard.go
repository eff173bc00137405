package alert

import (
	"encoding/json"
	"strconv"

	"github.com/cockroachdb/errors"
)

// DashboardAlert 看板（Grafana legacy alerting）告警
type DashboardAlert struct {
	Title       string            `json:"title"`
	RuleID      int64             `json:"ruleId"`
	RuleName    string            `json:"ruleName"`
	State       DashboardState    `json:"state"`
	EvalMatches []EvalMatch       `json:"evalMatches"`
	OrgID       int64             `json:"orgId"`
	DashboardID int64             `json:"dashboardId"`
	PanelID     int64             `json:"panelId"`
	Tags        map[string]string `json:"tags"`
	RuleURL     string            `json:"ruleUrl,omitempty"`
	ImageURL    string            `json:"imageUrl,omitempty"`
	Message     string            `json:"message,omitempty"`
}

// EvalMatch 触发告警的一条指标
type EvalMatch struct {
	Value  float64           `json:"value"`
	Metric string            `json:"metric"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// FormatValue 以最短形式输出数值，1 输出为 "1"
func (m EvalMatch) FormatValue() string {
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

// Kind 实现 Alert 接口
func (a *DashboardAlert) Kind() string {
	return KindDashboard
}

// dashboardWire 线上报文，指针字段用于区分缺失与零值
type dashboardWire struct {
	Title       *string           `json:"title" validate:"required"`
	RuleID      *int64            `json:"ruleId" validate:"required"`
	RuleName    *string           `json:"ruleName" validate:"required"`
	State       *string           `json:"state" validate:"required"`
	EvalMatches []evalMatchWire   `json:"evalMatches" validate:"required,dive"`
	OrgID       *int64            `json:"orgId" validate:"required"`
	DashboardID *int64            `json:"dashboardId" validate:"required"`
	PanelID     *int64            `json:"panelId" validate:"required"`
	Tags        map[string]string `json:"tags" validate:"required"`
	RuleURL     *string           `json:"ruleUrl"`
	ImageURL    *string           `json:"imageUrl"`
	Message     *string           `json:"message"`
}

type evalMatchWire struct {
	Value  *float64          `json:"value" validate:"required"`
	Metric *string           `json:"metric" validate:"required"`
	Tags   map[string]string `json:"tags"`
}

// DecodeDashboard 解码看板告警 JSON
// evalMatches 可以为空数组，state 无法识别时为 StateUnknown
func DecodeDashboard(body []byte) (*DashboardAlert, error) {
	var w dashboardWire
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, jsonSchemaError(err)
	}

	if serr := checkRequired(&w); serr != nil {
		return nil, serr
	}

	a := &DashboardAlert{
		Title:       *w.Title,
		RuleID:      *w.RuleID,
		RuleName:    *w.RuleName,
		State:       ParseDashboardState(*w.State),
		EvalMatches: make([]EvalMatch, 0, len(w.EvalMatches)),
		OrgID:       *w.OrgID,
		DashboardID: *w.DashboardID,
		PanelID:     *w.PanelID,
		Tags:        w.Tags,
		RuleURL:     deref(w.RuleURL),
		ImageURL:    deref(w.ImageURL),
		Message:     deref(w.Message),
	}
	for _, m := range w.EvalMatches {
		a.EvalMatches = append(a.EvalMatches, EvalMatch{
			Value:  *m.Value,
			Metric: *m.Metric,
			Tags:   m.Tags,
		})
	}

	return a, nil
}

// jsonSchemaError 将 encoding/json 的错误转为字段级错误
func jsonSchemaError(err error) *SchemaDecodeError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return newSchemaError(typeErr.Field, "expected "+typeErr.Type.String()+" but got "+typeErr.Value)
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return newSchemaError("", "invalid JSON at offset "+strconv.FormatInt(syntaxErr.Offset, 10))
	}

	return newSchemaError("", "invalid JSON: "+err.Error())
}
