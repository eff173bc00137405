package alert

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-viper/mapstructure/v2"
)

// 云监控回调支持的请求体类型
const (
	MediaTypeForm = "application/x-www-form-urlencoded"
	MediaTypeJSON = "application/json"
)

// ThresholdAlert 云监控阈值告警
type ThresholdAlert struct {
	AlertName       string `json:"alertName"`
	AlertState      string `json:"alertState"`
	CurValue        string `json:"curValue"`
	Dimensions      string `json:"dimensions"`
	Expression      string `json:"expression"`
	InstanceName    string `json:"instanceName"`
	MetricName      string `json:"metricName"`
	MetricProject   string `json:"metricProject"`
	Namespace       string `json:"namespace"`
	PreTriggerLevel string `json:"preTriggerLevel"`
	TriggerLevel    string `json:"triggerLevel"`
	RuleID          string `json:"ruleId"`
	Timestamp       string `json:"timestamp"`
	UserID          string `json:"userId"`
	GroupID         string `json:"groupId,omitempty"`
}

// Kind 实现 Alert 接口
func (a *ThresholdAlert) Kind() string {
	return KindThreshold
}

// State 解析后的告警状态
func (a *ThresholdAlert) State() ThresholdState {
	return ParseThresholdState(a.AlertState)
}

// Level 解析后的触发级别
func (a *ThresholdAlert) Level() Level {
	return ParseLevel(a.TriggerLevel)
}

// EventAlert 云监控事件告警
type EventAlert struct {
	TraceID      string       `json:"traceId"`
	ResourceID   string       `json:"resourceId"`
	Ver          string       `json:"ver"`
	Product      string       `json:"product"`
	InstanceName string       `json:"instanceName"`
	Level        string       `json:"level"`
	UserID       string       `json:"userId"`
	Content      EventContent `json:"content"`
	RegionID     string       `json:"regionId"`
	EventTime    string       `json:"eventTime"`
	Name         string       `json:"name"`
	ID           string       `json:"id"`
	Status       string       `json:"status"`
}

// EventContent 事件详情，字段随事件类型不同可能缺失
type EventContent struct {
	Result       string `json:"result,omitempty" mapstructure:"result"`
	SnapshotID   string `json:"snapshotId,omitempty" mapstructure:"snapshotId"`
	SnapshotType string `json:"snapshotType,omitempty" mapstructure:"snapshotType"`
	SnapshotName string `json:"snapshotName,omitempty" mapstructure:"snapshotName"`
	DiskID       string `json:"diskId,omitempty" mapstructure:"diskId"`
	StartTime    string `json:"startTime,omitempty" mapstructure:"startTime"`
	EndTime      string `json:"endTime,omitempty" mapstructure:"endTime"`
}

// Kind 实现 Alert 接口
func (a *EventAlert) Kind() string {
	return KindEvent
}

// EventLevel 解析后的事件级别
func (a *EventAlert) EventLevel() Level {
	return ParseLevel(a.Level)
}

type thresholdWire struct {
	AlertName       *string `json:"alertName" mapstructure:"alertName" validate:"required"`
	AlertState      *string `json:"alertState" mapstructure:"alertState" validate:"required"`
	CurValue        *string `json:"curValue" mapstructure:"curValue" validate:"required"`
	Dimensions      *string `json:"dimensions" mapstructure:"dimensions" validate:"required"`
	Expression      *string `json:"expression" mapstructure:"expression" validate:"required"`
	InstanceName    *string `json:"instanceName" mapstructure:"instanceName" validate:"required"`
	MetricName      *string `json:"metricName" mapstructure:"metricName" validate:"required"`
	MetricProject   *string `json:"metricProject" mapstructure:"metricProject" validate:"required"`
	Namespace       *string `json:"namespace" mapstructure:"namespace" validate:"required"`
	PreTriggerLevel *string `json:"preTriggerLevel" mapstructure:"preTriggerLevel" validate:"required"`
	RuleID          *string `json:"ruleId" mapstructure:"ruleId" validate:"required"`
	Timestamp       *string `json:"timestamp" mapstructure:"timestamp" validate:"required"`
	TriggerLevel    *string `json:"triggerLevel" mapstructure:"triggerLevel" validate:"required"`
	UserID          *string `json:"userId" mapstructure:"userId" validate:"required"`
	GroupID         *string `json:"groupId" mapstructure:"groupId"`
}

type eventWire struct {
	TraceID      *string       `json:"traceId" mapstructure:"traceId" validate:"required"`
	ResourceID   *string       `json:"resourceId" mapstructure:"resourceId" validate:"required"`
	Ver          *string       `json:"ver" mapstructure:"ver" validate:"required"`
	Product      *string       `json:"product" mapstructure:"product" validate:"required"`
	InstanceName *string       `json:"instanceName" mapstructure:"instanceName" validate:"required"`
	Level        *string       `json:"level" mapstructure:"level" validate:"required"`
	UserID       *string       `json:"userId" mapstructure:"userId" validate:"required"`
	Content      *EventContent `json:"content" mapstructure:"content" validate:"required"`
	RegionID     *string       `json:"regionId" mapstructure:"regionId" validate:"required"`
	EventTime    *string       `json:"eventTime" mapstructure:"eventTime" validate:"required"`
	Name         *string       `json:"name" mapstructure:"name" validate:"required"`
	ID           *string       `json:"id" mapstructure:"id" validate:"required"`
	Status       *string       `json:"status" mapstructure:"status" validate:"required"`
}

// candidate 无标签报文的一种候选结构
type candidate struct {
	kind   string
	decode func(fields map[string]any) (Alert, *SchemaDecodeError)
}

// candidates 按优先级排列，第一个解码并校验通过的候选胜出
var candidates = []candidate{
	{kind: KindThreshold, decode: decodeThreshold},
	{kind: KindEvent, decode: decodeEvent},
}

// DecodeCloudMonitor 解码云监控回调
// mediaType 为去掉参数的 Content-Type，空值按表单处理
func DecodeCloudMonitor(mediaType string, body []byte) (Alert, error) {
	var (
		fields map[string]any
		serr   *SchemaDecodeError
	)

	switch mediaType {
	case MediaTypeForm, "":
		fields, serr = formFields(body)
	case MediaTypeJSON:
		fields, serr = jsonFields(body)
	default:
		return nil, errors.Wrapf(ErrUnsupportedMediaType, "%q", mediaType)
	}
	if serr != nil {
		return nil, serr
	}

	return decodeCandidates(fields)
}

func decodeCandidates(fields map[string]any) (Alert, error) {
	var first *SchemaDecodeError
	for _, c := range candidates {
		a, serr := c.decode(fields)
		if serr == nil {
			return a, nil
		}
		if first == nil {
			first = serr
		}
	}

	return nil, newSchemaError(first.Field, "no alert variant matched: "+first.Reason)
}

func decodeThreshold(fields map[string]any) (Alert, *SchemaDecodeError) {
	var w thresholdWire
	if serr := decodeFields(fields, &w); serr != nil {
		return nil, serr
	}
	if serr := checkRequired(&w); serr != nil {
		return nil, serr
	}

	return &ThresholdAlert{
		AlertName:       *w.AlertName,
		AlertState:      *w.AlertState,
		CurValue:        *w.CurValue,
		Dimensions:      *w.Dimensions,
		Expression:      *w.Expression,
		InstanceName:    *w.InstanceName,
		MetricName:      *w.MetricName,
		MetricProject:   *w.MetricProject,
		Namespace:       *w.Namespace,
		PreTriggerLevel: *w.PreTriggerLevel,
		TriggerLevel:    *w.TriggerLevel,
		RuleID:          *w.RuleID,
		Timestamp:       *w.Timestamp,
		UserID:          *w.UserID,
		GroupID:         deref(w.GroupID),
	}, nil
}

func decodeEvent(fields map[string]any) (Alert, *SchemaDecodeError) {
	var w eventWire
	if serr := decodeFields(fields, &w); serr != nil {
		return nil, serr
	}
	if serr := checkRequired(&w); serr != nil {
		return nil, serr
	}

	return &EventAlert{
		TraceID:      *w.TraceID,
		ResourceID:   *w.ResourceID,
		Ver:          *w.Ver,
		Product:      *w.Product,
		InstanceName: *w.InstanceName,
		Level:        *w.Level,
		UserID:       *w.UserID,
		Content:      *w.Content,
		RegionID:     *w.RegionID,
		EventTime:    *w.EventTime,
		Name:         *w.Name,
		ID:           *w.ID,
		Status:       *w.Status,
	}, nil
}

// decodeFields 以 mapstructure 将字段表映射到候选结构
// 数字等标量按弱类型规则转为字符串
func decodeFields(fields map[string]any, out any) *SchemaDecodeError {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return newSchemaError("", err.Error())
	}

	if err := dec.Decode(fields); err != nil {
		return newSchemaError("", "invalid field type: "+err.Error())
	}
	return nil
}

// percentEncodedFields 上游发送前对这些字段多编码了一次
var percentEncodedFields = []string{"dimensions", "expression", "metricName"}

// formFields 解析表单，content 字段为 JSON 字符串
func formFields(body []byte) (map[string]any, *SchemaDecodeError) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, newSchemaError("", "invalid form body")
	}

	fields := make(map[string]any, len(values))
	for k, v := range values {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}

	for _, k := range percentEncodedFields {
		if s, ok := fields[k].(string); ok {
			fields[k] = percentDecode(s)
		}
	}

	if s, ok := fields["content"].(string); ok && strings.HasPrefix(strings.TrimSpace(s), "{") {
		var content map[string]any
		if err := json.Unmarshal([]byte(s), &content); err == nil {
			fields["content"] = content
		}
	}

	return fields, nil
}

func jsonFields(body []byte) (map[string]any, *SchemaDecodeError) {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, jsonSchemaError(err)
	}
	if fields == nil {
		return nil, newSchemaError("", "body must be a JSON object")
	}
	return fields, nil
}

// percentDecode 逐个解码 %XY，非法转义原样保留，'+' 不视为空格
func percentDecode(s string) string {
	if strings.IndexByte(s, '%') < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, ok1 := unhex(s[i+1])
			lo, ok2 := unhex(s[i+2])
			if ok1 && ok2 {
				b.WriteByte(hi<<4 | lo)
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
