package alert

import (
	"net/url"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func thresholdForm() url.Values {
	return url.Values{
		"alertName":       {"cpu_high"},
		"alertState":      {"ALERT"},
		"curValue":        {"92.5"},
		"dimensions":      {"%7BinstanceId%3Di-abc%7D"},
		"expression":      {"%24Average%3E%3D90"},
		"instanceName":    {"web-01"},
		"metricName":      {"CPU%E4%BD%BF%E7%94%A8%E7%8E%87"},
		"metricProject":   {"acs_ecs_dashboard"},
		"namespace":       {"acs_ecs_dashboard"},
		"preTriggerLevel": {"null"},
		"ruleId":          {"rule-1"},
		"timestamp":       {"1614150000000"},
		"triggerLevel":    {"CRITICAL"},
		"userId":          {"1453943521040000"},
		"groupId":         {"12345"},
	}
}

func eventForm() url.Values {
	return url.Values{
		"traceId":      {"b0eaeed6-6758-4d45-ac64-c52437de0000"},
		"resourceId":   {"acs:ecs:cn-hangzhou:1453943521040000:snapshot/s-bp13"},
		"ver":          {"1.0"},
		"product":      {"ECS"},
		"instanceName": {"s-bp13"},
		"level":        {"INFO"},
		"userId":       {"1453943521040000"},
		"content":      {`{"result":"accomplished","snapshotId":"s-bp13","diskId":"d-bp1"}`},
		"regionId":     {"cn-hangzhou"},
		"eventTime":    {"20210224T011113.709+0800"},
		"name":         {"Snapshot:CreateSnapshotCompleted"},
		"id":           {"103E55FC"},
		"status":       {"Normal"},
	}
}

func TestDecodeCloudMonitorThresholdForm(t *testing.T) {
	a, err := DecodeCloudMonitor(MediaTypeForm, []byte(thresholdForm().Encode()))
	require.NoError(t, err)

	ta, ok := a.(*ThresholdAlert)
	require.True(t, ok)
	assert.Equal(t, KindThreshold, ta.Kind())
	assert.Equal(t, "cpu_high", ta.AlertName)
	assert.Equal(t, ThresholdStateAlert, ta.State())
	assert.Equal(t, LevelCritical, ta.Level())
	assert.Equal(t, "{instanceId=i-abc}", ta.Dimensions)
	assert.Equal(t, "$Average>=90", ta.Expression)
	assert.Equal(t, "CPU使用率", ta.MetricName)
	assert.Equal(t, "12345", ta.GroupID)
}

func TestDecodeCloudMonitorKeepsInvalidEscapes(t *testing.T) {
	form := thresholdForm()
	form.Set("expression", "$Average>=90%")
	form.Set("dimensions", "%7BinstanceId%3Di-1%7D 50%")
	form.Set("metricName", "disk%2use%25")
	form.Del("groupId")

	a, err := DecodeCloudMonitor("", []byte(form.Encode()))
	require.NoError(t, err)

	ta := a.(*ThresholdAlert)
	assert.Equal(t, "$Average>=90%", ta.Expression)
	assert.Equal(t, "{instanceId=i-1} 50%", ta.Dimensions)
	assert.Equal(t, "disk%2use%", ta.MetricName)
	assert.Empty(t, ta.GroupID)
}

func TestPercentDecode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "plain", want: "plain"},
		{in: "%24Average%3E%3D90", want: "$Average>=90"},
		{in: "%7BinstanceId%3Di-1%7D 50%", want: "{instanceId=i-1} 50%"},
		{in: "100%", want: "100%"},
		{in: "%4", want: "%4"},
		{in: "%zz%41", want: "%zzA"},
		{in: "a+b%2Bc", want: "a+b+c"},
		{in: "%E4%B8%AD", want: "中"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, percentDecode(tt.in))
		})
	}
}

func TestDecodeCloudMonitorEventForm(t *testing.T) {
	a, err := DecodeCloudMonitor(MediaTypeForm, []byte(eventForm().Encode()))
	require.NoError(t, err)

	ea, ok := a.(*EventAlert)
	require.True(t, ok)
	assert.Equal(t, KindEvent, ea.Kind())
	assert.Equal(t, "Snapshot:CreateSnapshotCompleted", ea.Name)
	assert.Equal(t, LevelInfo, ea.EventLevel())
	assert.Equal(t, "accomplished", ea.Content.Result)
	assert.Equal(t, "d-bp1", ea.Content.DiskID)
	assert.Empty(t, ea.Content.StartTime)
}

func TestDecodeCloudMonitorEventJSON(t *testing.T) {
	body := `{
	  "traceId": "t", "resourceId": "r", "ver": "1.0", "product": "ECS",
	  "instanceName": "i-1", "level": "Critical", "userId": 1453943521040000,
	  "content": {"result": "failed", "startTime": "2021-02-23T17:05:13Z"},
	  "regionId": "cn-hangzhou", "eventTime": "20210224T011113.709+0800",
	  "name": "Instance:StateChange", "id": "1", "status": "Failed"
	}`

	a, err := DecodeCloudMonitor(MediaTypeJSON, []byte(body))
	require.NoError(t, err)

	ea := a.(*EventAlert)
	assert.Equal(t, LevelCritical, ea.EventLevel())
	assert.Equal(t, "1453943521040000", ea.UserID)
	assert.Equal(t, "2021-02-23T17:05:13Z", ea.Content.StartTime)
}

func TestDecodeCloudMonitorThresholdWins(t *testing.T) {
	// 同时满足两种候选时按优先级取阈值告警
	form := thresholdForm()
	for k, v := range eventForm() {
		if _, exists := form[k]; !exists {
			form[k] = v
		}
	}

	a, err := DecodeCloudMonitor(MediaTypeForm, []byte(form.Encode()))
	require.NoError(t, err)
	assert.Equal(t, KindThreshold, a.Kind())
}

func TestDecodeCloudMonitorErrors(t *testing.T) {
	incomplete := thresholdForm()
	incomplete.Del("alertState")

	badContent := eventForm()
	badContent.Set("content", "not-json")

	tests := []struct {
		name      string
		mediaType string
		body      string
		wantField string
	}{
		{name: "no variant", mediaType: MediaTypeForm, body: "foo=bar", wantField: "alertName"},
		{name: "threshold missing state", mediaType: MediaTypeForm, body: incomplete.Encode(), wantField: "alertState"},
		{name: "event content not object", mediaType: MediaTypeForm, body: badContent.Encode(), wantField: "alertName"},
		{name: "json array", mediaType: MediaTypeJSON, body: `[1,2]`, wantField: ""},
		{name: "json null", mediaType: MediaTypeJSON, body: `null`, wantField: ""},
		{name: "broken json", mediaType: MediaTypeJSON, body: `{"a":`, wantField: ""},
		{name: "broken form", mediaType: MediaTypeForm, body: "a=%zz", wantField: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := DecodeCloudMonitor(tt.mediaType, []byte(tt.body))
			assert.Nil(t, a)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSchemaDecode))

			var serr *SchemaDecodeError
			require.True(t, errors.As(err, &serr))
			assert.Equal(t, tt.wantField, serr.Field)
		})
	}
}

func TestDecodeCloudMonitorUnsupportedMediaType(t *testing.T) {
	_, err := DecodeCloudMonitor("text/plain", []byte("x"))
	assert.True(t, errors.Is(err, ErrUnsupportedMediaType))
	assert.False(t, errors.Is(err, ErrSchemaDecode))
}

func TestParseLevelAndState(t *testing.T) {
	assert.Equal(t, LevelCritical, ParseLevel("critical"))
	assert.Equal(t, LevelWarning, ParseLevel("Warning"))
	assert.Equal(t, LevelInfo, ParseLevel("INFO"))
	assert.Equal(t, LevelUnknown, ParseLevel("null"))
	assert.Equal(t, LevelUnknown, ParseLevel(""))

	assert.Equal(t, ThresholdStateOK, ParseThresholdState("OK"))
	assert.Equal(t, ThresholdStateInsufficientData, ParseThresholdState("insufficient_data"))
	assert.Equal(t, ThresholdStateUnknown, ParseThresholdState("BROKEN"))
}

func TestSchemaDecodeErrorMessage(t *testing.T) {
	assert.Equal(t, "field 'title': missing required field", newSchemaError("title", "missing required field").Error())
	assert.Equal(t, "invalid form body", newSchemaError("", "invalid form body").Error())
}
