package dispatch

import (
	"encoding/json"

	"github.com/lk2023060901/alertrelay/pkg/notify"
)

// Result 单个目标的转发结果
type Result struct {
	DestinationName string `json:"destinationName"`
	Succeeded       bool   `json:"succeeded"`
	// RawResponse 对端响应体，合法 JSON 原样嵌入，否则为字符串，无响应时为 null
	RawResponse any    `json:"rawResponse"`
	Error       string `json:"error,omitempty"`
}

func newResult(name string, receipt *notify.Receipt, err error) Result {
	res := Result{
		DestinationName: name,
		Succeeded:       err == nil,
	}
	if receipt != nil {
		res.RawResponse = rawResponse(receipt.Body)
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

func rawResponse(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(append([]byte(nil), body...))
	}
	return string(body)
}
