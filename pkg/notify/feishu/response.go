package feishu

import (
	"github.com/buger/jsonparser"
	"github.com/cockroachdb/errors"
)

// 飞书 Webhook 存在两种响应格式:
//   旧版成功响应 {"Extra":null,"StatusCode":0,"StatusMessage":"success"}
//   错误或新版响应 {"code":0,"msg":"success","data":{}}
// 先按旧版成功格式识别，再按 code 格式识别

// classifyResponse 判断一次发送是否成功
func classifyResponse(status int, body []byte) error {
	if status < 200 || status > 299 {
		return sendFailed(errors.Wrapf(ErrUnexpectedStatus, "status %d", status))
	}

	if code, err := jsonparser.GetInt(body, "StatusCode"); err == nil {
		if code == 0 {
			return nil
		}
		msg, _ := jsonparser.GetString(body, "StatusMessage")
		return sendFailed(errors.Wrapf(ErrAPIError, "%s (StatusCode=%d)", msg, code))
	}

	if code, err := jsonparser.GetInt(body, "code"); err == nil {
		if code == 0 {
			return nil
		}
		msg, _ := jsonparser.GetString(body, "msg")
		return sendFailed(errors.Wrapf(ErrAPIError, "%s (code=%d)", msg, code))
	}

	return sendFailed(errors.Wrap(ErrResponseInvalid, "unrecognized response body"))
}
