package models

import "encoding/json"

// SuccessCode is the envelope code of an accepted request.
const SuccessCode = 200

// Envelope wraps every API response.
type Envelope struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
	Msg  string          `json:"msg"`
}

func (e Envelope) OK() bool {
	return e.Code == SuccessCode
}

// Empty reports a missing or null data field.
func (e Envelope) Empty() bool {
	return len(e.Data) == 0 || string(e.Data) == "null"
}
