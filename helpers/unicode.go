package helpers

import (
	"github.com/txix-open/isp-kit/json"
)

// UnescapeUnicode re-encodes a json document so \uXXXX sequences become plain utf-8.
// Non-json input is returned as is.
func UnescapeUnicode(data []byte) []byte {
	var body any
	err := json.Unmarshal(data, &body)
	if err != nil {
		return data
	}

	newData, err := json.Marshal(body)
	if err != nil {
		return data
	}

	return newData
}
