package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDetail(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantMsg  string
		wantList bool
	}{
		{
			name:     "single validation issue",
			body:     `{"detail":[{"loc":["body","age"],"msg":"Input should be greater than or equal to 18","type":"greater_than_equal"}]}`,
			wantMsg:  "age: Input should be greater than or equal to 18",
			wantList: true,
		},
		{
			name:     "multiple issues joined in order",
			body:     `{"detail":[{"loc":["body","age"],"msg":"too small"},{"loc":["body","income"],"msg":"required"}]}`,
			wantMsg:  "age: too small; income: required",
			wantList: true,
		},
		{
			name:     "numeric loc element",
			body:     `{"detail":[{"loc":["body","items",0],"msg":"bad"}]}`,
			wantMsg:  "0: bad",
			wantList: true,
		},
		{
			name:     "empty loc uses message only",
			body:     `{"detail":[{"loc":[],"msg":"body is empty"}]}`,
			wantMsg:  "body is empty",
			wantList: true,
		},
		{
			name:    "string detail verbatim",
			body:    `{"detail":"Model not loaded"}`,
			wantMsg: "Model not loaded",
		},
		{
			name:    "blank string detail",
			body:    `{"detail":"   "}`,
			wantMsg: "Prediction failed",
		},
		{
			name:    "no detail field",
			body:    `{"error":"boom"}`,
			wantMsg: "Prediction failed",
		},
		{
			name:    "null detail",
			body:    `{"detail":null}`,
			wantMsg: "Prediction failed",
		},
		{
			name:    "empty list",
			body:    `{"detail":[]}`,
			wantMsg: "Prediction failed",
		},
		{
			name:    "object detail rendered as JSON",
			body:    `{"detail": {"reason": "quota"}}`,
			wantMsg: `{"reason":"quota"}`,
		},
		{
			name:    "not JSON",
			body:    `<html>502 Bad Gateway</html>`,
			wantMsg: "Prediction failed",
		},
		{
			name:    "empty body",
			body:    ``,
			wantMsg: "Prediction failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, isList := NormalizeDetail([]byte(tt.body))
			assert.Equal(t, tt.wantMsg, msg)
			assert.Equal(t, tt.wantList, isList)
		})
	}
}
