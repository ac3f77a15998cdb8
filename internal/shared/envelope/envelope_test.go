package envelope

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeJSON(t *testing.T) {
	tests := []struct {
		name string
		in   Response
		want string
	}{
		{name: "data", in: OK([]int{}, ""), want: `{"success":true,"data":[]}`},
		{name: "message", in: OK(map[string]int{"affected": 1}, "Order deleted successfully"), want: `{"success":true,"data":{"affected":1},"message":"Order deleted successfully"}`},
		{name: "failure", in: Fail("Error fetching orders", errors.New("boom")), want: `{"success":false,"message":"Error fetching orders","error":"boom"}`},
		{name: "failure without cause", in: Fail("Order not found", nil), want: `{"success":false,"message":"Order not found"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(raw))
		})
	}
}
