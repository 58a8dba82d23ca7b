package http

import (
	"testing"
	"time"
)

func TestResponse_StatusClasses(t *testing.T) {
	tests := []struct {
		code        int
		success     bool
		clientError bool
		serverError bool
	}{
		{200, true, false, false},
		{204, true, false, false},
		{301, false, false, false},
		{404, false, true, false},
		{500, false, false, true},
	}

	for _, tt := range tests {
		resp := &Response{StatusCode: tt.code}
		if resp.IsSuccess() != tt.success {
			t.Errorf("IsSuccess(%d) = %v, want %v", tt.code, resp.IsSuccess(), tt.success)
		}
		if resp.IsClientError() != tt.clientError {
			t.Errorf("IsClientError(%d) = %v, want %v", tt.code, resp.IsClientError(), tt.clientError)
		}
		if resp.IsServerError() != tt.serverError {
			t.Errorf("IsServerError(%d) = %v, want %v", tt.code, resp.IsServerError(), tt.serverError)
		}
	}
}

func TestTimingInfo_TotalMillis(t *testing.T) {
	timing := TimingInfo{TotalTime: 1500 * time.Microsecond}
	if timing.TotalMillis() != 1.5 {
		t.Errorf("TotalMillis() = %v, want 1.5", timing.TotalMillis())
	}
}
