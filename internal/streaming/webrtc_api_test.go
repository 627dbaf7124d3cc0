package streaming

import (
	"testing"

	"github.com/pion/interceptor"
	"github.com/pion/rtcp"
)

func TestNewWebRTCAPI(t *testing.T) {
	api, err := NewWebRTCAPI("usb-test-device", nil)
	if err != nil {
		t.Fatalf("NewWebRTCAPI: %v", err)
	}
	if api == nil {
		t.Fatal("NewWebRTCAPI returned nil API")
	}
}

// fakeRTCPReader hands back a fixed RTCP compound packet once.
type fakeRTCPReader struct {
	data []byte
	done bool
}

func (f *fakeRTCPReader) Read(b []byte, a interceptor.Attributes) (int, interceptor.Attributes, error) {
	if f.done {
		return 0, a, nil
	}
	f.done = true
	n := copy(b, f.data)
	return n, a, nil
}

func TestRTCPMonitorReaderInvokesKeyFrameOnPLI(t *testing.T) {
	pli := &rtcp.PictureLossIndication{MediaSSRC: 1234}
	data, err := pli.Marshal()
	if err != nil {
		t.Fatalf("marshal PLI: %v", err)
	}

	called := 0
	r := &rtcpMonitorReader{
		reader:     &fakeRTCPReader{data: data},
		deviceID:   "usb-test-device",
		onKeyFrame: func() { called++ },
	}

	buf := make([]byte, 1500)
	if _, _, err := r.Read(buf, nil); err != nil {
		t.Fatalf("Read: %v", err)
	}

	if called != 1 {
		t.Errorf("onKeyFrame called %d times, want 1", called)
	}
}

func TestRTCPMonitorReaderIgnoresReceiverReports(t *testing.T) {
	rr := &rtcp.ReceiverReport{}
	data, err := rr.Marshal()
	if err != nil {
		t.Fatalf("marshal RR: %v", err)
	}

	called := 0
	r := &rtcpMonitorReader{
		reader:     &fakeRTCPReader{data: data},
		deviceID:   "usb-test-device",
		onKeyFrame: func() { called++ },
	}

	buf := make([]byte, 1500)
	if _, _, err := r.Read(buf, nil); err != nil {
		t.Fatalf("Read: %v", err)
	}

	if called != 0 {
		t.Errorf("onKeyFrame called %d times, want 0", called)
	}
}
