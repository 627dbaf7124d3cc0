package api

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/smazurov/camnode/internal/api/models"
	"github.com/smazurov/camnode/internal/events"
)

func newTestServer(t *testing.T) (*Server, *events.Bus, *httptest.Server) {
	t.Helper()
	bus := events.New()
	server := NewServer(&Options{
		AuthUsername: "test",
		AuthPassword: "test",
		EventBus:     bus,
		Detector:     testDetector(),
	})
	ts := httptest.NewServer(server.mux)
	t.Cleanup(ts.Close)
	return server, bus, ts
}

func sseMessages(t *testing.T, resp *http.Response) <-chan string {
	t.Helper()
	messageChan := make(chan string, 10)
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	go func() {
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, "data:") {
				messageChan <- line
			}
		}
	}()
	return messageChan
}

func TestSSEConnectionAndEvents(t *testing.T) {
	_, bus, ts := newTestServer(t)

	// EventSource cannot set headers, credentials go in the query
	credentials := base64.StdEncoding.EncodeToString([]byte("test:test"))
	sseURL := fmt.Sprintf("%s/api/events?auth=%s", ts.URL, credentials)

	resp, err := http.Get(sseURL)
	if err != nil {
		t.Fatalf("Failed to connect to SSE: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "text/event-stream") {
		t.Fatalf("Expected SSE content type, got %s", resp.Header.Get("Content-Type"))
	}

	messageChan := sseMessages(t, resp)

	// Initial connection confirmation arrives first
	msg := waitForEvent(t, messageChan)
	if !strings.Contains(msg, "SSE connection established") {
		t.Errorf("Expected connection established message, got: %s", msg)
	}

	// A published device event reaches the stream
	bus.Publish(events.DeviceDiscoveryEvent{
		DeviceInfo: models.DeviceInfo{
			DevicePath: "/dev/video9",
			DeviceName: "Hotplugged Camera",
			DeviceId:   "usb-hotplug-1",
		},
		Action:    "added",
		Timestamp: time.Now().Format(time.RFC3339),
	})

	msg = waitForEvent(t, messageChan)
	if !strings.Contains(msg, "/dev/video9") || !strings.Contains(msg, `"added"`) {
		t.Errorf("Expected device discovery event, got: %s", msg)
	}
}

func TestSSESessionStateEvent(t *testing.T) {
	_, bus, ts := newTestServer(t)

	credentials := base64.StdEncoding.EncodeToString([]byte("test:test"))
	resp, err := http.Get(fmt.Sprintf("%s/api/events?auth=%s", ts.URL, credentials))
	if err != nil {
		t.Fatalf("Failed to connect to SSE: %v", err)
	}
	defer resp.Body.Close()

	messageChan := sseMessages(t, resp)
	waitForEvent(t, messageChan) // initial connection message

	bus.Publish(events.SessionStateChangedEvent{
		SessionID: "preview-usb-test-1",
		DeviceID:  "usb-test-1",
		Kind:      "preview",
		Active:    true,
		Timestamp: time.Now().Format(time.RFC3339),
	})

	msg := waitForEvent(t, messageChan)
	if !strings.Contains(msg, "preview-usb-test-1") || !strings.Contains(msg, `"active":true`) {
		t.Errorf("Expected session state event, got: %s", msg)
	}
}

func TestSSEAuthFailure(t *testing.T) {
	_, _, ts := newTestServer(t)

	// No credentials
	resp, err := http.Get(fmt.Sprintf("%s/api/events", ts.URL))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected status 401, got %d", resp.StatusCode)
	}

	// Wrong credentials
	credentials := base64.StdEncoding.EncodeToString([]byte("wrong:wrong"))
	resp, err = http.Get(fmt.Sprintf("%s/api/events?auth=%s", ts.URL, credentials))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected status 401 for wrong auth, got %d", resp.StatusCode)
	}
}

func TestHealthEndpointNoAuth(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 without auth, got %d", resp.StatusCode)
	}
}

func TestDeviceListRequiresAuth(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/devices")
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected status 401 without auth, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/devices", nil)
	req.SetBasicAuth("test", "test")
	authed, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer authed.Body.Close()
	if authed.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 with auth, got %d", authed.StatusCode)
	}

	body, err := io.ReadAll(authed.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	if !strings.Contains(string(body), "/dev/video0") {
		t.Errorf("Expected device list to contain /dev/video0, got: %s", body)
	}
}
