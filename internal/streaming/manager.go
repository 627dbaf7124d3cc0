// Package streaming provides low-latency WebRTC preview of capture
// devices. Each device gets at most one capture session; any number
// of browser peers can attach to it.
package streaming

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"sync"
	"time"

	pion "github.com/pion/webrtc/v4"

	"github.com/smazurov/camnode/internal/devices"
	"github.com/smazurov/camnode/internal/events"
)

// ErrDeviceNotFound is returned when the requested device ID cannot
// be resolved to a device node.
var ErrDeviceNotFound = errors.New("device not found")

// ErrPeerNotFound is returned when closing a peer that does not exist
// or has already disconnected.
var ErrPeerNotFound = errors.New("peer not found")

// Config holds configuration for WebRTC connections.
type Config struct {
	// ICEServers for STUN/TURN (empty for LAN-only)
	ICEServers []pion.ICEServer
}

// Manager manages preview sessions and their WebRTC peers.
type Manager struct {
	config   Config
	eventBus *events.Bus
	logger   *slog.Logger

	mu         sync.Mutex
	sessions   map[string]*session // deviceID -> session
	peers      map[string]*pion.PeerConnection
	peerDevice map[string]string // peerID -> deviceID
}

// NewManager creates a new preview manager.
func NewManager(config Config, eventBus *events.Bus, logger *slog.Logger) *Manager {
	return &Manager{
		config:     config,
		eventBus:   eventBus,
		logger:     logger,
		sessions:   make(map[string]*session),
		peers:      make(map[string]*pion.PeerConnection),
		peerDevice: make(map[string]string),
	}
}

// CreateConsumer handles a WHEP-style SDP offer for a device preview.
// It attaches the peer to the device's shared capture session,
// starting one if needed, and returns the peer ID and SDP answer.
func (m *Manager) CreateConsumer(deviceID, offer string) (string, string, error) {
	sess, err := m.acquireSession(deviceID)
	if err != nil {
		return "", "", err
	}

	peerID, answer, err := m.connectPeer(deviceID, sess, offer)
	if err != nil {
		m.releaseSession(deviceID)
		return "", "", err
	}
	return peerID, answer, nil
}

func (m *Manager) connectPeer(deviceID string, sess *session, offer string) (string, string, error) {
	api, err := NewWebRTCAPI(deviceID, sess.forceKeyFrame)
	if err != nil {
		return "", "", err
	}

	pc, err := api.NewPeerConnection(pion.Configuration{
		ICEServers: m.config.ICEServers,
	})
	if err != nil {
		return "", "", err
	}

	if _, err := pc.AddTrack(sess.track); err != nil {
		_ = pc.Close()
		return "", "", err
	}

	if err := pc.SetRemoteDescription(pion.SessionDescription{
		Type: pion.SDPTypeOffer,
		SDP:  offer,
	}); err != nil {
		_ = pc.Close()
		return "", "", err
	}

	answer, err := pc.CreateAnswer(nil)
	if err != nil {
		_ = pc.Close()
		return "", "", err
	}

	// Gather all ICE candidates before answering; WHEP clients do not
	// trickle
	gathered := pion.GatheringCompletePromise(pc)
	if err := pc.SetLocalDescription(answer); err != nil {
		_ = pc.Close()
		return "", "", err
	}
	<-gathered

	peerID := randomPeerID()
	m.mu.Lock()
	m.peers[peerID] = pc
	m.peerDevice[peerID] = deviceID
	peerCount := len(m.peers)
	m.mu.Unlock()

	SetActivePeers(peerCount)
	m.logger.Debug("WebRTC consumer created", "device_id", deviceID, "peer_id", peerID, "total_peers", peerCount)

	pc.OnConnectionStateChange(func(state pion.PeerConnectionState) {
		switch state {
		case pion.PeerConnectionStateConnected:
			// Drive RTCP reads so interceptors see NACK/PLI from the
			// browser
			for _, sender := range pc.GetSenders() {
				go func(s *pion.RTPSender) {
					for {
						if _, _, readErr := s.ReadRTCP(); readErr != nil {
							return // Connection closed
						}
					}
				}(sender)
			}
			// Fresh viewers need an IDR frame to start decoding
			sess.forceKeyFrame()
		case pion.PeerConnectionStateDisconnected,
			pion.PeerConnectionStateFailed,
			pion.PeerConnectionStateClosed:
			m.mu.Lock()
			_, present := m.peers[peerID]
			delete(m.peers, peerID)
			delete(m.peerDevice, peerID)
			remaining := len(m.peers)
			m.mu.Unlock()

			if present {
				_ = pc.Close()
				m.releaseSession(deviceID)
				SetActivePeers(remaining)
				m.logger.Debug("WebRTC consumer disconnected",
					"peer_id", peerID, "device_id", deviceID, "state", state.String(), "remaining_peers", remaining)
			}
		}
	})

	return peerID, pc.LocalDescription().SDP, nil
}

// ClosePeer disconnects a single viewer and drops its session
// reference. The state-change callback sees the peer already removed
// and does not release the session a second time.
func (m *Manager) ClosePeer(peerID string) error {
	m.mu.Lock()
	pc, ok := m.peers[peerID]
	deviceID := m.peerDevice[peerID]
	delete(m.peers, peerID)
	delete(m.peerDevice, peerID)
	remaining := len(m.peers)
	m.mu.Unlock()

	if !ok {
		return ErrPeerNotFound
	}

	_ = pc.Close()
	m.releaseSession(deviceID)
	SetActivePeers(remaining)
	m.logger.Debug("WebRTC consumer closed", "peer_id", peerID, "device_id", deviceID, "remaining_peers", remaining)
	return nil
}

// acquireSession returns the device's capture session, creating it on
// first use, and bumps the viewer count.
func (m *Manager) acquireSession(deviceID string) (*session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[deviceID]
	if !ok {
		devicePath, err := devices.ResolveDevicePath(deviceID)
		if err != nil {
			return nil, ErrDeviceNotFound
		}

		sess, err = newSession(deviceID, devicePath, m.logger)
		if err != nil {
			return nil, err
		}
		m.sessions[deviceID] = sess
		m.publishSessionState(deviceID, true)
	}

	sess.viewers++
	return sess, nil
}

// releaseSession drops one viewer and tears the session down when the
// last viewer leaves.
func (m *Manager) releaseSession(deviceID string) {
	m.mu.Lock()
	sess, ok := m.sessions[deviceID]
	if !ok {
		m.mu.Unlock()
		return
	}

	sess.viewers--
	if sess.viewers > 0 {
		m.mu.Unlock()
		return
	}

	delete(m.sessions, deviceID)
	m.publishSessionState(deviceID, false)
	m.mu.Unlock()

	sess.stop()
}

func (m *Manager) publishSessionState(deviceID string, active bool) {
	m.eventBus.Publish(events.SessionStateChangedEvent{
		SessionID: "preview-" + deviceID,
		DeviceID:  deviceID,
		Kind:      "preview",
		Active:    active,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// PeerCount returns the number of active WebRTC peers.
func (m *Manager) PeerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.peers)
}

// Stop closes all peer connections and capture sessions.
func (m *Manager) Stop() {
	m.mu.Lock()
	peers := m.peers
	sessions := m.sessions
	m.peers = make(map[string]*pion.PeerConnection)
	m.peerDevice = make(map[string]string)
	m.sessions = make(map[string]*session)
	m.mu.Unlock()

	for _, pc := range peers {
		_ = pc.Close()
	}
	for deviceID, sess := range sessions {
		m.publishSessionState(deviceID, false)
		sess.stop()
	}
	SetActivePeers(0)
}

func randomPeerID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
