package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// =============================================================================
// AUDIT EVENT TYPES
// =============================================================================

// AuditEventType names one entry in the takeover audit trail.
type AuditEventType string

const (
	// Session lifecycle
	AuditSessionStart AuditEventType = "session_start"
	AuditSessionEnd   AuditEventType = "session_end"

	// Mode state machine
	AuditModeChange AuditEventType = "mode_change"
	AuditRejected   AuditEventType = "transition_rejected"

	// Takeover reasoning
	AuditTakeover          AuditEventType = "takeover_requested"
	AuditReasoningResolved AuditEventType = "reasoning_resolved"
	AuditReasoningDropped  AuditEventType = "reasoning_dropped"
)

// =============================================================================
// AUDIT EVENT STRUCTURE
// =============================================================================

// AuditEvent is one JSON line of the audit trail.
type AuditEvent struct {
	Timestamp  int64                  `json:"ts"`               // Unix milliseconds
	EventType  AuditEventType         `json:"event"`            // What happened
	SessionID  string                 `json:"session"`          // Session correlation
	RequestID  string                 `json:"req,omitempty"`    // Reasoning request correlation
	From       string                 `json:"from,omitempty"`   // Mode before the event
	To         string                 `json:"to,omitempty"`     // Mode after the event
	Action     string                 `json:"action,omitempty"` // Triggering input
	Success    bool                   `json:"success"`          // false for rejections and fallbacks
	DurationMs int64                  `json:"dur_ms,omitempty"` // Reasoning latency
	Error      string                 `json:"error,omitempty"`  // Why it failed
	Fields     map[string]interface{} `json:"fields,omitempty"` // Additional structured fields
}

// =============================================================================
// AUDIT LOGGER
// =============================================================================

var (
	auditFile *os.File
	auditMu   sync.Mutex
)

// AuditLogger writes audit events scoped to one session.
type AuditLogger struct {
	sessionID string
}

// InitAudit opens the audit file in the logs directory. It is a no-op
// outside debug mode.
func InitAudit() error {
	if !IsDebugMode() || logsDir == "" {
		return nil
	}

	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		return nil // Already initialized
	}

	date := time.Now().Format("2006-01-02")
	auditPath := filepath.Join(logsDir, fmt.Sprintf("%s_audit.jsonl", date))

	file, err := os.OpenFile(auditPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	auditFile = file
	return nil
}

// CloseAudit closes the audit log file
func CloseAudit() {
	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		auditFile.Close()
		auditFile = nil
	}
}

// AuditWithSession creates an audit logger scoped to a session
func AuditWithSession(sessionID string) *AuditLogger {
	return &AuditLogger{sessionID: sessionID}
}

// Log writes an audit event
func (a *AuditLogger) Log(event AuditEvent) {
	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile == nil {
		return
	}

	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	if event.SessionID == "" {
		event.SessionID = a.sessionID
	}

	data, err := json.Marshal(event)
	if err == nil {
		auditFile.Write(append(data, '\n'))
	}
}

// =============================================================================
// CONVENIENCE METHODS FOR COMMON EVENTS
// =============================================================================

// SessionStart records a new session in mode.
func (a *AuditLogger) SessionStart(mode string, seed uint64) {
	a.Log(AuditEvent{
		EventType: AuditSessionStart,
		To:        mode,
		Success:   true,
		Fields:    map[string]interface{}{"seed": seed},
	})
}

// SessionEnd records the end of a session.
func (a *AuditLogger) SessionEnd(mode string, ticks uint64) {
	a.Log(AuditEvent{
		EventType: AuditSessionEnd,
		From:      mode,
		Success:   true,
		Fields:    map[string]interface{}{"ticks": ticks},
	})
}

// ModeChange records an accepted transition.
func (a *AuditLogger) ModeChange(from, to, action string) {
	a.Log(AuditEvent{
		EventType: AuditModeChange,
		From:      from,
		To:        to,
		Action:    action,
		Success:   true,
	})
}

// Rejected records an event the state machine refused.
func (a *AuditLogger) Rejected(mode, action, reason string) {
	a.Log(AuditEvent{
		EventType: AuditRejected,
		From:      mode,
		Action:    action,
		Error:     reason,
	})
}

// Takeover records a takeover request and the risk at the moment it was raised.
func (a *AuditLogger) Takeover(requestID, from string, risk float64, level string) {
	a.Log(AuditEvent{
		EventType: AuditTakeover,
		RequestID: requestID,
		From:      from,
		To:        "TAKEOVER_REQUEST",
		Success:   true,
		Fields:    map[string]interface{}{"risk": risk, "risk_level": level},
	})
}

// ReasoningResolved records the explanation stored for a takeover.
func (a *AuditLogger) ReasoningResolved(requestID string, urgency int, fallback bool, durationMs int64, errMsg string) {
	a.Log(AuditEvent{
		EventType:  AuditReasoningResolved,
		RequestID:  requestID,
		Success:    !fallback,
		DurationMs: durationMs,
		Error:      errMsg,
		Fields:     map[string]interface{}{"urgency": urgency, "fallback": fallback},
	})
}

// ReasoningDropped records an outcome that was not shown.
func (a *AuditLogger) ReasoningDropped(requestID, reason string) {
	a.Log(AuditEvent{
		EventType: AuditReasoningDropped,
		RequestID: requestID,
		Error:     reason,
	})
}
