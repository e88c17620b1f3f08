package api

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"
)

// AuditLogger records identity and role events on their own stream so they
// can be shipped separately from request logs.
type AuditLogger struct {
	logger *log.Logger
}

// NewAuditLogger creates an audit logger writing to stdout.
func NewAuditLogger() *AuditLogger {
	return &AuditLogger{
		logger: log.New(os.Stdout, "[AUDIT] ", log.LstdFlags),
	}
}

func (a *AuditLogger) logEvent(event string, fields map[string]any) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "event=%s ts=%s", event, time.Now().UTC().Format(time.RFC3339))
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	a.logger.Print(b.String())
}

// LogTokenIssued records a successful token mint.
func (a *AuditLogger) LogTokenIssued(requestID, principal, remoteAddr string) {
	a.logEvent("token_issued", map[string]any{
		"request_id": requestID,
		"principal":  principal,
		"remote_ip":  remoteAddr,
	})
}

// LogTokenRejected records a failed token verification.
func (a *AuditLogger) LogTokenRejected(requestID, remoteAddr, reason string) {
	a.logEvent("token_rejected", map[string]any{
		"request_id": requestID,
		"remote_ip":  remoteAddr,
		"reason":     reason,
	})
}

// LogAccessDenied records a 401/403 outcome.
func (a *AuditLogger) LogAccessDenied(requestID, path, remoteAddr, reason string) {
	a.logEvent("access_denied", map[string]any{
		"request_id": requestID,
		"path":       path,
		"remote_ip":  remoteAddr,
		"reason":     reason,
	})
}

// LogRoleAssigned records an admin role change.
func (a *AuditLogger) LogRoleAssigned(requestID, by, target, role string) {
	a.logEvent("role_assigned", map[string]any{
		"request_id": requestID,
		"by":         by,
		"target":     target,
		"role":       role,
	})
}

// LogSystemStartup records service boot parameters.
func (a *AuditLogger) LogSystemStartup(version string, engines int) {
	a.logEvent("system_startup", map[string]any{
		"version": version,
		"engines": engines,
	})
}
