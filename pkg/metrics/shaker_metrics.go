// Shaker-specific metrics definitions
//
// Copyright (C) 2026 Shaker Host Project
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package metrics

import "sync"

// ShakerMetrics holds all shaker host metrics
type ShakerMetrics struct {
	// DispatchTotal counts motion dispatches by pattern.
	DispatchTotal *Counter

	// SendTotal counts command scripts sent to the controller.
	SendTotal *Counter

	// SendFailures counts failed sends by error code.
	SendFailures *Counter

	// HomingRecoveries counts automatic home-and-resend recoveries.
	HomingRecoveries *Counter

	// RelaySessions counts telemetry relay sessions opened.
	RelaySessions *Counter

	// RelayMessages counts forwarded telemetry messages by direction.
	RelayMessages *Counter

	// RelayActive is the number of relay sessions currently open.
	RelayActive *Gauge

	registry *Registry
}

// NewShakerMetrics creates the metric set on a fresh registry
func NewShakerMetrics() *ShakerMetrics {
	r := NewRegistry()
	m := &ShakerMetrics{
		DispatchTotal:    NewCounter("shaker_dispatch_total", "Motion dispatches by pattern"),
		SendTotal:        NewCounter("shaker_gcode_send_total", "Command scripts sent to the controller"),
		SendFailures:     NewCounter("shaker_gcode_send_failures_total", "Failed sends by error code"),
		HomingRecoveries: NewCounter("shaker_homing_recoveries_total", "Automatic home-and-resend recoveries"),
		RelaySessions:    NewCounter("shaker_relay_sessions_total", "Telemetry relay sessions opened"),
		RelayMessages:    NewCounter("shaker_relay_messages_total", "Forwarded telemetry messages by direction"),
		RelayActive:      NewGauge("shaker_relay_active_sessions", "Relay sessions currently open"),
		registry:         r,
	}
	r.Register(m.DispatchTotal)
	r.Register(m.SendTotal)
	r.Register(m.SendFailures)
	r.Register(m.HomingRecoveries)
	r.Register(m.RelaySessions)
	r.Register(m.RelayMessages)
	r.Register(m.RelayActive)
	return m
}

// Registry returns the registry backing this metric set
func (m *ShakerMetrics) Registry() *Registry {
	return m.registry
}

var (
	globalOnce    sync.Once
	globalMetrics *ShakerMetrics
)

// Global returns the process-wide metric set
func Global() *ShakerMetrics {
	globalOnce.Do(func() {
		globalMetrics = NewShakerMetrics()
	})
	return globalMetrics
}
