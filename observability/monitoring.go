// Package observability aggregates server counters for the periodic
// monitoring report. Counters are atomic; call sites never block on them.
package observability

import "sync/atomic"

// Stats is one point-in-time snapshot of the server counters.
type Stats struct {
	ConnectionsOpened   uint64
	ActiveConnections   int64
	PrivateRelayed      uint64
	GroupRelayed        uint64
	HistoryAppendFailed uint64
	ModeratedMessages   uint64
	IgnoredClientLines  uint64
}

// Monitoring collects counters from the server, the router, and the
// dispatcher. Safe for concurrent use.
type Monitoring struct {
	connectionsOpened   atomic.Uint64
	activeConnections   atomic.Int64
	privateRelayed      atomic.Uint64
	groupRelayed        atomic.Uint64
	historyAppendFailed atomic.Uint64
	moderatedMessages   atomic.Uint64
	ignoredClientLines  atomic.Uint64
}

func NewMonitoring() *Monitoring {
	return &Monitoring{}
}

func (m *Monitoring) ConnectionOpened() {
	m.connectionsOpened.Add(1)
	m.activeConnections.Add(1)
}

func (m *Monitoring) ConnectionClosed() {
	m.activeConnections.Add(-1)
}

func (m *Monitoring) IncrPrivateRelayed() {
	m.privateRelayed.Add(1)
}

func (m *Monitoring) IncrGroupRelayed() {
	m.groupRelayed.Add(1)
}

func (m *Monitoring) IncrHistoryAppendFailed() {
	m.historyAppendFailed.Add(1)
}

func (m *Monitoring) IncrModeratedMessages() {
	m.moderatedMessages.Add(1)
}

func (m *Monitoring) IncrIgnoredClientLines() {
	m.ignoredClientLines.Add(1)
}

func (m *Monitoring) Snapshot() Stats {
	return Stats{
		ConnectionsOpened:   m.connectionsOpened.Load(),
		ActiveConnections:   m.activeConnections.Load(),
		PrivateRelayed:      m.privateRelayed.Load(),
		GroupRelayed:        m.groupRelayed.Load(),
		HistoryAppendFailed: m.historyAppendFailed.Load(),
		ModeratedMessages:   m.moderatedMessages.Load(),
		IgnoredClientLines:  m.ignoredClientLines.Load(),
	}
}
