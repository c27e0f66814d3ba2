// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Dicts      []string
	RomanCount int
	LapLength  int
	IdealCount bool
	FocusWeak  bool
	WeakTop    int
	WeakFactor float64
	WeakWindow int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
	Keys        string
	IdealCount  bool
}

// SessionStats captures a completed typing session.
type SessionStats struct {
	StartedAt   time.Time
	EndedAt     time.Time
	Dicts       string
	RomanCount  int
	IdealKeys   int
	ActualKeys  int
	MissCount   int
	DurationMs  int64
	DisplayText string
}

// KeyStats stores per-key stats for a session.
type KeyStats struct {
	Key          string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// KeyAggregate aggregates key stats across sessions.
type KeyAggregate struct {
	Key          string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID  int64
	EndedAt    time.Time
	IdealKeys  int
	ActualKeys int
	MissCount  int
	DurationMs int64
}
