package configs

import "time"

// Debugging parameters.
var (
	ShowDebugInfo = false
	ShowWarnings  = ShowDebugInfo
	ShowTestInfo  = ShowDebugInfo
	LogToFile     = true
)

// Phase/status codes, mirrored on the wire in network.Envelope.Kind.
const (
	PreparePhase string = "prepare"
	CommitPhase  string = "commit"
	AbortPhase   string = "abort"
)

// System parameters.
const (
	// MaxConnectionHandler bounds the participant's accept-loop parallelism.
	MaxConnectionHandler = 10
	// DefaultPrepareDeadline is the per-RPC deadline used in both phases.
	DefaultPrepareDeadline = 2 * time.Second
	// DialTimeout bounds how long the coordinator waits to establish a connection.
	DialTimeout = 1 * time.Second
)

// Workload parameters that could be changed by config/flags.
var (
	ConfigFileLocation = "./configs/participants.json"
	// UseWAL gates the coordinator decision log.
	UseWAL = false
	// ZeroParticipantsCommits: true -> an empty participant list is a
	// degenerate immediate COMMIT, false -> fail-fast configuration error.
	ZeroParticipantsCommits = true
)
