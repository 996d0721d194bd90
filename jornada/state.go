package jornada

type SessionState string

const (
	StateNoActiveSession = SessionState("no_active_session")
	StateSessionActive   = SessionState("session_active")
)
