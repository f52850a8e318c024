package models

import (
	"fmt"
	"time"
)

// Role identifies who produced a message in the conversation log.
type Role int

const (
	// RoleUser is a prompt typed by the user.
	RoleUser Role = iota
	// RoleAssistant is output streamed back from the external tool.
	RoleAssistant
	// RoleDebug carries the invocation trace and raw diagnostics of one run.
	RoleDebug
	// RoleSystem carries session markers such as "New chat".
	RoleSystem
)

// String returns the lowercase role name.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	case RoleDebug:
		return "debug"
	case RoleSystem:
		return "system"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Label is the speaker tag used when the turn is serialized into a prompt.
func (r Role) Label() string {
	switch r {
	case RoleUser:
		return "USER"
	case RoleAssistant:
		return "ASSISTANT"
	case RoleDebug:
		return "DEBUG"
	case RoleSystem:
		return "SYSTEM"
	default:
		return ""
	}
}

// Conversational reports whether messages of this role take part in the
// conversation context sent to the external tool.
func (r Role) Conversational() bool {
	switch r {
	case RoleUser, RoleAssistant:
		return true
	case RoleDebug, RoleSystem:
		return false
	default:
		return false
	}
}

// Message is one entry of the conversation log.
type Message struct {
	ID        string
	Role      Role
	Content   string
	CreatedAt time.Time
}
