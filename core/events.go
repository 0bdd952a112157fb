// events.go - the frontend-to-core event vocabulary and substate
// enum, mirroring the Event enum named in the external-interfaces
// section of the design this core implements.

package core

import "dotrunner/core/joypad"

type EventKind int

const (
	EventKeyDown EventKind = iota
	EventKeyUp
	EventLoadFile
	EventSaveState
	EventLoadState
	EventRun
	EventPause
	EventReset
	EventExit
)

type Event struct {
	Kind EventKind
	Keys []joypad.Key
	Path string
}

// Substate is the device scheduler's three-way lifecycle.
type Substate int

const (
	Stopped Substate = iota
	Running
	Paused
)

func (s Substate) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}
