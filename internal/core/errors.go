package core

import "errors"

var (
	// ErrNotOwner means the requester has no tracked room. Non-retryable.
	ErrNotOwner = errors.New("requester owns no room")
	// ErrStaleRoom means a tracked channel no longer resolves on the
	// platform. Self-healing on the next lifecycle transition.
	ErrStaleRoom = errors.New("channel no longer exists")
	// ErrTargetAbsent means the named kick target is not currently in
	// the room. Non-retryable.
	ErrTargetAbsent = errors.New("target not in channel")
)
