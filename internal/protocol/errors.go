package protocol

import "errors"

var (
	ErrNilPacket       = errors.New("protocol: nil packet")
	ErrTrailingPayload = errors.New("protocol: trailing payload bytes")
)
