// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2chat

import (
	"errors"
	"fmt"
)

// Kind classifies driver errors so callers can tell retryable bus faults
// apart from programming errors without string matching.
type Kind uint8

const (
	// KindDeviceNotFound means the board did not acknowledge its address
	// during the initial probe. Check the address jumper and the wiring.
	KindDeviceNotFound Kind = iota + 1
	// KindTransfer is a bus-level fault mid-transaction: NACK, arbitration
	// loss, CRC mismatch or a response that does not echo the request. The
	// driver never retries; retry policy belongs to the caller.
	KindTransfer
	// KindInvalidAccess is a read of a write-only register or a write to a
	// read-only register. Detected before any bus transaction.
	KindInvalidAccess
	// KindOutOfRange is an unknown channel index or label, or a value
	// outside the register's valid domain. Detected before any bus
	// transaction.
	KindOutOfRange
)

func (k Kind) String() string {
	switch k {
	case KindDeviceNotFound:
		return "device not found"
	case KindTransfer:
		return "transfer error"
	case KindInvalidAccess:
		return "invalid access"
	case KindOutOfRange:
		return "out of range"
	}
	return "unknown"
}

// Error is the error type returned by all i2chat operations.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("i2chat: %s: %s: %s", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("i2chat: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the Kind from an error returned by this package. It
// returns 0 for nil and for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func errf(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

func wrapErr(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}
