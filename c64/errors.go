package c64

import "github.com/pkg/errors"

// Typed error kinds per the core's error handling design. Each wraps the
// underlying cause (if any) with github.com/pkg/errors so a host can log a
// full stack trace without the core needing to know how the host logs.

// DecodeError reports an unknown/undocumented-as-illegal opcode fetch. The
// CPU logs it through its Logger, stores it in LastDecodeErr and advances
// past it; no mode stops execution on it.
type DecodeError struct {
	PC     uint16
	Opcode byte
	cause  error
}

func (e *DecodeError) Error() string {
	return errors.Wrapf(e.cause, "decode error at $%04X: opcode $%02X", e.PC, e.Opcode).Error()
}

func (e *DecodeError) Unwrap() error { return e.cause }

func newDecodeError(pc uint16, opcode byte) *DecodeError {
	return &DecodeError{PC: pc, Opcode: opcode, cause: errors.New("unknown opcode")}
}

// BusConsistencyError reports a snapshot marker mismatch; ReadSnapshot is
// its only source. It is returned to the caller; the CPU is not stopped.
type BusConsistencyError struct {
	cause error
}

func (e *BusConsistencyError) Error() string { return errors.Wrap(e.cause, "bus consistency error").Error() }
func (e *BusConsistencyError) Unwrap() error  { return e.cause }

func newBusConsistencyError(msg string) *BusConsistencyError {
	return &BusConsistencyError{cause: errors.New(msg)}
}

// ImageError reports a disk-image problem: an unrecognized mount format or
// ROM image (returned to the host), or a GCR decode failure while writing
// back a dirty sector, after which the drive drops that sector and detaches
// the image without returning the error to the host.
type ImageError struct {
	cause error
}

func (e *ImageError) Error() string { return errors.Wrap(e.cause, "image error").Error() }
func (e *ImageError) Unwrap() error  { return e.cause }

func newImageError(msg string) *ImageError {
	return &ImageError{cause: errors.New(msg)}
}

// ResourceUnavailableError signals a drive-channel operation with no
// backing resource (e.g. a file or block that does not exist). DriveHandler
// methods return it as a Go error; the IEC-only drive drops a failed OPEN
// and has no command channel to report it on.
type ResourceUnavailableError struct {
	cause error
}

func (e *ResourceUnavailableError) Error() string {
	return errors.Wrap(e.cause, "resource not available").Error()
}
func (e *ResourceUnavailableError) Unwrap() error { return e.cause }

func newResourceUnavailableError(msg string) *ResourceUnavailableError {
	return &ResourceUnavailableError{cause: errors.New(msg)}
}

// SerializationError wraps an I/O failure while writing or reading a
// snapshot. The stream has no version field, so no version check is made;
// sections read before a failure have already been applied.
type SerializationError struct {
	cause error
}

func (e *SerializationError) Error() string { return errors.Wrap(e.cause, "serialization error").Error() }
func (e *SerializationError) Unwrap() error  { return e.cause }

func newSerializationError(msg string) *SerializationError {
	return &SerializationError{cause: errors.New(msg)}
}
