// Copyright 2024 The mxfkit Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mxf

import (
	"errors"
	"fmt"

	"github.com/mxfkit/mxf/mxflog"
)

// ErrorKind names one of the error taxonomy entries from spec.md §7. It is a
// classification, not a Go error type — every diagnostic carries one of
// these plus a Severity and a free-form message.
type ErrorKind int

const (
	IoFailure ErrorKind = iota
	MalformedKLV
	UnexpectedOffset
	InvalidPartitionPack
	MissingPrimer
	MalformedPrimer
	UnknownLocalTag
	UnknownStructuralSet
	FieldDecodeFailure
	MultiplePreface
	NoPreface
	InvalidDescriptor
	CyclicGraph
	UnresolvedStrongRef
)

func (k ErrorKind) String() string {
	switch k {
	case IoFailure:
		return "IoFailure"
	case MalformedKLV:
		return "MalformedKLV"
	case UnexpectedOffset:
		return "UnexpectedOffset"
	case InvalidPartitionPack:
		return "InvalidPartitionPack"
	case MissingPrimer:
		return "MissingPrimer"
	case MalformedPrimer:
		return "MalformedPrimer"
	case UnknownLocalTag:
		return "UnknownLocalTag"
	case UnknownStructuralSet:
		return "UnknownStructuralSet"
	case FieldDecodeFailure:
		return "FieldDecodeFailure"
	case MultiplePreface:
		return "MultiplePreface"
	case NoPreface:
		return "NoPreface"
	case InvalidDescriptor:
		return "InvalidDescriptor"
	case CyclicGraph:
		return "CyclicGraph"
	case UnresolvedStrongRef:
		return "UnresolvedStrongRef"
	default:
		return "Unknown"
	}
}

// Severity classifies how a Diagnostic affects the parse as a whole.
type Severity int

const (
	SeverityWarn Severity = iota
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityWarn:
		return "WARN"
	case SeverityError:
		return "ERROR"
	case SeverityFatal:
		return "FATAL"
	default:
		return "?"
	}
}

// Diagnostic is one accumulated, non-aborting parse event.
type Diagnostic struct {
	Kind     ErrorKind
	Severity Severity
	Message  string
	Offset   int64
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s at offset %d: %s", d.Severity, d.Kind, d.Offset, d.Message)
}

// DiagnosticLog accumulates non-fatal diagnostics during construction, the
// same role the teacher's `pe.Anomalies []string` plays, generalized to
// carry a kind and severity so the constructor can fail fast exactly when a
// FATAL entry was recorded (spec.md §7).
type DiagnosticLog struct {
	entries []Diagnostic
}

// Add appends a diagnostic to the log.
func (l *DiagnosticLog) Add(kind ErrorKind, severity Severity, offset int64, format string, args ...interface{}) {
	l.entries = append(l.entries, Diagnostic{
		Kind:     kind,
		Severity: severity,
		Message:  fmt.Sprintf(format, args...),
		Offset:   offset,
	})
}

// AddLogged appends a diagnostic and, mirroring the teacher's dual-write
// pattern (pe.logger.Warnf(...) alongside pe.Anomalies = append(...)),
// writes the same message to logger at a level matching severity: Warnf for
// SeverityWarn, Errorf for SeverityError/SeverityFatal. logger may be nil
// (every mxflog.Helper method is nil-receiver-safe).
func (l *DiagnosticLog) AddLogged(logger *mxflog.Helper, kind ErrorKind, severity Severity, offset int64, format string, args ...interface{}) {
	l.Add(kind, severity, offset, format, args...)
	msg := fmt.Sprintf("%s at offset %d: %s", kind, offset, fmt.Sprintf(format, args...))
	if severity == SeverityWarn {
		logger.Warnf("%s", msg)
	} else {
		logger.Errorf("%s", msg)
	}
}

// Entries returns every diagnostic recorded so far, in recording order.
func (l *DiagnosticLog) Entries() []Diagnostic {
	return l.entries
}

// mark returns the current entry count, to be passed to fatalSince later.
func (l *DiagnosticLog) mark() int {
	return len(l.entries)
}

// fatalSince returns every SeverityFatal diagnostic recorded since mark.
func (l *DiagnosticLog) fatalSince(mark int) []Diagnostic {
	var fatals []Diagnostic
	for _, e := range l.entries[mark:] {
		if e.Severity == SeverityFatal {
			fatals = append(fatals, e)
		}
	}
	return fatals
}

// ParseError is returned by New when one or more FATAL diagnostics
// were recorded during the run.
type ParseError struct {
	Fatals []Diagnostic
}

func (e *ParseError) Error() string {
	if len(e.Fatals) == 1 {
		return e.Fatals[0].String()
	}
	return fmt.Sprintf("%s (and %d more fatal error(s))", e.Fatals[0].String(), len(e.Fatals)-1)
}

// Sentinel errors returned directly by leaf decoders before a
// HeaderPartition exists to hold a DiagnosticLog (e.g. a single KLV header
// read, or Primer batch decode called in isolation by a test).
var (
	errTruncatedKey    = errors.New("mxf: truncated KLV key")
	errInvalidBERLen   = errors.New("mxf: invalid BER length encoding")
	errLengthOverflow  = errors.New("mxf: BER length exceeds the signed 64-bit range")
	errTruncatedValue  = errors.New("mxf: truncated KLV value")
	errPrimerItemSize  = errors.New("mxf: primer pack item_size must be 18")
	errPrimerDuplicate = errors.New("mxf: duplicate local tag in primer pack")
	errRationalZeroDen = errors.New("mxf: rational denominator is zero")
)
