// Copyright 2024 The mxfkit Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bytesource

// Buffer is an in-memory Source over a []byte, used by tests and by any
// caller that has already loaded a header partition's bytes (e.g. the first
// N bytes of a remote object, fetched some other way). This is the analog
// of the teacher's NewBytes constructor in file.go, which accepts a memory
// buffer instead of mmap-ing a file.
type Buffer struct {
	data   []byte
	offset int64
}

// NewBuffer wraps data as a Source. data is not copied; the caller must not
// mutate it while the Source is in use.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// ReadBytes implements Source.
func (b *Buffer) ReadBytes(n int64) ([]byte, error) {
	if n < 0 || b.offset+n > int64(len(b.data)) {
		return nil, ErrOutOfRange
	}
	out := b.data[b.offset : b.offset+n]
	b.offset += n
	return out, nil
}

// Skip implements Source.
func (b *Buffer) Skip(n int64) error {
	if n < 0 || b.offset+n > int64(len(b.data)) {
		return ErrOutOfRange
	}
	b.offset += n
	return nil
}

// CurrentOffset implements Source.
func (b *Buffer) CurrentOffset() int64 {
	return b.offset
}

// Size implements Source.
func (b *Buffer) Size() int64 {
	return int64(len(b.data))
}
