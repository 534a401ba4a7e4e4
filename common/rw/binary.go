// Package rw reads and writes fixed width little endian records. Reads past
// the end set a sticky error instead of failing every call site.
package rw

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var ErrShortRead = errors.New("rw: short read")

type ReaderWriter struct {
	order   binary.ByteOrder
	dataBuf []byte
	data    []byte
	pos     int
	w       bytes.Buffer
	err     error
}

func NewWriter() *ReaderWriter {
	return &ReaderWriter{order: binary.LittleEndian, dataBuf: make([]byte, 8)}
}

func NewReader(data []byte) *ReaderWriter {
	return &ReaderWriter{order: binary.LittleEndian, dataBuf: make([]byte, 8), data: data}
}

// Err returns the first read error.
func (r *ReaderWriter) Err() error { return r.err }

// Seek moves the read cursor to an absolute offset.
func (r *ReaderWriter) Seek(offset int) {
	if r.err != nil {
		return
	}
	if offset < 0 || offset > len(r.data) {
		r.err = fmt.Errorf("%w: seek to %d of %d bytes", ErrShortRead, offset, len(r.data))
		return
	}
	r.pos = offset
}

func (r *ReaderWriter) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.pos+n > len(r.data) {
		r.err = fmt.Errorf("%w: %d bytes at %d of %d: %v", ErrShortRead, n, r.pos, len(r.data), io.ErrUnexpectedEOF)
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *ReaderWriter) ReadInt32() int32 {
	return int32(r.ReadUInt32())
}

func (r *ReaderWriter) ReadUInt32() uint32 {
	b := r.next(4)
	if b == nil {
		return 0
	}
	return r.order.Uint32(b)
}

// ReadBytes returns the next n bytes without copying.
func (r *ReaderWriter) ReadBytes(n int) []byte {
	return r.next(n)
}

// ReadName reads an n byte, zero padded name.
func (r *ReaderWriter) ReadName(n int) string {
	b := r.next(n)
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func (w *ReaderWriter) WriteInt32(v int32) {
	w.WriteUInt32(uint32(v))
}

func (w *ReaderWriter) WriteUInt32(v uint32) {
	w.order.PutUint32(w.dataBuf, v)
	w.w.Write(w.dataBuf[:4])
}

func (w *ReaderWriter) WriteBytes(b []byte) {
	w.w.Write(b)
}

// WriteName writes name truncated or zero padded to n bytes.
func (w *ReaderWriter) WriteName(name string, n int) {
	if len(name) > n {
		name = name[:n]
	}
	w.w.WriteString(name)
	w.PadZero(n - len(name))
}

func (w *ReaderWriter) PadZero(n int) {
	for i := 0; i < n; i++ {
		w.w.WriteByte(0)
	}
}

func (w *ReaderWriter) GetWriteBytes() []byte {
	return w.w.Bytes()
}

func (w *ReaderWriter) Size() int {
	return w.w.Len()
}
