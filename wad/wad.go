// Package wad pulls lumps, the UDMF TEXTMAP in particular, out of Doom WAD files.
package wad

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/gorustyt/udmfnav/common/rw"
)

var (
	ErrBadHeader = errors.New("wad: bad header")
	ErrNoTextMap = errors.New("wad: no TEXTMAP lump")
)

const (
	headerSize = 12
	entrySize  = 16
	nameSize   = 8
)

// Lump is a directory entry.
type Lump struct {
	Name   string
	Offset int
	Size   int
}

type Wad struct {
	Kind  string
	Lumps []Lump
	data  []byte
}

// Open reads a whole WAD file.
func Open(path string) (*Wad, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	w, err := Read(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// Read parses the header and directory. Every lump must lie inside data.
func Read(data []byte) (*Wad, error) {
	r := rw.NewReader(data)
	kind := r.ReadName(4)
	count := r.ReadInt32()
	dir := r.ReadInt32()
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if kind != "IWAD" && kind != "PWAD" {
		return nil, fmt.Errorf("%w: magic %q", ErrBadHeader, kind)
	}
	if count < 0 || dir < headerSize || int(dir)+int(count)*entrySize > len(data) {
		return nil, fmt.Errorf("%w: %d lumps at %d in %d bytes", ErrBadHeader, count, dir, len(data))
	}

	w := &Wad{Kind: kind, Lumps: make([]Lump, 0, count), data: data}
	r.Seek(int(dir))
	for i := 0; i < int(count); i++ {
		l := Lump{Offset: int(r.ReadInt32()), Size: int(r.ReadInt32())}
		l.Name = r.ReadName(nameSize)
		if l.Offset < 0 || l.Size < 0 || l.Offset+l.Size > len(data) {
			return nil, fmt.Errorf("%w: lump %d %q outside the file", ErrBadHeader, i, l.Name)
		}
		w.Lumps = append(w.Lumps, l)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	return w, nil
}

// Lump returns the data of the first lump called name.
func (w *Wad) Lump(name string) ([]byte, bool) {
	for _, l := range w.Lumps {
		if l.Name == name {
			return w.data[l.Offset : l.Offset+l.Size], true
		}
	}
	return nil, false
}

// Maps lists the marker lumps that open a UDMF map.
func (w *Wad) Maps() []string {
	var out []string
	for i := 1; i < len(w.Lumps); i++ {
		if w.Lumps[i].Name == "TEXTMAP" {
			out = append(out, w.Lumps[i-1].Name)
		}
	}
	return out
}

// TextMap returns the first TEXTMAP lump as text.
func (w *Wad) TextMap() (string, error) {
	b, ok := w.Lump("TEXTMAP")
	if !ok {
		return "", ErrNoTextMap
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: TEXTMAP is not UTF-8", ErrNoTextMap)
	}
	return string(b), nil
}

// Entry is a named lump for Encode.
type Entry struct {
	Name string
	Data []byte
}

// Encode lays the lumps out back to back after the header and appends the directory.
func Encode(kind string, lumps ...Entry) []byte {
	w := rw.NewWriter()
	size := 0
	for _, l := range lumps {
		size += len(l.Data)
	}
	w.WriteName(kind, 4)
	w.WriteInt32(int32(len(lumps)))
	w.WriteInt32(int32(headerSize + size))
	for _, l := range lumps {
		w.WriteBytes(l.Data)
	}
	offset := headerSize
	for _, l := range lumps {
		w.WriteInt32(int32(offset))
		w.WriteInt32(int32(len(l.Data)))
		w.WriteName(l.Name, nameSize)
		offset += len(l.Data)
	}
	return w.GetWriteBytes()
}
