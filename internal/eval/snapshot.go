// Package eval evaluates parsed query expressions against filesystem
// entries. Each entry is captured once in a Snapshot that a single worker
// owns for the duration of its evaluation; content-derived attributes are
// resolved lazily, only when a predicate needs them.
package eval

import (
	"io/fs"
	"time"
)

// EntryKind classifies a directory entry by its mode.
type EntryKind int

const (
	KindUnknown EntryKind = iota
	KindFile
	KindDir
	KindSymlink
	KindSocket
	KindDevice
	KindFIFO
)

func kindOf(mode fs.FileMode) EntryKind {
	switch {
	case mode.IsRegular():
		return KindFile
	case mode.IsDir():
		return KindDir
	case mode&fs.ModeSymlink != 0:
		return KindSymlink
	case mode&fs.ModeSocket != 0:
		return KindSocket
	case mode&fs.ModeDevice != 0:
		return KindDevice
	case mode&fs.ModeNamedPipe != 0:
		return KindFIFO
	default:
		return KindUnknown
	}
}

// Snapshot holds the attributes of one filesystem entry at the moment
// it was visited.
type Snapshot struct {
	Path  string
	Name  string
	Depth int64
	Size  int64
	Perm  uint32 // permission bits plus setuid, setgid and sticky
	UID   uint32
	GID   uint32
	ATime time.Time
	MTime time.Time
	Kind  EntryKind

	classDone bool
	class     FileClass
	classErr  error
}

// NewSnapshot captures the entry's attributes from its FileInfo.
func NewSnapshot(path string, depth int64, info fs.FileInfo) *Snapshot {
	atime, uid, gid := statSys(info)
	return &Snapshot{
		Path:  path,
		Name:  info.Name(),
		Depth: depth,
		Size:  info.Size(),
		Perm:  permBits(info.Mode()),
		UID:   uid,
		GID:   gid,
		ATime: atime,
		MTime: info.ModTime(),
		Kind:  kindOf(info.Mode()),
	}
}

// permBits folds the mode's permission and special bits into the
// traditional octal layout.
func permBits(mode fs.FileMode) uint32 {
	bits := uint32(mode.Perm())
	if mode&fs.ModeSetuid != 0 {
		bits |= 0o4000
	}
	if mode&fs.ModeSetgid != 0 {
		bits |= 0o2000
	}
	if mode&fs.ModeSticky != 0 {
		bits |= 0o1000
	}
	return bits
}

// Class classifies the entry's content, reading at most once. The result
// is memoized so a query with several type predicates pays for one read.
func (s *Snapshot) Class(timeout time.Duration) (FileClass, error) {
	if !s.classDone {
		s.class, s.classErr = classifyFile(s.Path, s.Size, timeout)
		s.classDone = true
	}
	return s.class, s.classErr
}
