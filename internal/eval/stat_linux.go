//go:build linux

package eval

import (
	"io/fs"
	"syscall"
	"time"
)

func statSys(info fs.FileInfo) (atime time.Time, uid, gid uint32) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime(), 0, 0
	}
	return time.Unix(st.Atim.Sec, st.Atim.Nsec), st.Uid, st.Gid
}
