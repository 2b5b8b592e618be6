// Package content reads file contents under a deadline. Some pseudo-files
// block forever when read, so every open file gets a timer and is forcibly
// closed when the timer fires.
package content

import (
	"bufio"
	"errors"
	"io"
	"os"
	"time"

	"github.com/gobwas/glob"
)

// Matcher matches a line of file content.
type Matcher interface {
	Match(s string) bool
}

// Reading pagemap hangs the kernel thread on some systems, and the file
// is per-process so there is nothing useful to match in it anyway.
var pagemapGlob = glob.MustCompile("/proc/**/pagemap", '/')

// Unreadable reports whether the path is known to be unsafe to read.
func Unreadable(path string) bool {
	return pagemapGlob.Match(path)
}

// maxLineSize bounds a single scanned line.
const maxLineSize = 4 * 1024 * 1024

type scanOutcome struct {
	matched bool
	err     error
}

// ScanFile scans the file line by line and reports whether any line
// matches. The scan is abandoned when the timeout elapses.
func ScanFile(path string, m Matcher, timeout time.Duration) (bool, error) {
	if Unreadable(path) {
		return false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	outcome := make(chan scanOutcome, 1)
	go func() {
		matched, err := scanLines(f, m)
		outcome <- scanOutcome{matched: matched, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-outcome:
		return result.matched, result.err
	case <-timer.C:
		// Closing the file forces a blocked read to fail, which lets
		// the scanning goroutine exit.
		f.Close()
		return false, &TimeoutError{Path: path, Timeout: timeout}
	}
}

type readOutcome struct {
	buf []byte
	err error
}

// ReadHead reads up to n bytes from the start of the file, bounded by
// the timeout.
func ReadHead(path string, n int, timeout time.Duration) ([]byte, error) {
	if Unreadable(path) {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	outcome := make(chan readOutcome, 1)
	go func() {
		buf := make([]byte, n)
		read, err := io.ReadFull(f, buf)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = nil
		}
		outcome <- readOutcome{buf: buf[:read], err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-outcome:
		return result.buf, result.err
	case <-timer.C:
		f.Close()
		return nil, &TimeoutError{Path: path, Timeout: timeout}
	}
}

func scanLines(r io.Reader, m Matcher) (bool, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		if m.Match(scanner.Text()) {
			return true, nil
		}
	}
	return false, scanner.Err()
}
