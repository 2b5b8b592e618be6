package eval

import (
	"time"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"

	"github.com/harrison/fgr/internal/content"
)

// FileClass is a coarse content classification of a regular file.
type FileClass int

const (
	ClassUnknown FileClass = iota
	ClassText
	ClassApp
	ClassArchive
	ClassAudio
	ClassBook
	ClassDoc
	ClassFont
	ClassImage
	ClassVideo
)

// String returns the label used in queries.
func (c FileClass) String() string {
	switch c {
	case ClassText:
		return "text"
	case ClassApp:
		return "app"
	case ClassArchive:
		return "archive"
	case ClassAudio:
		return "audio"
	case ClassBook:
		return "book"
	case ClassDoc:
		return "doc"
	case ClassFont:
		return "font"
	case ClassImage:
		return "img"
	case ClassVideo:
		return "vid"
	default:
		return "unknown"
	}
}

// sniffSize is how much of the file the classifier inspects.
const sniffSize = 8192

func classifyFile(path string, size int64, timeout time.Duration) (FileClass, error) {
	n := size
	if n > sniffSize {
		n = sniffSize
	}
	if n == 0 {
		return ClassUnknown, nil
	}
	buf, err := content.ReadHead(path, int(n), timeout)
	if err != nil {
		return ClassUnknown, err
	}
	return Classify(buf), nil
}

// Classify determines the class of a file from its leading bytes.
func Classify(buf []byte) FileClass {
	if len(buf) == 0 {
		return ClassUnknown
	}

	if t, err := filetype.Match(buf); err == nil && t != types.Unknown {
		// Executables, e-books and office documents hide in filetype's
		// archive and application buckets, so match on extension first.
		switch t.Extension {
		case "epub", "mobi":
			return ClassBook
		case "exe", "elf", "macho", "wasm", "dex", "dey":
			return ClassApp
		case "pdf", "rtf", "doc", "docx", "xls", "xlsx", "ppt", "pptx":
			return ClassDoc
		}
		switch {
		case filetype.IsImage(buf):
			return ClassImage
		case filetype.IsVideo(buf):
			return ClassVideo
		case filetype.IsAudio(buf):
			return ClassAudio
		case filetype.IsFont(buf):
			return ClassFont
		case filetype.IsDocument(buf):
			return ClassDoc
		case filetype.IsApplication(buf):
			return ClassApp
		case filetype.IsArchive(buf):
			return ClassArchive
		}
	}

	if looksLikeText(buf) {
		return ClassText
	}
	return ClassUnknown
}

// looksLikeText reports whether the buffer is plausibly UTF-8 text. A
// truncated rune at the very end is tolerated because the buffer is a
// prefix of the file.
func looksLikeText(buf []byte) bool {
	for i := 0; i < len(buf); {
		if buf[i] == 0 {
			return false
		}
		r, size := utf8.DecodeRune(buf[i:])
		if r == utf8.RuneError && size == 1 {
			return len(buf)-i < utf8.UTFMax && utf8.RuneStart(buf[i])
		}
		i += size
	}
	return true
}
