package scanner

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// readChunk is the size of the binary sniff and of each line-counting read.
const readChunk = 8192

// outcome is the classifier's verdict for one file. A file can be included
// and still carry a skip, e.g. when its line count could not be read.
type outcome struct {
	file    FileInfo
	include bool
	skip    *Skip
}

// classifier applies the per-file inclusion rules.
type classifier struct {
	exclude      *excludeMatcher
	maxSizeBytes int64
}

func newClassifier(exclude *excludeMatcher, maxFileSizeKB int) *classifier {
	return &classifier{
		exclude:      exclude,
		maxSizeBytes: int64(maxFileSizeKB) * 1024,
	}
}

// patternSkip returns the skip for a file matched by an exclude pattern or
// the .gitignore, or nil when the patterns let it through.
func (c *classifier) patternSkip(e entry) *Skip {
	if c.exclude.excludedAncestor(e.rel) || c.exclude.excluded(e.name, e.rel) {
		return &Skip{Path: e.rel, Reason: SkipExcluded}
	}
	if c.exclude.ignored(e.rel, false) {
		return &Skip{Path: e.rel, Reason: SkipGitignored}
	}
	return nil
}

func (c *classifier) classify(e entry) outcome {
	if sk := c.patternSkip(e); sk != nil {
		return outcome{skip: sk}
	}

	fi, err := os.Stat(e.abs)
	if err != nil {
		return outcome{skip: &Skip{Path: e.rel, Reason: SkipStatFailed, Err: err}}
	}
	if !fi.Mode().IsRegular() {
		return outcome{skip: &Skip{Path: e.rel, Reason: SkipNotRegular}}
	}
	if c.maxSizeBytes > 0 && fi.Size() > c.maxSizeBytes {
		return outcome{skip: &Skip{Path: e.rel, Reason: SkipOversized, Size: fi.Size()}}
	}

	file := FileInfo{
		Path:      e.rel,
		Extension: extension(e.name),
		Size:      fi.Size(),
	}

	lines, binary, err := countLines(e.abs)
	switch {
	case err != nil:
		return outcome{file: file, include: true, skip: &Skip{Path: e.rel, Reason: SkipUnreadable, Err: err}}
	case binary:
		file.Binary = true
	default:
		file.LineCount = &lines
	}
	return outcome{file: file, include: true}
}

// countLines streams the file in readChunk pieces and counts newline bytes.
// A NUL byte in the first chunk marks the file as binary and stops reading.
func countLines(path string) (lines int, binary bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false, err
	}
	defer f.Close()

	buf := make([]byte, readChunk)

	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, false, err
	}
	if bytes.IndexByte(buf[:n], 0) >= 0 {
		return 0, true, nil
	}
	lines = bytes.Count(buf[:n], []byte{'\n'})
	if n < readChunk {
		return lines, false, nil
	}

	for {
		n, err := f.Read(buf)
		lines += bytes.Count(buf[:n], []byte{'\n'})
		if errors.Is(err, io.EOF) {
			return lines, false, nil
		}
		if err != nil {
			return 0, false, err
		}
	}
}

// extension returns the lowercased suffix of name. Dotfiles such as
// ".bashrc" have no extension.
func extension(name string) string {
	ext := filepath.Ext(strings.TrimLeft(name, "."))
	if ext == "." {
		return ""
	}
	return strings.ToLower(ext)
}
