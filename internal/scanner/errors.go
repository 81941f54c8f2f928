package scanner

import (
	"errors"
	"fmt"
)

// ErrRootNotDirectory is matched by errors.Is for every *ScanError.
var ErrRootNotDirectory = errors.New("project root is not a directory")

// ScanError is the only error Scan returns: the root is missing or is not
// a directory.
type ScanError struct {
	Root string
	Err  error
}

func (e *ScanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("project root is not a directory: %s: %v", e.Root, e.Err)
	}
	return fmt.Sprintf("project root is not a directory: %s", e.Root)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

func (e *ScanError) Is(target error) bool {
	return target == ErrRootNotDirectory
}

// SkipReason classifies a recoverable problem met during a scan.
type SkipReason string

const (
	SkipExcluded      SkipReason = "excluded"
	SkipGitignored    SkipReason = "gitignored"
	SkipCycle         SkipReason = "cycle"
	SkipDirUnreadable SkipReason = "dir_unreadable"
	SkipStatFailed    SkipReason = "stat_failed"
	SkipNotRegular    SkipReason = "not_regular"
	SkipOversized     SkipReason = "oversized"
	// SkipUnreadable files stay in the inventory without a line count.
	SkipUnreadable SkipReason = "unreadable"
)

// Skip records one recoverable problem. It is reported to the Logger and
// tallied in ProjectStructure.Skipped; it never aborts the scan.
type Skip struct {
	Path   string
	Reason SkipReason
	Err    error
	Size   int64
}

// Message returns the log message for the skip.
func (s Skip) Message() string {
	switch s.Reason {
	case SkipExcluded:
		return "Excluded by pattern"
	case SkipGitignored:
		return "Excluded by .gitignore"
	case SkipCycle:
		return "Symlink cycle detected, skipping"
	case SkipDirUnreadable:
		return "Cannot read directory"
	case SkipStatFailed:
		return "Cannot stat file"
	case SkipNotRegular:
		return "Skipping non-regular file"
	case SkipOversized:
		return "Skipping oversized file"
	case SkipUnreadable:
		return "Cannot read file for line counting"
	}
	return "Skipped"
}

// Warn reports whether the skip deserves a warning rather than a debug entry.
func (s Skip) Warn() bool {
	switch s.Reason {
	case SkipDirUnreadable, SkipStatFailed, SkipUnreadable:
		return true
	}
	return false
}

// Fields returns the structured log fields for the skip.
func (s Skip) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"path":   s.Path,
		"reason": string(s.Reason),
	}
	if s.Err != nil {
		fields["error"] = s.Err.Error()
	}
	if s.Reason == SkipOversized {
		fields["size_kb"] = s.Size / 1024
	}
	return fields
}
