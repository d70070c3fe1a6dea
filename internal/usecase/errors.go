package usecase

import "errors"

var (
	// ErrEmptyCommitMessage is returned when a commit is requested without a message.
	ErrEmptyCommitMessage = errors.New("commit message is required")
	// ErrDirtyWorkingTree blocks tagging while uncommitted changes exist.
	ErrDirtyWorkingTree = errors.New("working tree has uncommitted changes")
	// ErrTagExists is returned when the computed tag is already present.
	ErrTagExists = errors.New("tag already exists")
	// ErrDetachedHead is returned for branch operations without an active branch.
	ErrDetachedHead = errors.New("HEAD is detached")
)
