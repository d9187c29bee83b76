package util

import "errors"

// Checked with errors.Is by callers walking trees.
var (
	ErrExpectedFile      = errors.New("expected file, got directory")
	ErrExpectedDirectory = errors.New("expected directory but got file")
)
