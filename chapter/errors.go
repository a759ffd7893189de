package chapter

import "errors"

var (
	// ErrSyntax is returned when tokenizer cannot make sense of the markup.
	ErrSyntax = errors.New("markup syntax error")
	// ErrResources is returned when input exceeds parser buffer limits.
	ErrResources = errors.New("parser resources exhausted")
)
