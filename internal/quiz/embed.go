package quiz

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed questions/*.json
var embedded embed.FS

// DefaultBank returns the question bank compiled into the binary.
func DefaultBank() (*FileBank, error) {
	sub, err := fs.Sub(embedded, "questions")
	if err != nil {
		return nil, fmt.Errorf("open embedded bank: %w", err)
	}
	return NewFileBank(sub)
}
