// Package clipboard copies rendered snippets to the system clipboard.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Copier places rendered output on a clipboard.
type Copier interface {
	Copy(text string) error
}

// Service is the Copier backed by the operating system clipboard.
type Service struct{}

// NewService constructs the system clipboard Copier.
func NewService() *Service {
	return &Service{}
}

// Copy replaces the clipboard contents with text.
func (service *Service) Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available on this system")
	}
	return clipboard.WriteAll(text)
}

var _ Copier = (*Service)(nil)
