package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/stride/internal/models"
)

var _ list.Item = runItem{}

// runItem wraps [models.ActivitySummaryRef] to implement [list.Item].
type runItem struct {
	run models.ActivitySummaryRef
}

func (i runItem) FilterValue() string { return i.run.Name }
func (i runItem) Title() string       { return i.run.Name }
func (i runItem) Description() string {
	return fmt.Sprintf("%s • %.2f km", i.run.PrettyDate, i.run.Kilometers())
}
