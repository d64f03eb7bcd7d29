package capture

import (
	"github.com/anime-shed/sobel-inspector-go/internal/logger"

	"github.com/sirupsen/logrus"
)

// Action is what a key press asks the capture loop to do
type Action int

const (
	ActionNone Action = iota
	ActionSave
	ActionToggleCamera
	ActionToggleFiltered
	ActionQuit
	ActionSetThreads
)

// ParseKey maps a key code returned by the window toolkit onto an action.
// For ActionSetThreads the digit is returned as the thread count.
func ParseKey(key int) (Action, int) {
	switch {
	case key == 's':
		return ActionSave, 0
	case key == 'c':
		return ActionToggleCamera, 0
	case key == 'f':
		return ActionToggleFiltered, 0
	case key == 'q':
		return ActionQuit, 0
	case key >= '0' && key <= '9':
		return ActionSetThreads, key - '0'
	default:
		return ActionNone, 0
	}
}

// Controller holds the interactive state of a capture session
type Controller struct {
	ShowCamera   bool
	ShowFiltered bool

	save       func() error
	setThreads func(int) int
}

// NewController returns a controller showing only the filtered window
func NewController(save func() error, setThreads func(int) int) *Controller {
	return &Controller{
		ShowFiltered: true,
		save:         save,
		setThreads:   setThreads,
	}
}

// HandleKey applies the action bound to key and reports whether the session
// should end
func (c *Controller) HandleKey(key int) bool {
	action, threads := ParseKey(key)
	switch action {
	case ActionSave:
		if c.save == nil {
			return false
		}
		if err := c.save(); err != nil {
			logger.Component("capture").WithError(err).Error("Failed to save edge image")
		} else {
			logger.Component("capture").Info("Edge image saved")
		}
	case ActionToggleCamera:
		c.ShowCamera = !c.ShowCamera
	case ActionToggleFiltered:
		c.ShowFiltered = !c.ShowFiltered
	case ActionQuit:
		return true
	case ActionSetThreads:
		if c.setThreads != nil {
			got := c.setThreads(threads)
			logger.Component("capture").WithFields(logrus.Fields{
				"requested": threads,
				"threads":   got,
			}).Info("Filter threads changed")
		}
	}
	return false
}
