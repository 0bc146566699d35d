package depot

import "go.uber.org/zap"

// Config holds global configuration for the storage system
var Config config = config{
	logger: zap.NewNop(),
}

type config struct {
	logger      *zap.Logger
	retainStale bool
}

// SetLogger configures the logger used by storages created afterwards
func (c *config) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c.logger = logger
}

// SetRetainStale controls whether detached or deleted component values stay in
// their column until the slot is reused. By default they are released immediately.
func (c *config) SetRetainStale(retain bool) {
	c.retainStale = retain
}
