package config

import "time"

// DefaultUpdateInterval is used when a destination sets no usable updateInterval.
const DefaultUpdateInterval = 24 * time.Hour
