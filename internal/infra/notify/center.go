package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	LevelSuccess = "success"
	LevelError   = "error"
)

// Notification is a transient toast. Only the message is user facing; the
// underlying error is logged, never shown.
type Notification struct {
	ID        string    `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Center keeps the most recent notifications in memory.
type Center struct {
	logger *zap.Logger
	limit  int

	mu    sync.Mutex
	items []Notification
}

func NewCenter(limit int, logger *zap.Logger) *Center {
	if limit <= 0 {
		limit = 50
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Center{logger: logger, limit: limit}
}

func (c *Center) Success(message string) {
	c.push(LevelSuccess, message)
	c.logger.Info("notification", zap.String("level", LevelSuccess), zap.String("message", message))
}

func (c *Center) Failure(message string, err error) {
	c.push(LevelError, message)
	c.logger.Warn("notification", zap.String("level", LevelError), zap.String("message", message), zap.Error(err))
}

// Recent returns the stored notifications, newest first.
func (c *Center) Recent() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Notification, len(c.items))
	for i, n := range c.items {
		out[len(c.items)-1-i] = n
	}
	return out
}

func (c *Center) push(level, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = append(c.items, Notification{
		ID:        uuid.New().String(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	})
	if len(c.items) > c.limit {
		c.items = c.items[len(c.items)-c.limit:]
	}
}
