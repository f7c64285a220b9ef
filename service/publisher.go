package service

import (
	"context"
)

type Publisher interface {
	Publish(ctx context.Context, event string, data any, rooms ...string) int
}
