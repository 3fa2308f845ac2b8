package events

import (
	"context"
	"fmt"

	"trl/internal/domain"
)

// Listener receives the host callbacks in order.
type Listener interface {
	StartSuite(ctx context.Context, name string, attrs domain.SuiteAttrs) error
	EndSuite(ctx context.Context, name string, attrs domain.SuiteAttrs) error
	StartTest(ctx context.Context, name string, attrs domain.TestAttrs) error
	EndTest(ctx context.Context, name string, attrs domain.TestEndAttrs) error
	Close(ctx context.Context) error
}

// Dispatch decodes the event's attributes and invokes the matching callback.
func Dispatch(ctx context.Context, l Listener, e Event) error {
	switch e.Type {
	case StartSuite, EndSuite:
		attrs, err := e.SuiteAttrs()
		if err != nil {
			return err
		}
		if e.Type == StartSuite {
			return l.StartSuite(ctx, e.Name, attrs)
		}
		return l.EndSuite(ctx, e.Name, attrs)
	case StartTest:
		attrs, err := e.TestAttrs()
		if err != nil {
			return err
		}
		return l.StartTest(ctx, e.Name, attrs)
	case EndTest:
		attrs, err := e.TestEndAttrs()
		if err != nil {
			return err
		}
		return l.EndTest(ctx, e.Name, attrs)
	case Close:
		return l.Close(ctx)
	}
	return fmt.Errorf("dispatch: unknown event type %q", e.Type)
}
