package eventbus

import "errors"

// ErrNoSubscriber is returned when subscribing on a publish-only bus.
var ErrNoSubscriber = errors.New("event bus has no subscriber")
