package tui

import "github.com/mmcdole/drivestorage/internal/domain"

// ChannelNotifier adapts domain.EditingNotifier to a channel for Bubble Tea.
type ChannelNotifier struct {
	ch chan<- domain.File
}

// NewChannelNotifier creates a new channel-based notifier.
func NewChannelNotifier(ch chan<- domain.File) *ChannelNotifier {
	return &ChannelNotifier{ch: ch}
}

// NotifyEdited sends the file to the channel (non-blocking if full).
func (n *ChannelNotifier) NotifyEdited(file domain.File) {
	select {
	case n.ch <- file:
	default:
	}
}

// ChannelReporter returns an ErrorReporter that forwards errors to ch.
// Errors are dropped while the channel is full.
func ChannelReporter(ch chan<- error) domain.ErrorReporter {
	return func(err error) {
		select {
		case ch <- err:
		default:
		}
	}
}
