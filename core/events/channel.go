package events

const (
	// KindChannelOpened identifies a completed channel handshake.
	KindChannelOpened Kind = "channel.opened"
	// KindChannelClosed identifies a channel closed by the remote side.
	KindChannelClosed Kind = "channel.closed"
	// KindChannelError identifies a transport fault.
	KindChannelError Kind = "channel.error"
)

// ChannelOpened marks the channel as ready for audio.
type ChannelOpened struct{ Base }

// NewChannelOpened creates a channel opened event.
func NewChannelOpened() ChannelOpened {
	return ChannelOpened{Base: NewBase(KindChannelOpened)}
}

// ChannelClosed marks a remote close of the channel.
type ChannelClosed struct {
	Base
	Reason string
}

// NewChannelClosed creates a channel closed event.
func NewChannelClosed(reason string) ChannelClosed {
	return ChannelClosed{Base: NewBase(KindChannelClosed), Reason: reason}
}

// ChannelError carries a transport fault.
type ChannelError struct {
	Base
	Err error
}

// NewChannelError creates a channel error event.
func NewChannelError(err error) ChannelError {
	return ChannelError{Base: NewBase(KindChannelError), Err: err}
}
