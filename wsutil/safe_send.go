package wsutil

import "log/slog"

// SafeSend sends data to a channel without panicking if the channel is
// closed. If the channel is full or closed, the send is skipped; a slow
// client drops messages rather than stalling the room loop.
func SafeSend(ch chan []byte, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("send to closed channel", "tag", "wsutil", "recovered", r)
		}
	}()
	select {
	case ch <- data:
	default:
	}
}
