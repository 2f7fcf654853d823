package node

import (
	"context"
	"errors"
	"io"
)

// ErrServing is returned when Serve is called while another Serve is running.
var ErrServing = errors.New("handler already serving")

// Serve runs the command loop on rw until ctx is done or the input ends.
//
// Between commands it waits for input instead of polling. Response write
// failures are logged and do not stop the loop.
func (h *Handler) Serve(ctx context.Context, rw io.ReadWriter) error {
	if !h.serving.CompareAndSwap(false, true) {
		return ErrServing
	}
	defer h.serving.Store(false)

	port := NewPort(rw)
	defer port.Close()

	h.logger.Info("serving commands")
	for {
		if err := h.Handle(ctx, port, rw); err != nil {
			h.logger.Warn("response not delivered", "error", err)
		}
		if err := port.Wait(ctx); err != nil {
			return err
		}
	}
}
