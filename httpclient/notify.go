package httpclient

// ErrorHandler observes failed invocations: transport failures and bodies
// that could not be decoded. It receives a copy of the envelope.
type ErrorHandler func(*Response)

// notify hands resp to the client's own handler and then to the handler of
// the registry the client belongs to. Each gets its own copy.
func (c *Client) notify(resp Response) {
	c.callHandler(c.errorHandler, resp)

	if c.registryHandler != nil {
		c.callHandler(c.registryHandler(), resp)
	}
}

func (c *Client) callHandler(handler ErrorHandler, resp Response) {
	if handler == nil {
		return
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			c.logger.Error().
				Interface("panic", recovered).
				Int("status_code", resp.StatusCode).
				Str("raw_body", resp.RawBody).
				Msg("The error handler has panicked and the panic has been recovered")
		}
	}()

	handler(&resp)
}

func (c *Client) notifyDecodeFailure(resp Response, err error) {
	c.logger.Error().
		Err(err).
		Int("status_code", resp.StatusCode).
		Str("content_type", resp.ContentType).
		Msg("The response body could not be decoded into the requested type")

	c.notify(resp)
}
