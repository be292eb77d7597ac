package logger

import (
	"barface/hal"
	"barface/tickos/kernel"
	"barface/tickos/proto"
)

type Service struct {
	log   hal.Logger
	ep    kernel.Capability
	debug bool
}

// New returns a logger service that reads MsgLogLine from ep.
// Debug lines are written only when debug is set.
func New(log hal.Logger, ep kernel.Capability, debug bool) *Service {
	return &Service{log: log, ep: ep, debug: debug}
}

func (s *Service) Run(ctx *kernel.Context) {
	for {
		msg, ok := ctx.Recv(s.ep)
		if !ok {
			return
		}
		switch proto.Kind(msg.Kind) {
		case proto.MsgAppShutdown:
			return
		case proto.MsgLogLine:
			s.write(msg.Payload())
		}
	}
}

func (s *Service) write(payload []byte) {
	if s.log == nil {
		return
	}
	level, line, ok := proto.DecodeLogLinePayload(payload)
	if !ok {
		return
	}
	switch level {
	case proto.LogDebug:
		if !s.debug {
			return
		}
		s.log.WriteLineString("debug: " + string(line))
	case proto.LogError:
		s.log.WriteLineString("error: " + string(line))
	default:
		s.log.WriteLineBytes(line)
	}
}
