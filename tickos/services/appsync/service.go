package appsync

import (
	"errors"
	"io"

	"barface/hal"
	logclient "barface/tickos/client/logger"
	"barface/tickos/dict"
	"barface/tickos/kernel"
	"barface/tickos/proto"
)

// BufferSize is the storage reserved per synced value, terminator included.
const BufferSize = proto.SyncValueBytes

type frame struct {
	tuples []dict.Tuple
	err    error
}

// Service keeps a small key/value dictionary in step with the companion app.
//
// A client installs its keys and initial values with MsgSyncInit. Frames read
// from the serial link update those keys only; each update is reported to the
// client as MsgSyncChanged and every failure as MsgSyncError.
type Service struct {
	link   hal.Serial
	ep     kernel.Capability
	logCap kernel.Capability

	sub    kernel.Capability
	values []dict.Tuple
	closed bool
}

func New(link hal.Serial, ep kernel.Capability, logCap kernel.Capability) *Service {
	return &Service{link: link, ep: ep, logCap: logCap}
}

func (s *Service) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(s.ep)
	if !ok {
		return
	}

	done := make(chan struct{})
	defer close(done)

	var frames <-chan frame
	if s.link != nil {
		frames = readFrames(s.link, done)
	}

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			switch proto.Kind(msg.Kind) {
			case proto.MsgAppShutdown:
				return
			case proto.MsgSyncInit:
				s.handleInit(ctx, msg)
			case proto.MsgSyncDeinit:
				if msg.Cap == s.sub {
					s.sub = kernel.Capability{}
					s.values = nil
					logclient.Debugf(ctx, s.logCap, "appsync: subscriber released")
				}
			}

		case fr, ok := <-frames:
			if !ok {
				frames = nil
				continue
			}
			s.handleFrame(ctx, fr)
		}
	}
}

// readFrames decodes frames on its own goroutine because the link read blocks.
func readFrames(r io.Reader, done <-chan struct{}) <-chan frame {
	out := make(chan frame, 4)
	go func() {
		defer close(out)
		fr := dict.NewFrameReader(r)
		for {
			tuples, err := fr.Next()
			select {
			case out <- frame{tuples: tuples, err: err}:
			case <-done:
				return
			}
			if err != nil && !errors.Is(err, dict.ErrMalformed) && !errors.Is(err, dict.ErrFrameTooLarge) {
				return
			}
		}
	}()
	return out
}

func (s *Service) handleInit(ctx *kernel.Context, msg kernel.Message) {
	if !msg.Cap.Valid() {
		return
	}
	initial, ok := proto.DecodeSyncInitPayload(msg.Payload())
	if !ok {
		s.notifyError(ctx, msg.Cap, proto.DictInvalidArgs, proto.SyncOK)
		return
	}
	for _, t := range initial {
		if !fits(t) {
			s.notifyError(ctx, msg.Cap, proto.DictNotEnoughStorage, proto.SyncOK)
			return
		}
	}

	s.sub = msg.Cap
	s.values = s.values[:0]
	for _, t := range initial {
		s.values = append(s.values, t.Clone())
	}
	for _, t := range s.values {
		s.notifyChanged(ctx, t, dict.Tuple{Key: t.Key, Type: t.Type})
	}
}

func (s *Service) handleFrame(ctx *kernel.Context, fr frame) {
	if fr.err != nil {
		res := proto.SyncErrMalformed
		switch {
		case errors.Is(fr.err, dict.ErrFrameTooLarge):
			res = proto.SyncErrFrameTooLarge
		case errors.Is(fr.err, dict.ErrMalformed):
		default:
			if s.closed {
				return
			}
			s.closed = true
			res = proto.SyncErrLinkClosed
		}
		logclient.Debugf(ctx, s.logCap, "appsync: link error: %v", fr.err)
		if s.sub.Valid() {
			s.notifyError(ctx, s.sub, proto.DictOK, res)
		}
		return
	}

	if !s.sub.Valid() {
		logclient.Debugf(ctx, s.logCap, "appsync: dropped %d tuples, no subscriber", len(fr.tuples))
		return
	}

	// A message that does not fit is rejected whole.
	for _, t := range fr.tuples {
		if s.index(t.Key) >= 0 && !fits(t) {
			s.notifyError(ctx, s.sub, proto.DictNotEnoughStorage, proto.SyncOK)
			return
		}
	}

	for _, t := range fr.tuples {
		i := s.index(t.Key)
		if i < 0 {
			continue
		}
		old := s.values[i]
		s.values[i] = t.Clone()
		s.notifyChanged(ctx, s.values[i], old)
	}
}

// fits reports whether t can be stored in a BufferSize value slot. C strings
// need room for their terminator even when the sender left it off.
func fits(t dict.Tuple) bool {
	if len(t.Value) > BufferSize {
		return false
	}
	return t.Type != dict.TypeCString || len(t.Str()) < BufferSize
}

func (s *Service) index(key uint32) int {
	for i := range s.values {
		if s.values[i].Key == key {
			return i
		}
	}
	return -1
}

func (s *Service) notifyChanged(ctx *kernel.Context, newT, oldT dict.Tuple) {
	res := ctx.SendToCapResult(s.sub, uint16(proto.MsgSyncChanged), proto.SyncChangedPayload(newT, oldT), kernel.Capability{})
	if res != kernel.SendOK {
		logclient.Debugf(ctx, s.logCap, "appsync: changed key=%d: %s", newT.Key, res)
	}
}

func (s *Service) notifyError(ctx *kernel.Context, to kernel.Capability, dr proto.DictResult, sr proto.SyncResult) {
	_ = ctx.SendToCapResult(to, uint16(proto.MsgSyncError), proto.SyncErrorPayload(dr, sr), kernel.Capability{})
}
