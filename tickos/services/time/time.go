package timesvc

import (
	"time"

	"barface/hal"
	"barface/tickos/kernel"
	"barface/tickos/proto"
)

const maxSubscribers = 8

type subscriber struct {
	inUse bool
	units proto.TimeUnits
	reply kernel.Capability
}

// Service turns the kernel's millisecond ticks into calendar tick events.
//
// Subscribers send MsgTimeSubscribe with a unit mask and a reply capability;
// whenever one of those units changes on the wall clock they get MsgTimeTick.
type Service struct {
	clock hal.Clock
	ep    kernel.Capability

	last time.Time
	subs [maxSubscribers]subscriber
}

func New(clock hal.Clock, ep kernel.Capability) *Service {
	return &Service{clock: clock, ep: ep}
}

func (s *Service) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(s.ep)
	if !ok || s.clock == nil {
		return
	}

	done := make(chan struct{})
	defer close(done)
	ticks := ctx.TickChan(done, 8)

	s.last = s.clock.Now()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			switch proto.Kind(msg.Kind) {
			case proto.MsgAppShutdown:
				return
			case proto.MsgTimeSubscribe:
				s.handleSubscribe(ctx, msg)
			}

		case <-ticks:
			s.poll(ctx)
		}
	}
}

func (s *Service) handleSubscribe(ctx *kernel.Context, msg kernel.Message) {
	if !msg.Cap.Valid() {
		return
	}
	units, ok := proto.DecodeTimeSubscribePayload(msg.Payload())
	if !ok {
		payload := proto.ErrorPayload(proto.ErrBadMessage, proto.MsgTimeSubscribe, nil)
		_ = ctx.SendToCapResult(msg.Cap, uint16(proto.MsgError), payload, kernel.Capability{})
		return
	}

	free := -1
	for i := range s.subs {
		sub := &s.subs[i]
		if !sub.inUse {
			if free < 0 {
				free = i
			}
			continue
		}
		if sub.reply != msg.Cap {
			continue
		}
		if units == 0 {
			*sub = subscriber{}
		} else {
			sub.units = units
		}
		return
	}
	if units == 0 {
		return
	}
	if free < 0 {
		payload := proto.ErrorPayload(proto.ErrOverflow, proto.MsgTimeSubscribe, nil)
		_ = ctx.SendToCapResult(msg.Cap, uint16(proto.MsgError), payload, kernel.Capability{})
		return
	}
	s.subs[free] = subscriber{inUse: true, units: units, reply: msg.Cap}
}

func (s *Service) poll(ctx *kernel.Context) {
	now := s.clock.Now()
	changed := proto.ChangedUnits(s.last, now)
	if changed == 0 {
		return
	}
	s.last = now

	payload := proto.TimeTickPayload(proto.TickTimeOf(now, changed))
	for i := range s.subs {
		sub := &s.subs[i]
		if !sub.inUse || sub.units&changed == 0 {
			continue
		}
		// A subscriber that is behind misses this tick; the next one carries the full time.
		_ = ctx.SendToCapResult(sub.reply, uint16(proto.MsgTimeTick), payload, kernel.Capability{})
	}
}
