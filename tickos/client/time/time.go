package time

import (
	"fmt"

	"barface/tickos/kernel"
	"barface/tickos/proto"
)

// Subscribe asks the time service to send MsgTimeTick to reply whenever one of
// units changes. Subscribing again with the same reply replaces the mask.
func Subscribe(ctx *kernel.Context, timeCap, reply kernel.Capability, units proto.TimeUnits) error {
	if ctx == nil {
		return fmt.Errorf("time subscribe: nil context")
	}
	if units == 0 {
		return fmt.Errorf("time subscribe: empty unit mask")
	}
	return send(ctx, timeCap, reply, units)
}

// Unsubscribe stops tick delivery to reply.
func Unsubscribe(ctx *kernel.Context, timeCap, reply kernel.Capability) error {
	if ctx == nil {
		return fmt.Errorf("time unsubscribe: nil context")
	}
	return send(ctx, timeCap, reply, 0)
}

func send(ctx *kernel.Context, timeCap, reply kernel.Capability, units proto.TimeUnits) error {
	replySend := reply.Restrict(kernel.RightSend)
	if !replySend.Valid() {
		return fmt.Errorf("time subscribe: invalid reply capability")
	}
	res := ctx.SendToCapRetry(timeCap, uint16(proto.MsgTimeSubscribe), proto.TimeSubscribePayload(units), replySend, 8)
	if res != kernel.SendOK {
		return fmt.Errorf("time subscribe send: %s", res)
	}
	return nil
}

// DecodeTick extracts the broken-down time from a MsgTimeTick message.
func DecodeTick(msg kernel.Message) (proto.TickTime, bool) {
	if proto.Kind(msg.Kind) != proto.MsgTimeTick {
		return proto.TickTime{}, false
	}
	return proto.DecodeTimeTickPayload(msg.Payload())
}
