package appsync

import (
	"fmt"

	"barface/tickos/dict"
	"barface/tickos/kernel"
	"barface/tickos/proto"
)

// Init installs the initial dictionary with the sync service. Every initial
// tuple comes back to reply as a MsgSyncChanged before any link update does.
func Init(ctx *kernel.Context, syncCap, reply kernel.Capability, initial []dict.Tuple) error {
	if ctx == nil {
		return fmt.Errorf("appsync init: nil context")
	}
	payload, err := proto.SyncInitPayload(initial)
	if err != nil {
		return fmt.Errorf("appsync init: %w", err)
	}
	if len(payload) > kernel.MaxMessageBytes {
		return fmt.Errorf("appsync init: %w", dict.ErrNotEnoughStorage)
	}
	return send(ctx, syncCap, reply, proto.MsgSyncInit, payload)
}

// Deinit stops updates to reply.
func Deinit(ctx *kernel.Context, syncCap, reply kernel.Capability) error {
	if ctx == nil {
		return fmt.Errorf("appsync deinit: nil context")
	}
	return send(ctx, syncCap, reply, proto.MsgSyncDeinit, nil)
}

func send(ctx *kernel.Context, syncCap, reply kernel.Capability, kind proto.Kind, payload []byte) error {
	replySend := reply.Restrict(kernel.RightSend)
	if !replySend.Valid() {
		return fmt.Errorf("appsync %s: invalid reply capability", kind)
	}
	res := ctx.SendToCapRetry(syncCap, uint16(kind), payload, replySend, 8)
	if res != kernel.SendOK {
		return fmt.Errorf("appsync %s send: %s", kind, res)
	}
	return nil
}

// Changed is one updated tuple.
type Changed struct {
	New dict.Tuple
	Old dict.Tuple
}

// DecodeChanged extracts the tuple pair from a MsgSyncChanged message.
func DecodeChanged(msg kernel.Message) (Changed, bool) {
	if proto.Kind(msg.Kind) != proto.MsgSyncChanged {
		return Changed{}, false
	}
	newT, oldT, ok := proto.DecodeSyncChangedPayload(msg.Payload())
	if !ok {
		return Changed{}, false
	}
	return Changed{New: newT, Old: oldT}, true
}

// SyncError is a failed update reported by the sync service.
type SyncError struct {
	Dict proto.DictResult
	Link proto.SyncResult
}

func (e SyncError) Error() string {
	return fmt.Sprintf("appsync: dict=%s link=%s", e.Dict, e.Link)
}

// DecodeError extracts the failure from a MsgSyncError message.
func DecodeError(msg kernel.Message) (SyncError, bool) {
	if proto.Kind(msg.Kind) != proto.MsgSyncError {
		return SyncError{}, false
	}
	dr, sr, ok := proto.DecodeSyncErrorPayload(msg.Payload())
	if !ok {
		return SyncError{}, false
	}
	return SyncError{Dict: dr, Link: sr}, true
}
