package appsync

import (
	"io"
	"strings"
	"testing"
	"time"

	syncclient "barface/tickos/client/appsync"
	"barface/tickos/dict"
	"barface/tickos/kernel"
	"barface/tickos/proto"
)

type pipeSerial struct {
	*io.PipeReader
	io.Writer
}

type harness struct {
	ctx   *kernel.Context
	link  *io.PipeWriter
	reply kernel.Capability
	ch    <-chan kernel.Message
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	pr, pw := io.Pipe()
	k.AddTask(New(pipeSerial{PipeReader: pr, Writer: io.Discard}, ep.Restrict(kernel.RightRecv), kernel.Capability{}))

	ctx := kernel.NewContext(k)
	reply := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	ch, _ := ctx.RecvChan(reply)
	svc := ep.Restrict(kernel.RightSend)
	t.Cleanup(func() {
		ctx.SendToCapResult(svc, uint16(proto.MsgAppShutdown), nil, kernel.Capability{})
		_ = pw.Close()
	})

	if err := syncclient.Init(ctx, svc, reply, []dict.Tuple{dict.CString(0, "")}); err != nil {
		t.Fatalf("Init() err = %v", err)
	}
	h := &harness{ctx: ctx, link: pw, reply: reply, ch: ch}
	c := h.changed(t)
	if c.New.Key != 0 || c.New.Str() != "" {
		t.Fatalf("initial changed = %+v, want key 0 empty", c.New)
	}
	return h
}

func (h *harness) recv(t *testing.T) kernel.Message {
	t.Helper()
	select {
	case msg := <-h.ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for sync message")
		return kernel.Message{}
	}
}

func (h *harness) changed(t *testing.T) syncclient.Changed {
	t.Helper()
	msg := h.recv(t)
	c, ok := syncclient.DecodeChanged(msg)
	if !ok {
		t.Fatalf("got %s, want sync_changed", proto.Kind(msg.Kind))
	}
	return c
}

func (h *harness) syncError(t *testing.T) syncclient.SyncError {
	t.Helper()
	msg := h.recv(t)
	e, ok := syncclient.DecodeError(msg)
	if !ok {
		t.Fatalf("got %s, want sync_error", proto.Kind(msg.Kind))
	}
	return e
}

func (h *harness) send(t *testing.T, tuples ...dict.Tuple) {
	t.Helper()
	if err := dict.WriteFrame(h.link, tuples); err != nil {
		t.Fatalf("WriteFrame() err = %v", err)
	}
}

func TestUpdateReportsNewAndOld(t *testing.T) {
	h := newHarness(t)
	h.send(t, dict.CString(0, "Hello"))
	c := h.changed(t)
	if c.New.Str() != "Hello" || c.Old.Str() != "" {
		t.Fatalf("changed = %q (old %q), want Hello (old empty)", c.New.Str(), c.Old.Str())
	}

	h.send(t, dict.CString(0, "World"))
	c = h.changed(t)
	if c.New.Str() != "World" || c.Old.Str() != "Hello" {
		t.Fatalf("changed = %q (old %q), want World (old Hello)", c.New.Str(), c.Old.Str())
	}
}

func TestUnknownKeysIgnored(t *testing.T) {
	h := newHarness(t)
	h.send(t, dict.CString(7, "ignored"))
	h.send(t, dict.CString(7, "still"), dict.CString(0, "kept"))
	c := h.changed(t)
	if c.New.Key != 0 || c.New.Str() != "kept" {
		t.Fatalf("changed = key %d %q, want key 0 kept", c.New.Key, c.New.Str())
	}
}

func TestValueLimit(t *testing.T) {
	h := newHarness(t)

	h.send(t, dict.CString(0, strings.Repeat("x", BufferSize)))
	e := h.syncError(t)
	if e.Dict != proto.DictNotEnoughStorage {
		t.Fatalf("error dict = %s, want %s", e.Dict, proto.DictNotEnoughStorage)
	}

	h.send(t, dict.Tuple{Key: 0, Type: dict.TypeCString, Value: []byte(strings.Repeat("z", BufferSize))})
	e = h.syncError(t)
	if e.Dict != proto.DictNotEnoughStorage {
		t.Fatalf("unterminated value: error dict = %s, want %s", e.Dict, proto.DictNotEnoughStorage)
	}

	max := strings.Repeat("y", BufferSize-1)
	h.send(t, dict.CString(0, max))
	c := h.changed(t)
	if c.New.Str() != max {
		t.Fatalf("changed = %q, want %q", c.New.Str(), max)
	}
	if c.Old.Str() != "" {
		t.Fatalf("old = %q, want empty after rejected update", c.Old.Str())
	}
}

func TestMalformedFrameReported(t *testing.T) {
	h := newHarness(t)
	if _, err := h.link.Write([]byte{3, 0, 1, 2, 3}); err != nil {
		t.Fatalf("Write() err = %v", err)
	}
	e := h.syncError(t)
	if e.Link != proto.SyncErrMalformed {
		t.Fatalf("error link = %s, want %s", e.Link, proto.SyncErrMalformed)
	}

	h.send(t, dict.CString(0, "after"))
	if c := h.changed(t); c.New.Str() != "after" {
		t.Fatalf("changed = %q, want after", c.New.Str())
	}
}

func TestLinkClosedReported(t *testing.T) {
	h := newHarness(t)
	_ = h.link.Close()
	e := h.syncError(t)
	if e.Link != proto.SyncErrLinkClosed {
		t.Fatalf("error link = %s, want %s", e.Link, proto.SyncErrLinkClosed)
	}
}

func TestInitReportsEveryTupleInOrder(t *testing.T) {
	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	k.AddTask(New(nil, ep.Restrict(kernel.RightRecv), kernel.Capability{}))
	ctx := kernel.NewContext(k)
	svc := ep.Restrict(kernel.RightSend)
	defer ctx.SendToCapResult(svc, uint16(proto.MsgAppShutdown), nil, kernel.Capability{})

	reply := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	if err := syncclient.Init(ctx, svc, reply, []dict.Tuple{dict.CString(0, "a"), dict.Uint32(1, 9)}); err != nil {
		t.Fatalf("Init() err = %v", err)
	}
	ch, _ := ctx.RecvChan(reply)
	for i, want := range []uint32{0, 1} {
		select {
		case msg := <-ch:
			c, ok := syncclient.DecodeChanged(msg)
			if !ok || c.New.Key != want {
				t.Fatalf("initial[%d] = %+v ok=%v, want key %d", i, c.New, ok, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for initial[%d]", i)
		}
	}
	if err := syncclient.Deinit(ctx, svc, reply); err != nil {
		t.Fatalf("Deinit() err = %v", err)
	}
}
