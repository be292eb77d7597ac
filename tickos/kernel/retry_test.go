package kernel

import (
	"testing"
	"time"
)

func TestMessagePayloadClampsLen(t *testing.T) {
	msg := Message{Len: MaxMessageBytes + 10}
	if got := len(msg.Payload()); got != MaxMessageBytes {
		t.Fatalf("len(Payload()) = %d, want %d", got, MaxMessageBytes)
	}
}

// fullEndpoint returns a task context and a send cap whose queue is full.
func fullEndpoint(t *testing.T) (*Kernel, *Context, Capability, Capability) {
	t.Helper()
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	ctx := NewContext(k)
	to := ep.Restrict(RightSend)
	for i := 0; i < mailboxSlots; i++ {
		if res := ctx.SendToCapResult(to, 1, []byte{byte(i)}, Capability{}); res != SendOK {
			t.Fatalf("fill send %d = %s, want ok", i, res)
		}
	}
	return k, ctx, to, ep.Restrict(RightRecv)
}

func tickUntil(k *Kernel, stop <-chan struct{}) {
	for seq := uint64(1); ; seq++ {
		select {
		case <-stop:
			return
		default:
		}
		k.TickTo(seq)
		time.Sleep(time.Millisecond)
	}
}

func TestSendToCapRetry(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		drain bool
		want  SendResult
	}{
		{"zero limit fails at once", 0, false, SendErrQueueFull},
		{"gives up after limit", 1, false, SendErrQueueFull},
		{"succeeds after drain", 5, true, SendOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, ctx, to, recv := fullEndpoint(t)
			if tt.drain {
				ch, ok := ctx.RecvChan(recv)
				if !ok {
					t.Fatal("RecvChan() ok = false")
				}
				<-ch
			}

			stop := make(chan struct{})
			defer close(stop)
			go tickUntil(k, stop)

			done := make(chan SendResult, 1)
			go func() { done <- ctx.SendToCapRetry(to, 1, []byte("late"), Capability{}, tt.limit) }()

			select {
			case res := <-done:
				if res != tt.want {
					t.Fatalf("SendToCapRetry() = %s, want %s", res, tt.want)
				}
			case <-time.After(time.Second):
				t.Fatal("SendToCapRetry() did not return")
			}
		})
	}
}
