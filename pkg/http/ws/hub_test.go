package ws

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestConnectionSendAfterClose(t *testing.T) {
	c := &Connection{sendCh: make(chan Message, 1), logger: zerolog.Nop()}

	assert.NoError(t, c.Send(Message{Type: TypeQuestion}))
	assert.ErrorIs(t, c.Send(Message{Type: TypeQuestion}), ErrSendQueueFull)

	c.Close()
	c.Close()
	assert.ErrorIs(t, c.Send(Message{Type: TypeQuestion}), ErrConnectionClosed)
}

func TestHubRegisterUnregister(t *testing.T) {
	var counts []int
	h := NewHub(zerolog.Nop(), func(active int) { counts = append(counts, active) })

	a := h.Register(&Connection{sendCh: make(chan Message, 1)})
	b := h.Register(&Connection{sendCh: make(chan Message, 1)})
	assert.Equal(t, 2, h.Count())

	h.Unregister(a)
	h.Unregister(a)
	assert.Equal(t, 1, h.Count())

	h.CloseAll()
	assert.Equal(t, 0, h.Count())
	h.Unregister(b)

	assert.Equal(t, []int{1, 2, 1, 0}, counts)
}

func TestHubClosesLateRegistrations(t *testing.T) {
	h := NewHub(zerolog.Nop(), nil)
	early := &Connection{sendCh: make(chan Message, 1), logger: zerolog.Nop()}
	h.Register(early)

	h.CloseAll()
	assert.ErrorIs(t, early.Send(Message{Type: TypeQuestion}), ErrConnectionClosed)

	late := &Connection{sendCh: make(chan Message, 1), logger: zerolog.Nop()}
	id := h.Register(late)
	assert.Equal(t, 0, h.Count())
	assert.ErrorIs(t, late.Send(Message{Type: TypeQuestion}), ErrConnectionClosed)

	h.Unregister(id)
	assert.Equal(t, 0, h.Count())
}

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage(TypeQuizComplete, QuizCompletePayload{Score: 2, Served: []int64{4, 9}})
	assert.NoError(t, err)
	assert.Equal(t, TypeQuizComplete, msg.Type)
	assert.JSONEq(t, `{"score":2,"served":[4,9]}`, string(msg.Payload))
}
