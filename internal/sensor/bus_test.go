package sensor

import (
	"bytes"
	"errors"
)

type txCall struct {
	addr uint16
	w    []byte
	rLen int
}

// fakeBus records every transaction and answers reads from a per-register queue.
type fakeBus struct {
	calls   []txCall
	replies map[byte][][]byte
	failOn  map[byte]error
}

func newFakeBus() *fakeBus {
	return &fakeBus{replies: map[byte][][]byte{}, failOn: map[byte]error{}}
}

func (b *fakeBus) reply(reg byte, data ...[]byte) {
	b.replies[reg] = append(b.replies[reg], data...)
}

func (b *fakeBus) Tx(addr uint16, w, r []byte) error {
	b.calls = append(b.calls, txCall{addr: addr, w: append([]byte(nil), w...), rLen: len(r)})
	if len(w) == 0 {
		return errors.New("empty write")
	}
	if err := b.failOn[w[0]]; err != nil {
		return err
	}
	if len(r) == 0 {
		return nil
	}
	q := b.replies[w[0]]
	if len(q) == 0 {
		return errors.New("nack")
	}
	copy(r, q[0])
	if len(q) > 1 {
		b.replies[w[0]] = q[1:]
	}
	return nil
}

func (b *fakeBus) ReadRegister(addr uint8, reg uint8, buf []byte) error {
	return b.Tx(uint16(addr), []byte{reg}, buf)
}

func (b *fakeBus) WriteRegister(addr uint8, reg uint8, buf []byte) error {
	return b.Tx(uint16(addr), append([]byte{reg}, buf...), nil)
}

func (b *fakeBus) wrote(addr uint16, w ...byte) bool {
	for _, c := range b.calls {
		if c.addr == addr && c.rLen == 0 && bytes.Equal(c.w, w) {
			return true
		}
	}
	return false
}
