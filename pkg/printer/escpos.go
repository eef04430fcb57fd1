package printer

import (
	"bytes"
	"strings"
)

const (
	esc = 0x1B
	gs  = 0x1D
	lf  = 0x0A
)

// Alignment values for ESC a.
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Document builds an ESC/POS byte stream. Width is in characters:
// 32 for 58mm paper, 48 for 80mm paper.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument starts a document with the printer initialised.
func NewDocument(width int) *Document {
	if width <= 0 {
		width = 32
	}
	d := &Document{width: width}
	d.buf.Write([]byte{esc, '@'})
	return d
}

func (d *Document) Align(a int) *Document {
	d.buf.Write([]byte{esc, 'a', byte(a)})
	return d
}

func (d *Document) Bold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{esc, 'E', b})
	return d
}

// Large toggles double width and height.
func (d *Document) Large(on bool) *Document {
	size := byte(0x00)
	if on {
		size = 0x11
	}
	d.buf.Write([]byte{gs, '!', size})
	return d
}

func (d *Document) Line(s string) *Document {
	d.buf.WriteString(s)
	d.buf.WriteByte(lf)
	return d
}

func (d *Document) Rule() *Document {
	return d.Line(strings.Repeat("-", d.width))
}

// Pair prints key left and value right on one line.
func (d *Document) Pair(key, value string) *Document {
	gap := d.width - len(key) - len(value)
	if gap < 1 {
		gap = 1
	}
	return d.Line(key + strings.Repeat(" ", gap) + value)
}

func (d *Document) Feed(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(lf)
	}
	return d
}

// Cut issues a partial paper cut.
func (d *Document) Cut() *Document {
	d.buf.Write([]byte{gs, 'V', 0x01})
	return d
}

func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}
