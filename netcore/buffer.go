package netcore

// FrameBufferSize bounds the largest frame the stack will receive or build.
const FrameBufferSize = 2000

// FramePad is the number of unused bytes ahead of the frame in a
// FrameBuffer. Adapters must place received frames at Frame(), not at the
// start of the backing array: with the 14-byte Ethernet, 20-byte IPv4 and
// 8-byte UDP headers, the pad puts the command tag on a 4-byte boundary and
// the data following the command's address and size words on an 8-byte
// boundary.
const FramePad = 2

// FrameBuffer is a receive or transmit buffer. One of each is allocated at
// startup and reused for every frame.
type FrameBuffer struct {
	_   [0]uint64
	raw [FramePad + FrameBufferSize]byte
}

// Frame returns the usable region of the buffer, starting after the pad.
func (b *FrameBuffer) Frame() []byte {
	return b.raw[FramePad:]
}
