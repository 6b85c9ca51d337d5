package io

import (
	"encoding/binary"
	"io"
)

// IMAGE_WORDS is the largest image that fits the machine's address space.
const IMAGE_WORDS = 0x10000

// Image is a memory image: Data[n] is the word at address n.
// On disk it is stored as a sequence of big-endian 16-bit words.
type Image struct {
	Data []uint16
}

// WriteTo writes the image as big-endian words.
func (img *Image) WriteTo(w io.Writer) (n int64, err error) {
	buf := make([]byte, 2*len(img.Data))
	for i, word := range img.Data {
		binary.BigEndian.PutUint16(buf[2*i:], word)
	}

	written, err := w.Write(buf)
	n = int64(written)
	return
}

// ReadFrom replaces the image with the words read from r until EOF.
func (img *Image) ReadFrom(r io.Reader) (n int64, err error) {
	buf, err := io.ReadAll(r)
	n = int64(len(buf))
	if err != nil {
		return
	}

	if len(buf)%2 != 0 {
		err = ErrImageShort
		return
	}

	if len(buf)/2 > IMAGE_WORDS {
		err = ErrImageLarge
		return
	}

	img.Data = make([]uint16, len(buf)/2)
	for i := range img.Data {
		img.Data[i] = binary.BigEndian.Uint16(buf[2*i:])
	}

	return
}
