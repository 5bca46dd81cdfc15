package service

import (
	"encoding/binary"
	"errors"
	"io"
)

// Bridge frames are a 4-byte big-endian payload length followed by the
// payload. The cap bounds memory against a corrupt or hostile length field.
const MaxFramePayload = 8 * 1024 * 1024

var (
	ErrFrameTooLarge = errors.New("service: frame payload too large")
	ErrShortFrame    = errors.New("service: short frame")
)

func readFrame(r io.Reader) ([]byte, error) {
	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrShortFrame
		}
		return nil, err
	}

	n := binary.BigEndian.Uint32(head[:])
	if n > MaxFramePayload {
		return nil, ErrFrameTooLarge
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrShortFrame
		}
		return nil, err
	}
	return payload, nil
}

func writeFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxFramePayload {
		return ErrFrameTooLarge
	}

	var head [4]byte
	binary.BigEndian.PutUint32(head[:], uint32(len(payload)))
	if _, err := w.Write(head[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
