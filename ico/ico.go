// Package ico assembles multi-resolution ICO containers from
// PNG-compressed icon variants.
package ico

import (
	"bytes"
	"encoding/binary"
	"image/png"

	"github.com/javanhut/IconForge/errors"
)

// Entry is one icon to multiplex into the container. Data holds a
// complete PNG payload whose decoded dimensions must match Width and
// Height exactly.
type Entry struct {
	Width  int
	Height int
	Data   []byte
}

const (
	headerSize = 6
	entrySize  = 16
	maxDim     = 256
	maxEntries = 0xFFFF
)

// icondir is the 6-byte container header.
type icondir struct {
	Reserved uint16 // always 0
	Type     uint16 // 1 = icon
	Count    uint16
}

// icondirentry is one 16-byte directory record.
type icondirentry struct {
	Width       uint8 // 0 encodes 256
	Height      uint8 // 0 encodes 256
	ColorCount  uint8 // 0 for 32-bit images
	Reserved    uint8
	Planes      uint16 // 1
	BitCount    uint16 // 32
	BytesInRes  uint32
	ImageOffset uint32 // absolute, from start of container
}

// Encode builds the binary container. Entry order is preserved exactly:
// the i-th entry occupies the i-th directory slot and its payload is
// the i-th payload block. Identical input always yields identical
// bytes.
func Encode(entries []Entry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, errors.Encode("ico.Encode", "no entries")
	}
	if len(entries) > maxEntries {
		return nil, errors.Newf(errors.KindEncode, "ico.Encode",
			"%d entries exceed the uint16 directory count", len(entries))
	}
	for i, e := range entries {
		if err := checkEntry(i, e); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, icondir{
		Type:  1,
		Count: uint16(len(entries)),
	})

	offset := uint32(headerSize + entrySize*len(entries))
	for _, e := range entries {
		binary.Write(&buf, binary.LittleEndian, icondirentry{
			Width:       dimByte(e.Width),
			Height:      dimByte(e.Height),
			Planes:      1,
			BitCount:    32,
			BytesInRes:  uint32(len(e.Data)),
			ImageOffset: offset,
		})
		offset += uint32(len(e.Data))
	}

	for _, e := range entries {
		buf.Write(e.Data)
	}

	return buf.Bytes(), nil
}

// checkEntry verifies the container invariants. A failure here means
// the caller assembled the batch wrong, not that the user supplied bad
// input.
func checkEntry(i int, e Entry) error {
	if e.Width < 1 || e.Width > maxDim || e.Height < 1 || e.Height > maxDim {
		return errors.Newf(errors.KindEncode, "ico.Encode",
			"entry %d dimensions %dx%d outside [1,%d]", i, e.Width, e.Height, maxDim)
	}
	if len(e.Data) == 0 {
		return errors.Newf(errors.KindEncode, "ico.Encode", "entry %d has no payload", i)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(e.Data))
	if err != nil {
		return errors.Wrap(errors.KindEncode, "ico.Encode",
			"entry payload is not a png", err)
	}
	if cfg.Width != e.Width || cfg.Height != e.Height {
		return errors.Newf(errors.KindEncode, "ico.Encode",
			"entry %d declares %dx%d but payload is %dx%d",
			i, e.Width, e.Height, cfg.Width, cfg.Height)
	}
	return nil
}

// dimByte encodes a dimension for the directory, where 0 means 256.
func dimByte(d int) uint8 {
	if d >= maxDim {
		return 0
	}
	return uint8(d)
}
