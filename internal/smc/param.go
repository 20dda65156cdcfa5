package smc

import (
	"encoding/binary"
	"fmt"
)

// Wire geometry of the parameter block.
// These values are defined by the controller driver ABI and MUST NOT change.
const (
	// ParamBlockSize is the size of one encoded ParamBlock.
	ParamBlockSize = 80

	// PayloadSize is the maximum number of value bytes in one exchange.
	PayloadSize = 32
)

// ---- field offsets ----

const (
	offKey       = 0
	offVersion   = 4  // 6 bytes + 2 pad
	offLimitData = 12 // 16 bytes
	offKeyInfo   = 28 // 9 bytes + 3 pad
	offResult    = 40
	offStatus    = 41
	offData8     = 42 // + 1 pad
	offData32    = 44
	offBytes     = 48
)

// Version is the controller firmware version block.
type Version struct {
	Major    uint8
	Minor    uint8
	Build    uint8
	Reserved uint8
	Release  uint16
}

// LimitData is the power-limit block. It is carried verbatim.
type LimitData struct {
	Version uint16
	Length  uint16
	CPU     uint32
	GPU     uint32
	Mem     uint32
}

// KeyInfo describes the current value of a key.
type KeyInfo struct {
	DataSize   uint32
	DataType   uint32
	Attributes uint8
}

// TypeName renders DataType as its FourCC tag, e.g. "ui32".
func (ki KeyInfo) TypeName() string { return fourCC(ki.DataType) }

// ParamBlock is the fixed-size structure exchanged on every call.
type ParamBlock struct {
	Key       Key
	Version   Version
	LimitData LimitData
	KeyInfo   KeyInfo
	Result    uint8
	Status    uint8
	Data8     uint8
	Data32    uint32
	Bytes     [PayloadSize]byte
}

// SubOp returns Data8 as the sub-operation selector.
func (p *ParamBlock) SubOp() Selector { return Selector(p.Data8) }

// MarshalBinary encodes p in the driver ABI layout (native little-endian).
func (p *ParamBlock) MarshalBinary() ([]byte, error) {
	b := make([]byte, ParamBlockSize)
	le := binary.LittleEndian

	le.PutUint32(b[offKey:], uint32(p.Key))

	b[offVersion+0] = p.Version.Major
	b[offVersion+1] = p.Version.Minor
	b[offVersion+2] = p.Version.Build
	b[offVersion+3] = p.Version.Reserved
	le.PutUint16(b[offVersion+4:], p.Version.Release)

	le.PutUint16(b[offLimitData+0:], p.LimitData.Version)
	le.PutUint16(b[offLimitData+2:], p.LimitData.Length)
	le.PutUint32(b[offLimitData+4:], p.LimitData.CPU)
	le.PutUint32(b[offLimitData+8:], p.LimitData.GPU)
	le.PutUint32(b[offLimitData+12:], p.LimitData.Mem)

	le.PutUint32(b[offKeyInfo+0:], p.KeyInfo.DataSize)
	le.PutUint32(b[offKeyInfo+4:], p.KeyInfo.DataType)
	b[offKeyInfo+8] = p.KeyInfo.Attributes

	b[offResult] = p.Result
	b[offStatus] = p.Status
	b[offData8] = p.Data8
	le.PutUint32(b[offData32:], p.Data32)

	copy(b[offBytes:], p.Bytes[:])
	return b, nil
}

// UnmarshalBinary decodes exactly ParamBlockSize bytes into p.
func (p *ParamBlock) UnmarshalBinary(b []byte) error {
	if len(b) != ParamBlockSize {
		return fmt.Errorf("smc: param block is %d bytes, want %d", len(b), ParamBlockSize)
	}
	le := binary.LittleEndian

	p.Key = Key(le.Uint32(b[offKey:]))

	p.Version = Version{
		Major:    b[offVersion+0],
		Minor:    b[offVersion+1],
		Build:    b[offVersion+2],
		Reserved: b[offVersion+3],
		Release:  le.Uint16(b[offVersion+4:]),
	}

	p.LimitData = LimitData{
		Version: le.Uint16(b[offLimitData+0:]),
		Length:  le.Uint16(b[offLimitData+2:]),
		CPU:     le.Uint32(b[offLimitData+4:]),
		GPU:     le.Uint32(b[offLimitData+8:]),
		Mem:     le.Uint32(b[offLimitData+12:]),
	}

	p.KeyInfo = KeyInfo{
		DataSize:   le.Uint32(b[offKeyInfo+0:]),
		DataType:   le.Uint32(b[offKeyInfo+4:]),
		Attributes: b[offKeyInfo+8],
	}

	p.Result = b[offResult]
	p.Status = b[offStatus]
	p.Data8 = b[offData8]
	p.Data32 = le.Uint32(b[offData32:])

	copy(p.Bytes[:], b[offBytes:])
	return nil
}
