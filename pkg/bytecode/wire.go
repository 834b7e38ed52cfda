package bytecode

import (
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// WireVersion is the current wire format version for compiled programs.
// Increment when making incompatible changes to the format.
const WireVersion uint16 = 1

// WireMagic identifies compiled program files: "VVMC" (VVM Compiled).
var WireMagic = []byte{'V', 'V', 'M', 'C'}

// cborEncMode uses canonical encoding for deterministic output.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalProgram serializes a Program for storage or transport:
//
//	[magic:4] [version:2] [cbor payload:...]
func MarshalProgram(p *Program) ([]byte, error) {
	payload, err := cborEncMode.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("bytecode: marshal program: %w", err)
	}

	buf := make([]byte, 0, 6+len(payload))
	buf = append(buf, WireMagic...)
	buf = binary.BigEndian.AppendUint16(buf, WireVersion)
	buf = append(buf, payload...)
	return buf, nil
}

// UnmarshalProgram deserializes a Program from wire bytes.
func UnmarshalProgram(data []byte) (*Program, error) {
	if len(data) < 6 {
		return nil, fmt.Errorf("bytecode: wire data too short: need at least 6 bytes, got %d", len(data))
	}
	if string(data[0:4]) != string(WireMagic) {
		return nil, fmt.Errorf("bytecode: invalid magic: expected %q, got %q", WireMagic, data[0:4])
	}
	version := binary.BigEndian.Uint16(data[4:6])
	if version > WireVersion {
		return nil, fmt.Errorf("bytecode: wire version %d is newer than supported version %d", version, WireVersion)
	}

	var p Program
	if err := cbor.Unmarshal(data[6:], &p); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal program: %w", err)
	}
	if p.Constants == nil {
		p.Constants = make(map[Operand]Value)
	}
	if p.Types == nil {
		p.Types = make(map[TypeID][]NamedType)
	}
	return &p, nil
}
