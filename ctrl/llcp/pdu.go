package llcp

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// PDU is a raw LL data channel PDU holding a control payload.
//
//	+--------+--------+--------+----------------+
//	| header(2)       | opcode | CtrData ...    |
//	+--------+--------+--------+----------------+
//
// The header length octet counts the CtrData following the opcode.
type PDU []byte

func (p PDU) LLID() uint8     { return p[0] & 0x03 }
func (p PDU) Dlen() int       { return int(p[1]) }
func (p PDU) Opcode() uint8   { return p[2] }
func (p PDU) CtrData() []byte { return p[3:] }

// valid reports whether p is a well-formed control PDU.
func (p PDU) valid() bool {
	if len(p) < pduHdrSize+1 {
		return false
	}
	if p.LLID() != llidControl {
		return false
	}
	return p.Dlen() == len(p)-pduHdrSize-1
}

// Message is a typed control PDU payload.
type Message interface {
	Opcode() uint8
	Marshal() []byte
}

// encodePDU writes the control header and m's payload into dst and
// returns the framed PDU. dst must hold ctrlPDUMaxSize octets.
func encodePDU(dst []byte, m Message) PDU {
	payload := m.Marshal()
	dst[0] = llidControl
	dst[1] = uint8(len(payload))
	dst[2] = m.Opcode()
	copy(dst[pduHdrSize+1:], payload)
	return PDU(dst[:pduHdrSize+1+len(payload)])
}

func marshalLE(v interface{}) []byte {
	buf := bytes.NewBuffer(make([]byte, 0))
	binary.Write(buf, binary.LittleEndian, v)
	return buf.Bytes()
}

func unmarshalLE(b []byte, v interface{}) error {
	if err := binary.Read(bytes.NewBuffer(b), binary.LittleEndian, v); err != nil {
		return errors.Wrap(err, "llcp: short control payload")
	}
	return nil
}

// VersionInd implements LL_VERSION_IND (0x0C) [Vol 6, Part B, 2.4.2.13].
type VersionInd struct {
	VersionNumber    uint8
	CompanyID        uint16
	SubVersionNumber uint16
}

func (v VersionInd) Opcode() uint8 { return OpVersionInd }

// Marshal serializes the payload into little-endian binary form.
func (v *VersionInd) Marshal() []byte { return marshalLE(v) }

// Unmarshal de-serializes the binary payload and stores the result in the receiver.
func (v *VersionInd) Unmarshal(b []byte) error { return unmarshalLE(b, v) }

// FeatureReq implements LL_FEATURE_REQ (0x08) [Vol 6, Part B, 2.4.2.10].
type FeatureReq struct {
	FeatureSet uint64
}

func (f FeatureReq) Opcode() uint8 { return OpFeatureReq }

// Marshal serializes the payload into little-endian binary form.
func (f *FeatureReq) Marshal() []byte { return marshalLE(f) }

// Unmarshal de-serializes the binary payload and stores the result in the receiver.
func (f *FeatureReq) Unmarshal(b []byte) error { return unmarshalLE(b, f) }

// FeatureRsp implements LL_FEATURE_RSP (0x09) [Vol 6, Part B, 2.4.2.11].
type FeatureRsp struct {
	FeatureSet uint64
}

func (f FeatureRsp) Opcode() uint8 { return OpFeatureRsp }

// Marshal serializes the payload into little-endian binary form.
func (f *FeatureRsp) Marshal() []byte { return marshalLE(f) }

// Unmarshal de-serializes the binary payload and stores the result in the receiver.
func (f *FeatureRsp) Unmarshal(b []byte) error { return unmarshalLE(b, f) }

// PingReq implements LL_PING_REQ (0x12). No CtrData.
type PingReq struct{}

func (PingReq) Opcode() uint8    { return OpPingReq }
func (*PingReq) Marshal() []byte { return nil }

// PingRsp implements LL_PING_RSP (0x13). No CtrData.
type PingRsp struct{}

func (PingRsp) Opcode() uint8    { return OpPingRsp }
func (*PingRsp) Marshal() []byte { return nil }

// UnknownRsp implements LL_UNKNOWN_RSP (0x07) [Vol 6, Part B, 2.4.2.9].
type UnknownRsp struct {
	UnknownType uint8
}

func (u UnknownRsp) Opcode() uint8 { return OpUnknownRsp }

// Marshal serializes the payload into little-endian binary form.
func (u *UnknownRsp) Marshal() []byte { return marshalLE(u) }

// Unmarshal de-serializes the binary payload and stores the result in the receiver.
func (u *UnknownRsp) Unmarshal(b []byte) error { return unmarshalLE(b, u) }

// RejectInd implements LL_REJECT_IND (0x0D) [Vol 6, Part B, 2.4.2.14].
type RejectInd struct {
	ErrorCode uint8
}

func (r RejectInd) Opcode() uint8 { return OpRejectInd }

// Marshal serializes the payload into little-endian binary form.
func (r *RejectInd) Marshal() []byte { return marshalLE(r) }

// Unmarshal de-serializes the binary payload and stores the result in the receiver.
func (r *RejectInd) Unmarshal(b []byte) error { return unmarshalLE(b, r) }

// RejectExtInd implements LL_REJECT_EXT_IND (0x11) [Vol 6, Part B, 2.4.2.25].
type RejectExtInd struct {
	RejectOpcode uint8
	ErrorCode    uint8
}

func (r RejectExtInd) Opcode() uint8 { return OpRejectExtInd }

// Marshal serializes the payload into little-endian binary form.
func (r *RejectExtInd) Marshal() []byte { return marshalLE(r) }

// Unmarshal de-serializes the binary payload and stores the result in the receiver.
func (r *RejectExtInd) Unmarshal(b []byte) error { return unmarshalLE(b, r) }
