package llcp

import (
	"bytes"
	"testing"
)

func TestVersionIndRoundTrip(t *testing.T) {
	in := VersionInd{VersionNumber: 0x09, CompanyID: 0x005D, SubVersionNumber: 0x0001}

	var buf [ctrlPDUMaxSize]byte
	p := encodePDU(buf[:], &in)

	want := []byte{0x03, 0x05, 0x0C, 0x09, 0x5D, 0x00, 0x01, 0x00}
	if !bytes.Equal(p, want) {
		t.Fatalf("encoded % X, want % X", []byte(p), want)
	}

	var out VersionInd
	if err := out.Unmarshal(p.CtrData()); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Fatalf("round trip %+v != %+v", out, in)
	}
}

func TestFeatureRoundTrip(t *testing.T) {
	req := FeatureReq{FeatureSet: 0x0123456789ABCDEF}

	var buf [ctrlPDUMaxSize]byte
	p := encodePDU(buf[:], &req)

	if p.Opcode() != OpFeatureReq || p.Dlen() != 8 {
		t.Fatalf("header: opcode %#02x dlen %d", p.Opcode(), p.Dlen())
	}
	// Least significant octet first on the wire.
	if p.CtrData()[0] != 0xEF || p.CtrData()[7] != 0x01 {
		t.Fatalf("feature set not little-endian: % X", p.CtrData())
	}

	var out FeatureReq
	if err := out.Unmarshal(p.CtrData()); err != nil {
		t.Fatal(err)
	}
	if out != req {
		t.Fatalf("round trip %+v != %+v", out, req)
	}
}

func TestRejectExtIndRoundTrip(t *testing.T) {
	in := RejectExtInd{RejectOpcode: OpFeatureReq, ErrorCode: StatusUnacceptableParams}

	var buf [ctrlPDUMaxSize]byte
	p := encodePDU(buf[:], &in)

	want := []byte{0x03, 0x02, 0x11, 0x08, 0x3B}
	if !bytes.Equal(p, want) {
		t.Fatalf("encoded % X, want % X", []byte(p), want)
	}

	var out RejectExtInd
	if err := out.Unmarshal(p.CtrData()); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Fatalf("round trip %+v != %+v", out, in)
	}
}

func TestUnmarshalShortPayload(t *testing.T) {
	var v VersionInd
	if err := v.Unmarshal([]byte{0x09, 0x5D}); err == nil {
		t.Fatal("no error on truncated payload")
	}
}

func TestPDUValid(t *testing.T) {
	cases := []struct {
		p  PDU
		ok bool
	}{
		{PDU{0x03, 0x00, OpPingReq}, true},
		{PDU{0x03, 0x05, 0x0C, 0x09, 0x5D, 0x00, 0x01, 0x00}, true},
		{PDU{0x02, 0x00, OpPingReq}, false},       // data LLID
		{PDU{0x03, 0x01, OpPingReq}, false},       // dlen overruns
		{PDU{0x03, 0x00, OpPingReq, 0x00}, false}, // trailing octet
		{PDU{0x03}, false},                        // truncated header
		{nil, false},
	}
	for i, tc := range cases {
		if tc.p.valid() != tc.ok {
			t.Fatalf("case %d: valid() = %v", i, !tc.ok)
		}
	}
}
