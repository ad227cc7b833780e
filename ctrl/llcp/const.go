package llcp

// LL Data PDU LLID values [Vol 6, Part B, 2.4].
const (
	llidDataContinue uint8 = 0x01
	llidDataStart    uint8 = 0x02
	llidControl      uint8 = 0x03
)

// LL Control PDU opcodes [Vol 6, Part B, 2.4.2].
const (
	OpConnUpdateInd     uint8 = 0x00
	OpChannelMapInd     uint8 = 0x01
	OpTerminateInd      uint8 = 0x02
	OpEncReq            uint8 = 0x03
	OpEncRsp            uint8 = 0x04
	OpStartEncReq       uint8 = 0x05
	OpStartEncRsp       uint8 = 0x06
	OpUnknownRsp        uint8 = 0x07
	OpFeatureReq        uint8 = 0x08
	OpFeatureRsp        uint8 = 0x09
	OpPauseEncReq       uint8 = 0x0A
	OpPauseEncRsp       uint8 = 0x0B
	OpVersionInd        uint8 = 0x0C
	OpRejectInd         uint8 = 0x0D
	OpSlaveFeatureReq   uint8 = 0x0E
	OpConnParamReq      uint8 = 0x0F
	OpConnParamRsp      uint8 = 0x10
	OpRejectExtInd      uint8 = 0x11
	OpPingReq           uint8 = 0x12
	OpPingRsp           uint8 = 0x13
	OpLengthReq         uint8 = 0x14
	OpLengthRsp         uint8 = 0x15
	OpPhyReq            uint8 = 0x16
	OpPhyRsp            uint8 = 0x17
	OpPhyUpdateInd      uint8 = 0x18
	OpMinUsedChannelInd uint8 = 0x19
)

// VersionNumber is the link layer version advertised in LL_VERSION_IND.
// 0x09 is Bluetooth Core 5.0 [Assigned Numbers, Link Layer Version].
const VersionNumber uint8 = 0x09

// Completion status codes reported in notifications. Values follow the
// HCI error code table [Vol 2, Part D, 1.3].
const (
	StatusSuccess              uint8 = 0x00
	StatusUnsupportedRemote    uint8 = 0x1A
	StatusUnacceptableParams   uint8 = 0x3B
	StatusDifferentTransaction uint8 = 0x2A
)

// A control PDU is a 2 octet data channel header, the opcode octet, and
// at most 26 octets of CtrData [Vol 6, Part B, 2.4.2].
const (
	pduHdrSize     = 2
	ctrlPDUMaxSize = pduHdrSize + 1 + 26
)

// Default pool sizes. Overridable per engine, see Option.
const (
	defaultProcCtxCount = 1
	defaultTxBufCount   = 1
	defaultNtfBufCount  = 1
)

// Local procedure common FSM states.
const (
	lpStateIdle uint8 = iota
	lpStateWaitTx
	lpStateWaitRx
	lpStateWaitNtf
)

// Local procedure common FSM events.
const (
	lpEvtRun uint8 = iota
	lpEvtResponse
	lpEvtReject
	lpEvtUnknown
	lpEvtCollision
)

// Remote procedure common FSM states.
const (
	rpStateIdle uint8 = iota
	rpStateWaitRx
	rpStateWaitTx
	rpStateWaitNtf
)

// Remote procedure common FSM events.
const (
	rpEvtRun uint8 = iota
	rpEvtRequest
)

// Request FSM states, shared shape for the local and remote sides.
const (
	reqStateDisconnected uint8 = iota
	reqStateIdle
	reqStateActive
)

// Request FSM events.
const (
	reqEvtRun uint8 = iota
	reqEvtComplete
	reqEvtConnect
	reqEvtDisconnect
)
