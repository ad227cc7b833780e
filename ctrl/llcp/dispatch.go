package llcp

// procDispatcher maps a request opcode arriving outside any active
// context onto the remote procedure it initiates. Opcodes missing from
// this table do not start a procedure we support and are a protocol
// violation when they cannot be matched to an active context.
type procDispatcher struct {
	desc string
	proc procedure
}

var dispatcher = map[uint8]procDispatcher{
	OpVersionInd: {"version ind", procVersionExchange},
	OpFeatureReq: {"feature req", procFeatureExchange},
	OpPingReq:    {"ping req", procLEPing},
}

// Request and response opcodes per procedure. The version exchange is
// symmetric: the response reuses the request opcode.
var procOpcodes = map[procedure]struct {
	req uint8
	rsp uint8
}{
	procVersionExchange: {OpVersionInd, OpVersionInd},
	procFeatureExchange: {OpFeatureReq, OpFeatureRsp},
	procLEPing:          {OpPingReq, OpPingRsp},
}

func reqOpcode(p procedure) uint8 { return procOpcodes[p].req }
func rspOpcode(p procedure) uint8 { return procOpcodes[p].rsp }

// procNotifies reports whether local completion of p emits a host
// notification. LE ping completes silently.
func procNotifies(p procedure) bool {
	return p == procVersionExchange || p == procFeatureExchange
}
