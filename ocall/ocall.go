package ocall

import "fmt"

// Op identifies one boundary operation. The set is closed: a bridge that
// receives an op it does not implement answers StatusBadOp.
type Op uint32

const (
	OpEnvGet Op = iota + 1
	OpEnvSet
	OpEnvUnset
	OpEnvList
	OpGetwd
	OpChdir
	OpResolve
	OpConnect
	OpListen
	OpAccept
	OpRecv
	OpSend
	OpBindUDP
	OpRecvFrom
	OpSendTo
	OpShutdown
	OpSockClose
	OpCurrentExe
)

var opNames = map[Op]string{
	OpEnvGet:     "env_get",
	OpEnvSet:     "env_set",
	OpEnvUnset:   "env_unset",
	OpEnvList:    "env_list",
	OpGetwd:      "getwd",
	OpChdir:      "chdir",
	OpResolve:    "resolve",
	OpConnect:    "connect",
	OpListen:     "listen",
	OpAccept:     "accept",
	OpRecv:       "recv",
	OpSend:       "send",
	OpBindUDP:    "bind_udp",
	OpRecvFrom:   "recv_from",
	OpSendTo:     "send_to",
	OpShutdown:   "shutdown",
	OpSockClose:  "sock_close",
	OpCurrentExe: "current_exe",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("op(%d)", uint32(o))
}

// Status is the host-reported status word of one crossing. Zero means the
// bridge accepted and serviced the call; any nonzero value means the
// response payload must not be interpreted. Expected domain outcomes (a
// missing environment key, a socket errno) ride inside successful payloads
// instead.
type Status uint32

const (
	StatusOK         Status = 0
	StatusBadOp      Status = 1 // op code not implemented by the bridge
	StatusBadRequest Status = 2 // request payload failed to decode
	StatusOverflow   Status = 3 // response did not fit the claimed region
	StatusRefused    Status = 4 // bridge policy refused the operation
	StatusInternal   Status = 5
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusBadOp:
		return "bad op"
	case StatusBadRequest:
		return "bad request"
	case StatusOverflow:
		return "response overflow"
	case StatusRefused:
		return "refused"
	case StatusInternal:
		return "internal host error"
	}
	return fmt.Sprintf("status(%d)", uint32(s))
}

// Shutdown directions for OpShutdown, matching shutdown(2) semantics.
const (
	HowRead  uint8 = 0
	HowWrite uint8 = 1
	HowBoth  uint8 = 2
)
