package ocall

import "net/netip"

// One request/response pair per operation. The zero value of every message
// is valid to unmarshal into. Errno fields hold the host-reported errno (0
// for success); the value is advisory and only ever mapped to an error,
// never acted on.

// EnvGetRequest asks for one environment variable by raw key bytes.
type EnvGetRequest struct {
	Key []byte
}

func (m *EnvGetRequest) MarshalBinary() ([]byte, error) {
	return appendBytes(nil, m.Key), nil
}

func (m *EnvGetRequest) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	var err error
	if m.Key, err = d.bytes(); err != nil {
		return err
	}
	return d.finish()
}

// EnvGetResponse distinguishes "present with value" from "not present";
// an empty value with Found set is a legal environment entry.
type EnvGetResponse struct {
	Found bool
	Value []byte
}

func (m *EnvGetResponse) MarshalBinary() ([]byte, error) {
	var found uint8
	if m.Found {
		found = 1
	}
	b := appendU8(nil, found)
	return appendBytes(b, m.Value), nil
}

func (m *EnvGetResponse) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	found, err := d.u8()
	if err != nil {
		return err
	}
	m.Found = found != 0
	if m.Value, err = d.bytes(); err != nil {
		return err
	}
	return d.finish()
}

type EnvSetRequest struct {
	Key   []byte
	Value []byte
}

func (m *EnvSetRequest) MarshalBinary() ([]byte, error) {
	b := appendBytes(nil, m.Key)
	return appendBytes(b, m.Value), nil
}

func (m *EnvSetRequest) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	var err error
	if m.Key, err = d.bytes(); err != nil {
		return err
	}
	if m.Value, err = d.bytes(); err != nil {
		return err
	}
	return d.finish()
}

type EnvUnsetRequest struct {
	Key []byte
}

func (m *EnvUnsetRequest) MarshalBinary() ([]byte, error) {
	return appendBytes(nil, m.Key), nil
}

func (m *EnvUnsetRequest) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	var err error
	if m.Key, err = d.bytes(); err != nil {
		return err
	}
	return d.finish()
}

// ErrnoResponse is the shared response shape for operations whose only
// outcome is success or a host errno.
type ErrnoResponse struct {
	Errno int32
}

func (m *ErrnoResponse) MarshalBinary() ([]byte, error) {
	return appendI32(nil, m.Errno), nil
}

func (m *ErrnoResponse) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	var err error
	if m.Errno, err = d.i32(); err != nil {
		return err
	}
	return d.finish()
}

// EnvPair is one environment entry as raw bytes.
type EnvPair struct {
	Key   []byte
	Value []byte
}

// EnvListResponse carries a point-in-time snapshot of the whole
// environment in one crossing.
type EnvListResponse struct {
	Pairs []EnvPair
}

func (m *EnvListResponse) MarshalBinary() ([]byte, error) {
	b := appendU32(nil, uint32(len(m.Pairs)))
	for _, p := range m.Pairs {
		b = appendBytes(b, p.Key)
		b = appendBytes(b, p.Value)
	}
	return b, nil
}

func (m *EnvListResponse) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	count, err := d.u32()
	if err != nil {
		return err
	}
	// The count is host-declared; allocation is driven by what actually
	// decodes, not by the claim.
	m.Pairs = nil
	for i := uint32(0); i < count; i++ {
		var p EnvPair
		if p.Key, err = d.bytes(); err != nil {
			return err
		}
		if p.Value, err = d.bytes(); err != nil {
			return err
		}
		m.Pairs = append(m.Pairs, p)
	}
	return d.finish()
}

type GetwdResponse struct {
	Errno int32
	Path  []byte
}

func (m *GetwdResponse) MarshalBinary() ([]byte, error) {
	b := appendI32(nil, m.Errno)
	return appendBytes(b, m.Path), nil
}

func (m *GetwdResponse) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	var err error
	if m.Errno, err = d.i32(); err != nil {
		return err
	}
	if m.Path, err = d.bytes(); err != nil {
		return err
	}
	return d.finish()
}

type CurrentExeResponse struct {
	Errno int32
	Path  []byte
}

func (m *CurrentExeResponse) MarshalBinary() ([]byte, error) {
	b := appendI32(nil, m.Errno)
	return appendBytes(b, m.Path), nil
}

func (m *CurrentExeResponse) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	var err error
	if m.Errno, err = d.i32(); err != nil {
		return err
	}
	if m.Path, err = d.bytes(); err != nil {
		return err
	}
	return d.finish()
}

type ChdirRequest struct {
	Path []byte
}

func (m *ChdirRequest) MarshalBinary() ([]byte, error) {
	return appendBytes(nil, m.Path), nil
}

func (m *ChdirRequest) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	var err error
	if m.Path, err = d.bytes(); err != nil {
		return err
	}
	return d.finish()
}

type ResolveRequest struct {
	Host []byte
}

func (m *ResolveRequest) MarshalBinary() ([]byte, error) {
	return appendBytes(nil, m.Host), nil
}

func (m *ResolveRequest) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	var err error
	if m.Host, err = d.bytes(); err != nil {
		return err
	}
	return d.finish()
}

// ResolveResponse carries resolved IPs in host-resolution order. Errno is
// nonzero when resolution failed; the host's failure detail is deliberately
// not carried across.
type ResolveResponse struct {
	Errno int32
	Addrs []netip.Addr
}

func (m *ResolveResponse) MarshalBinary() ([]byte, error) {
	b := appendI32(nil, m.Errno)
	b = appendU32(b, uint32(len(m.Addrs)))
	for _, a := range m.Addrs {
		b = appendIP(b, a)
	}
	return b, nil
}

func (m *ResolveResponse) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	var err error
	if m.Errno, err = d.i32(); err != nil {
		return err
	}
	count, err := d.u32()
	if err != nil {
		return err
	}
	m.Addrs = nil
	for i := uint32(0); i < count; i++ {
		a, err := decodeIP(&d)
		if err != nil {
			return err
		}
		m.Addrs = append(m.Addrs, a)
	}
	return d.finish()
}

type ConnectRequest struct {
	Addr SockAddr
}

func (m *ConnectRequest) MarshalBinary() ([]byte, error) {
	return appendSockAddr(nil, m.Addr), nil
}

func (m *ConnectRequest) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	var err error
	if m.Addr, err = decodeSockAddr(&d); err != nil {
		return err
	}
	return d.finish()
}

// ConnectResponse returns the host-side socket handle. Handles are opaque
// tokens; the enclave never interprets them beyond passing them back.
type ConnectResponse struct {
	Errno  int32
	Handle int32
}

func (m *ConnectResponse) MarshalBinary() ([]byte, error) {
	b := appendI32(nil, m.Errno)
	return appendI32(b, m.Handle), nil
}

func (m *ConnectResponse) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	var err error
	if m.Errno, err = d.i32(); err != nil {
		return err
	}
	if m.Handle, err = d.i32(); err != nil {
		return err
	}
	return d.finish()
}

type ListenRequest struct {
	Addr    SockAddr
	Backlog uint32
}

func (m *ListenRequest) MarshalBinary() ([]byte, error) {
	b := appendSockAddr(nil, m.Addr)
	return appendU32(b, m.Backlog), nil
}

func (m *ListenRequest) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	var err error
	if m.Addr, err = decodeSockAddr(&d); err != nil {
		return err
	}
	if m.Backlog, err = d.u32(); err != nil {
		return err
	}
	return d.finish()
}

// ListenResponse also serves OpBindUDP: both return a handle plus the
// address the host actually bound (meaningful when port 0 was requested).
type ListenResponse struct {
	Errno  int32
	Handle int32
	Bound  SockAddr
}

func (m *ListenResponse) MarshalBinary() ([]byte, error) {
	b := appendI32(nil, m.Errno)
	b = appendI32(b, m.Handle)
	return appendSockAddr(b, m.Bound), nil
}

func (m *ListenResponse) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	var err error
	if m.Errno, err = d.i32(); err != nil {
		return err
	}
	if m.Handle, err = d.i32(); err != nil {
		return err
	}
	if m.Bound, err = decodeSockAddr(&d); err != nil {
		return err
	}
	return d.finish()
}

type AcceptRequest struct {
	Handle int32
}

func (m *AcceptRequest) MarshalBinary() ([]byte, error) {
	return appendI32(nil, m.Handle), nil
}

func (m *AcceptRequest) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	var err error
	if m.Handle, err = d.i32(); err != nil {
		return err
	}
	return d.finish()
}

type AcceptResponse struct {
	Errno  int32
	Handle int32
	Peer   SockAddr
}

func (m *AcceptResponse) MarshalBinary() ([]byte, error) {
	b := appendI32(nil, m.Errno)
	b = appendI32(b, m.Handle)
	return appendSockAddr(b, m.Peer), nil
}

func (m *AcceptResponse) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	var err error
	if m.Errno, err = d.i32(); err != nil {
		return err
	}
	if m.Handle, err = d.i32(); err != nil {
		return err
	}
	if m.Peer, err = decodeSockAddr(&d); err != nil {
		return err
	}
	return d.finish()
}

type RecvRequest struct {
	Handle int32
	Cap    uint32
}

func (m *RecvRequest) MarshalBinary() ([]byte, error) {
	b := appendI32(nil, m.Handle)
	return appendU32(b, m.Cap), nil
}

func (m *RecvRequest) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	var err error
	if m.Handle, err = d.i32(); err != nil {
		return err
	}
	if m.Cap, err = d.u32(); err != nil {
		return err
	}
	return d.finish()
}

type RecvResponse struct {
	Errno int32
	Data  []byte
}

func (m *RecvResponse) MarshalBinary() ([]byte, error) {
	b := appendI32(nil, m.Errno)
	return appendBytes(b, m.Data), nil
}

func (m *RecvResponse) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	var err error
	if m.Errno, err = d.i32(); err != nil {
		return err
	}
	if m.Data, err = d.bytes(); err != nil {
		return err
	}
	return d.finish()
}

type SendRequest struct {
	Handle int32
	Data   []byte
}

func (m *SendRequest) MarshalBinary() ([]byte, error) {
	b := appendI32(nil, m.Handle)
	return appendBytes(b, m.Data), nil
}

func (m *SendRequest) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	var err error
	if m.Handle, err = d.i32(); err != nil {
		return err
	}
	if m.Data, err = d.bytes(); err != nil {
		return err
	}
	return d.finish()
}

type SendResponse struct {
	Errno int32
	N     uint32
}

func (m *SendResponse) MarshalBinary() ([]byte, error) {
	b := appendI32(nil, m.Errno)
	return appendU32(b, m.N), nil
}

func (m *SendResponse) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	var err error
	if m.Errno, err = d.i32(); err != nil {
		return err
	}
	if m.N, err = d.u32(); err != nil {
		return err
	}
	return d.finish()
}

type BindUDPRequest struct {
	Addr SockAddr
}

func (m *BindUDPRequest) MarshalBinary() ([]byte, error) {
	return appendSockAddr(nil, m.Addr), nil
}

func (m *BindUDPRequest) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	var err error
	if m.Addr, err = decodeSockAddr(&d); err != nil {
		return err
	}
	return d.finish()
}

type RecvFromRequest struct {
	Handle int32
	Cap    uint32
}

func (m *RecvFromRequest) MarshalBinary() ([]byte, error) {
	b := appendI32(nil, m.Handle)
	return appendU32(b, m.Cap), nil
}

func (m *RecvFromRequest) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	var err error
	if m.Handle, err = d.i32(); err != nil {
		return err
	}
	if m.Cap, err = d.u32(); err != nil {
		return err
	}
	return d.finish()
}

type RecvFromResponse struct {
	Errno int32
	Data  []byte
	Peer  SockAddr
}

func (m *RecvFromResponse) MarshalBinary() ([]byte, error) {
	b := appendI32(nil, m.Errno)
	b = appendBytes(b, m.Data)
	return appendSockAddr(b, m.Peer), nil
}

func (m *RecvFromResponse) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	var err error
	if m.Errno, err = d.i32(); err != nil {
		return err
	}
	if m.Data, err = d.bytes(); err != nil {
		return err
	}
	if m.Peer, err = decodeSockAddr(&d); err != nil {
		return err
	}
	return d.finish()
}

type SendToRequest struct {
	Handle int32
	Addr   SockAddr
	Data   []byte
}

func (m *SendToRequest) MarshalBinary() ([]byte, error) {
	b := appendI32(nil, m.Handle)
	b = appendSockAddr(b, m.Addr)
	return appendBytes(b, m.Data), nil
}

func (m *SendToRequest) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	var err error
	if m.Handle, err = d.i32(); err != nil {
		return err
	}
	if m.Addr, err = decodeSockAddr(&d); err != nil {
		return err
	}
	if m.Data, err = d.bytes(); err != nil {
		return err
	}
	return d.finish()
}

type ShutdownRequest struct {
	Handle int32
	How    uint8
}

func (m *ShutdownRequest) MarshalBinary() ([]byte, error) {
	b := appendI32(nil, m.Handle)
	return appendU8(b, m.How), nil
}

func (m *ShutdownRequest) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	var err error
	if m.Handle, err = d.i32(); err != nil {
		return err
	}
	if m.How, err = d.u8(); err != nil {
		return err
	}
	return d.finish()
}

type SockCloseRequest struct {
	Handle int32
}

func (m *SockCloseRequest) MarshalBinary() ([]byte, error) {
	return appendI32(nil, m.Handle), nil
}

func (m *SockCloseRequest) UnmarshalBinary(b []byte) error {
	d := decoder{rest: b}
	var err error
	if m.Handle, err = d.i32(); err != nil {
		return err
	}
	return d.finish()
}
