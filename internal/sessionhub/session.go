package sessionhub

// Conn is the transport handle of one client connection.
//
// Send must never block the caller: implementations queue the frame and
// deliver it asynchronously, dropping it if the client cannot keep up.
// Sending to a closed connection is a silent no-op, never an error.
type Conn interface {
	Send(frame Frame)
	Close()
}

// Session is one live client connection plus its optional address bindings.
// Its lifecycle is strictly bound to the underlying connection: created on
// attach, destroyed on detach, never outliving the socket.
//
// Address bindings are only touched from the session's own read loop, so they
// need no locking.
type Session struct {
	conn Conn

	sourceAddress      string // bound source-chain address, optional
	destinationAddress string // bound destination-ledger account, optional
}

// SourceAddress returns the bound source-chain address, if any.
func (s *Session) SourceAddress() string {
	return s.sourceAddress
}

// DestinationAddress returns the bound destination-ledger account, if any.
func (s *Session) DestinationAddress() string {
	return s.destinationAddress
}

// bind records the session's address pair.
func (s *Session) bind(sourceAddress, destinationAddress string) {
	s.sourceAddress = sourceAddress
	s.destinationAddress = destinationAddress
}

// send delivers a frame to this session only.
func (s *Session) send(frame Frame) {
	s.conn.Send(frame)
}
