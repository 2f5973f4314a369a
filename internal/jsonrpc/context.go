package jsonrpc

// MethodContext carries the connection-level value shared by every method
// call on one connection.
type MethodContext[T any] interface {
	Get() *T
	Peer() Conn[T]
}

func NewContext[T any](conn Conn[T], v *T) MethodContext[T] {
	return &contextImpl[T]{
		conn: conn,
		v:    v,
	}
}

type contextImpl[T any] struct {
	conn Conn[T]
	v    *T
}

func (m *contextImpl[T]) Get() *T {
	return m.v
}

func (m *contextImpl[T]) Peer() Conn[T] {
	return m.conn
}
