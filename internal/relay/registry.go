package relay

// Conn is a transport handle the relay can push frames to. Sends must not
// block the event loop; an implementation reports false when it had to drop.
type Conn interface {
	SendText(data []byte) bool
	SendBinary(data []byte) bool
	Close()
}

// Member is one registered client connection with its identity and assigned
// display color. LastFrame holds the member's most recent inbound frame; the
// dispatcher compares replayed role payloads against it to avoid echoing a
// client's own registration back to itself.
type Member struct {
	Identity  string
	Color     string
	Conn      Conn
	LastFrame []byte
}

// Registry maps connections to members, preserving registration order for
// broadcast fan-out. It is owned by the hub goroutine and needs no locking.
type Registry struct {
	byConn  map[Conn]*Member
	ordered []*Member
}

func NewRegistry() *Registry {
	return &Registry{
		byConn: make(map[Conn]*Member),
	}
}

// Add - registers a connection under its identity and color.
func (that *Registry) Add(conn Conn, identity, color string) *Member {
	member := &Member{
		Identity: identity,
		Color:    color,
		Conn:     conn,
	}

	that.byConn[conn] = member
	that.ordered = append(that.ordered, member)

	return member
}

// Remove - drops the connection's registration and returns the member so the
// caller can release its color.
func (that *Registry) Remove(conn Conn) *Member {
	member, ok := that.byConn[conn]
	if !ok {
		return nil
	}

	delete(that.byConn, conn)

	for i, m := range that.ordered {
		if m == member {
			that.ordered = append(that.ordered[:i], that.ordered[i+1:]...)
			break
		}
	}

	return member
}

// Lookup - the member for a connection, or nil when not registered.
func (that *Registry) Lookup(conn Conn) *Member {
	return that.byConn[conn]
}

// Members - all registered members in registration order.
func (that *Registry) Members() []*Member {
	return that.ordered
}

// Len - the number of registered members.
func (that *Registry) Len() int {
	return len(that.ordered)
}
