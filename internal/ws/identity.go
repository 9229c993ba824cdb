package ws

import "strconv"

// Identity is the authenticated caller a connection acts as. Resolved once
// at upgrade time; every frame on the connection inherits it.
type Identity struct {
	ID       uint64
	Username string
	IsAdmin  bool
}

// Key is the identity's participant key: the form order conversations and
// the direct-mode registry address it by.
func (id Identity) Key() string {
	return strconv.FormatUint(id.ID, 10)
}
