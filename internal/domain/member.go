package domain

// Member represents a connection's participation in a room.
// No transport or lifecycle logic here.
type Member struct {
	ID       ConnID `json:"id"`
	Username string `json:"username"`
	IsHost   bool   `json:"isHost"`
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
func NewMember(id ConnID, username string, host bool) Member {
	return Member{ID: id, Username: username, IsHost: host}
}
