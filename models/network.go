package models

// NodeKind classifies a network node by distance from the root user.
type NodeKind string

const (
	NodeKindSelf           NodeKind = "self"
	NodeKindFriend         NodeKind = "friend"
	NodeKindFriendOfFriend NodeKind = "friend-of-friend"
)

// LinkKind classifies a network link. Direct links are real friendship
// edges; indirect links connect a direct friend to a friend-of-friend.
type LinkKind string

const (
	LinkKindDirect   LinkKind = "direct"
	LinkKindIndirect LinkKind = "indirect"
)

// NetworkNode is computed per graph request, never persisted.
type NetworkNode struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	AvatarURL        *string  `json:"avatar_url"`
	Kind             NodeKind `json:"kind"`
	OrganizationID   *string  `json:"organization_id,omitempty"`
	OrganizationName *string  `json:"organization_name,omitempty"`
}

type NetworkLink struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Kind   LinkKind `json:"kind"`
}

type NetworkData struct {
	Nodes []NetworkNode `json:"nodes"`
	Links []NetworkLink `json:"links"`
}
