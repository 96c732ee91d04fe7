package context

type Key string

const (
	Claims  Key = "claims"
	OwnerID Key = "owner_id"
	Params  Key = "params"
)
