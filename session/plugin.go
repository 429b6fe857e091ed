package session

type Hook = int

const (
	ProcessArgs Hook = iota
	SqlQuery
	ProcessResults
	// Failed runs once the invocation has been rolled back, with
	// Payload.Err set.
	Failed
	Always
)

type Order = int

const (
	Before Order = iota
	After
)

// Plugin intercepts statement invocations. Plugins run in ascending Id
// order; returning false stops the remaining plugins of the same stage.
type Plugin interface {
	Intercept(payload *Payload) bool
	Hook() Hook
	Order() Order
	Id() int
}
