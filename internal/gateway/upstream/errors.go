package upstream

// Kind classifies a failed fetch. The provider-reported rate limit is kept
// distinct from the gateway's own limiter so callers can tell whose budget
// ran out.
type Kind int

const (
	KindInvalidInput Kind = iota
	KindTransport
	KindTimeout
	KindUpstreamRateLimited
	KindUpstreamHTTP
	KindNonJSON
)

// Error is the normalized form of every upstream failure. Msg is
// user-facing and never contains injected secrets.
type Error struct {
	Kind   Kind
	Status int // upstream HTTP status, set for KindUpstreamHTTP
	Msg    string
}

func (e *Error) Error() string { return e.Msg }
