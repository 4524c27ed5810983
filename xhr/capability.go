package xhr

import (
	"sort"

	apperrors "github.com/kbukum/xhrkit/errors"
)

// Capability classifies a member of the request API.
type Capability int

const (
	// Configure members mutate the request before Send.
	Configure Capability = iota
	// Read members observe state without side effects.
	Read
	// Send starts the request.
	Send
	// Unsupported members always fail with NOT_IMPLEMENTED.
	Unsupported
)

// String returns the capability name.
func (c Capability) String() string {
	switch c {
	case Configure:
		return "configure"
	case Read:
		return "read"
	case Send:
		return "send"
	case Unsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Member names a part of the browser request API.
type Member string

const (
	MemberOpen                  Member = "open"
	MemberSetRequestHeader      Member = "setRequestHeader"
	MemberResponseTypeSet       Member = "responseType="
	MemberTimeoutSet            Member = "timeout="
	MemberWithCredentialsSet    Member = "withCredentials="
	MemberAddEventListener      Member = "addEventListener"
	MemberRemoveEventListener   Member = "removeEventListener"
	MemberEventHandler          Member = "on<event>="
	MemberSend                  Member = "send"
	MemberReadyState            Member = "readyState"
	MemberStatus                Member = "status"
	MemberStatusText            Member = "statusText"
	MemberResponse              Member = "response"
	MemberResponseText          Member = "responseText"
	MemberResponseURL           Member = "responseURL"
	MemberResponseType          Member = "responseType"
	MemberTimeout               Member = "timeout"
	MemberWithCredentials       Member = "withCredentials"
	MemberGetResponseHeader     Member = "getResponseHeader"
	MemberGetAllResponseHeaders Member = "getAllResponseHeaders"
	MemberAbort                 Member = "abort"
	MemberOverrideMimeType      Member = "overrideMimeType"
	MemberUpload                Member = "upload"
	MemberResponseXML           Member = "responseXML"
)

var capabilities = map[Member]Capability{
	MemberOpen:                  Configure,
	MemberSetRequestHeader:      Configure,
	MemberResponseTypeSet:       Configure,
	MemberTimeoutSet:            Configure,
	MemberWithCredentialsSet:    Configure,
	MemberAddEventListener:      Configure,
	MemberRemoveEventListener:   Configure,
	MemberEventHandler:          Configure,
	MemberSend:                  Send,
	MemberReadyState:            Read,
	MemberStatus:                Read,
	MemberStatusText:            Read,
	MemberResponse:              Read,
	MemberResponseText:          Read,
	MemberResponseURL:           Read,
	MemberResponseType:          Read,
	MemberTimeout:               Read,
	MemberWithCredentials:       Read,
	MemberGetResponseHeader:     Read,
	MemberGetAllResponseHeaders: Read,
	MemberAbort:                 Unsupported,
	MemberOverrideMimeType:      Unsupported,
	MemberUpload:                Unsupported,
	MemberResponseXML:           Unsupported,
}

// CapabilityOf returns the capability of m and whether m is known.
func CapabilityOf(m Member) (Capability, bool) {
	c, ok := capabilities[m]
	return c, ok
}

// Supported reports whether m is a known member that does not always fail.
func Supported(m Member) bool {
	c, ok := capabilities[m]
	return ok && c != Unsupported
}

// Members returns every known member, sorted by name.
func Members() []Member {
	out := make([]Member, 0, len(capabilities))
	for m := range capabilities {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// unsupported is the single failure path for members that are declared but
// not implemented. It never changes request state.
func unsupported(m Member) error {
	return apperrors.NotImplemented(string(m))
}
