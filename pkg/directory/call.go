package directory

import (
	"fmt"
	"sort"
)

// Method names a mutating directory operation.
type Method string

// Mutating methods.
const (
	MethodCreateIdentity  Method = "CreateIdentity"
	MethodUpdateIdentity  Method = "UpdateIdentity"
	MethodSetStatus       Method = "SetStatus"
	MethodAddToGroup      Method = "AddToGroup"
	MethodRemoveFromGroup Method = "RemoveFromGroup"
)

// Call is one recorded mutation.
type Call struct {
	Method Method `json:"method" yaml:"method"`
	Target string `json:"target" yaml:"target"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// String returns a compact representation of the call.
func (c Call) String() string {
	if c.Detail == "" {
		return fmt.Sprintf("%s(%s)", c.Method, c.Target)
	}
	return fmt.Sprintf("%s(%s, %s)", c.Method, c.Target, c.Detail)
}

// SortCalls orders calls by method, then target, then detail.
func SortCalls(calls []Call) []Call {
	sort.Slice(calls, func(i, j int) bool {
		if calls[i].Method != calls[j].Method {
			return calls[i].Method < calls[j].Method
		}
		if calls[i].Target != calls[j].Target {
			return calls[i].Target < calls[j].Target
		}
		return calls[i].Detail < calls[j].Detail
	})
	return calls
}
