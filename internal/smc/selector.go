package smc

// Selector identifies a driver method or, in Data8, a sub-operation.
type Selector uint8

// Driver methods.
const (
	SelectorOpen        Selector = 0
	SelectorClose       Selector = 1
	SelectorHandleEvent Selector = 2
)

// Sub-operations carried in ParamBlock.Data8 by SelectorHandleEvent.
// GetKeyCount and GetKeyFromIndex are never issued by this package.
const (
	SubReadKey         Selector = 5
	SubWriteKey        Selector = 6
	SubGetKeyCount     Selector = 7
	SubGetKeyFromIndex Selector = 8
	SubGetKeyInfo      Selector = 9
)

// Controller result codes reported in ParamBlock.Result.
const (
	ResultSuccess     uint8 = 0x00
	ResultError       uint8 = 0x01
	ResultKeyNotFound uint8 = 0x84
)

// String returns the selector name.
func (s Selector) String() string {
	switch s {
	case SelectorOpen:
		return "OPEN"
	case SelectorClose:
		return "CLOSE"
	case SelectorHandleEvent:
		return "HANDLE_EVENT"
	case SubReadKey:
		return "READ_KEY"
	case SubWriteKey:
		return "WRITE_KEY"
	case SubGetKeyCount:
		return "GET_KEY_COUNT"
	case SubGetKeyFromIndex:
		return "GET_KEY_FROM_INDEX"
	case SubGetKeyInfo:
		return "GET_KEY_INFO"
	default:
		return "UNKNOWN"
	}
}
