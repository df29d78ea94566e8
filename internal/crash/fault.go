package crash

import (
	"fmt"
	"runtime"
	"syscall"
)

type FaultKind int

const (
	FaultInt     FaultKind = iota // panic(code)
	FaultRuntime                  // runtime error or panic("message")
	FaultAccess                   // memory fault with a faulting address
	FaultGeneral                  // any other error value
	FaultUnknown
)

// Fault is a panic that reached the main loop boundary, turned into a value.
type Fault struct {
	Kind    FaultKind
	Code    int
	Message string
	Address uintptr
	Value   any
	Stack   []byte
}

// runtime errors raised under debug.SetPanicOnFault carry the address
type addressable interface {
	Addr() uintptr
}

func Classify(r any) *Fault {
	switch v := r.(type) {
	case *Fault:
		return v
	case int:
		return &Fault{Kind: FaultInt, Code: v, Value: r}
	case runtime.Error:
		if a, ok := v.(addressable); ok {
			return &Fault{Kind: FaultAccess, Code: int(syscall.SIGSEGV), Message: v.Error(), Address: a.Addr(), Value: r}
		}
		return &Fault{Kind: FaultRuntime, Message: v.Error(), Value: r}
	case string:
		return &Fault{Kind: FaultRuntime, Message: v, Value: r}
	case error:
		return &Fault{Kind: FaultGeneral, Message: v.Error(), Value: r}
	}
	return &Fault{Kind: FaultUnknown, Message: fmt.Sprintf("%v", r), Value: r}
}

func (f *Fault) Error() string {
	switch f.Kind {
	case FaultInt:
		return fmt.Sprintf("exception code %d", f.Code)
	case FaultAccess:
		return fmt.Sprintf("%s (code 0x%08X at 0x%08X)", f.Message, f.Code, f.Address)
	}
	return f.Message
}

func (f *Fault) Title() string {
	switch f.Kind {
	case FaultInt:
		return "Int Exception"
	case FaultRuntime:
		return "Runtime Exception"
	case FaultAccess:
		return "Fault Exception"
	case FaultGeneral:
		return "General Exception"
	}
	return "Unknown Exception"
}

// Details is the text shown to the user before recovery starts.
func (f *Fault) Details() string {
	switch f.Kind {
	case FaultInt:
		return fmt.Sprintf("Unexpected exception: %d", f.Code)
	case FaultAccess:
		return fmt.Sprintf("An exception occurred. quill cannot recover and must be shut down.\n"+
			"The exception details are as follows:\nCode:\t0x%08X\nType:\t%s\nException address: 0x%08X",
			f.Code, f.Message, f.Address)
	case FaultUnknown:
		return "An exception that we did not yet find a name for was just caught: " + f.Message
	}
	return f.Message
}
