package emu

import "github.com/sarchlab/slicesim/insts"

// Router writes the ALU result to its destination and selects the Y output.
type Router struct {
	shifter *ShiftLink
}

// NewRouter creates a router that shifts through the given shift-link network.
func NewRouter(shifter *ShiftLink) *Router {
	return &Router{shifter: shifter}
}

// Route applies destination dst for result f and returns the Y bus value.
// Unknown destination codes change nothing and drive 0.
func (rt *Router) Route(dst insts.Destination, mode insts.LinkMode, f Word, a, b uint8, rf *RegFile) Word {
	if op, ok := decodeShift(dst); ok {
		reg, acc := rt.shifter.Shift(op, mode, f, rf.Q)
		rf.Write(b, reg)
		rf.SetQ(acc)
		return f
	}

	switch dst {
	case insts.DestQREG:
		rf.SetQ(f)
		return f
	case insts.DestNOP:
		return f
	case insts.DestRAMA:
		y := rf.Read(a)
		rf.Write(b, f)
		return y
	case insts.DestRAMF:
		rf.Write(b, f)
		return f
	default:
		return 0
	}
}
