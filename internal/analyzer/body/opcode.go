// Package body scans raw binary method bodies for stub shapes. The
// body format is treated as a small fixed protocol: the package knows
// only the handful of opcodes the detectors care about and scans
// everything else as opaque single bytes.
package body

// Opcode is a single-byte instruction code within a binary method body.
type Opcode byte

// Opcode values as they appear in the compiled body format.
const (
	OpNop    Opcode = 0x00
	OpLdarg0 Opcode = 0x02
	OpLdarg1 Opcode = 0x03
	OpLdarg2 Opcode = 0x04
	OpLdarg3 Opcode = 0x05
	OpLdargS Opcode = 0x0E // 1-byte index operand
	OpLdnull Opcode = 0x14
	OpLdc0   Opcode = 0x16
	OpLdc1   Opcode = 0x17
	OpCall   Opcode = 0x28 // 4-byte token operand
	OpRet    Opcode = 0x2A
	OpCallvt Opcode = 0x6F // 4-byte token operand
	OpNewobj Opcode = 0x73 // 4-byte token operand
	OpThrow  Opcode = 0x7A
)

// Family boundaries. The load-argument and branch families are matched
// by range rather than enumerated per opcode.
const (
	ldargLo  Opcode = 0x02
	ldargHi  Opcode = 0x09
	branchLo Opcode = 0x38
	branchHi Opcode = 0x45
)

// IsLoadArg reports whether the opcode loads an argument onto the
// evaluation stack.
func (o Opcode) IsLoadArg() bool {
	return (o >= ldargLo && o <= ldargHi) || o == OpLdargS
}

// IsBranch reports whether the opcode is a branch or conditional jump.
func (o Opcode) IsBranch() bool {
	return o >= branchLo && o <= branchHi
}

// IsCall reports whether the opcode invokes another member.
func (o Opcode) IsCall() bool {
	return o == OpCall || o == OpCallvt
}

// OperandWidth returns the number of operand bytes following the
// opcode. Opcodes outside the known set are scanned as operand-free,
// which keeps the walk aligned for every pattern the detectors match.
func (o Opcode) OperandWidth() int {
	switch {
	case o == OpLdargS:
		return 1
	case o.IsCall(), o == OpNewobj, o.IsBranch():
		return 4
	default:
		return 0
	}
}

// walk iterates the body instruction by instruction, calling fn with
// each opcode and the offset of its operand bytes. fn returning false
// stops the walk. Truncated trailing operands end the walk silently.
func walk(b []byte, fn func(op Opcode, operandAt int) bool) {
	for i := 0; i < len(b); {
		op := Opcode(b[i])
		if !fn(op, i+1) {
			return
		}
		i += 1 + op.OperandWidth()
	}
}
