package cpu

const (
	BRANCH_OFFSET_MIN = -4096
	BRANCH_OFFSET_MAX = 4095
)

// Patch is the way a forward reference is resolved into its placeholder
// word. The implementations are PatchWord and PatchBranch.
type Patch interface {
	// Apply returns the placeholder word at addr patched with target.
	Apply(word uint16, addr uint16, target uint16) (uint16, error)
	patch()
}

// PatchWord replaces the placeholder with the symbol value.
type PatchWord struct{}

func (PatchWord) patch() {}

func (PatchWord) Apply(word uint16, addr uint16, target uint16) (uint16, error) {
	return target, nil
}

// PatchBranch ORs the 13-bit branch offset from the placeholder to the
// symbol into the low bits, keeping the condition in the top 3 bits.
type PatchBranch struct{}

func (PatchBranch) patch() {}

func (PatchBranch) Apply(word uint16, addr uint16, target uint16) (uint16, error) {
	offset, err := branchOffset(target, addr)
	if err != nil {
		return word, err
	}
	return word | offset, nil
}

// branchOffset returns the 13-bit offset a cadd whose X word sits at addr
// needs to reach target. The pc has already moved past addr when the
// offset is added.
func branchOffset(target uint16, addr uint16) (offset uint16, err error) {
	offs := int(target) - int(addr) - 1
	if offs < BRANCH_OFFSET_MIN || offs > BRANCH_OFFSET_MAX {
		err = ErrBranchRange(offs)
		return
	}
	offset = uint16(offs) & 0x1fff
	return
}

// Forward is a use of a name before its definition.
type Forward struct {
	Name  string // Referenced name.
	Addr  uint16 // Address of the placeholder word.
	Line  int    // Index of the referencing line in the flattened source.
	Patch Patch  // How to resolve the placeholder.
}
