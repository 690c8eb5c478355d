package gen

import (
	"fmt"

	"github.com/wbgen/wbgen/util"
)

// UnknownTypeError reports a slave whose type does not resolve in the IP
// library.
type UnknownTypeError struct {
	Type  string
	Slave string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("slave %q references type %q which is not in the IP library", e.Slave, e.Type)
}

// AddressOverlapError reports two slaves whose address windows intersect.
type AddressOverlapError struct {
	SlaveA string
	SlaveB string
	Base   uint32
	Size   uint32
}

func (e *AddressOverlapError) Error() string {
	return fmt.Sprintf("address window %s+0x%X of slave %q overlaps the window of slave %q",
		util.CHex(e.Base), e.Size, e.SlaveB, e.SlaveA)
}

// NameCollisionError reports a duplicate slave instance name.
type NameCollisionError struct {
	Name string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("duplicate slave name %q", e.Name)
}
