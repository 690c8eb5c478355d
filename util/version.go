package util

import "fmt"

type Version struct {
	Major uint
	Minor uint
	Patch uint
}

var WbgenVersion = Version{1, 0, 0}

func (v Version) String() string {
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
}
