package types

import "strings"

//go:generate stringer -type=BCFLAG

type BCFLAG uint8

const (
	BC_None BCFLAG = iota
	BC_In
	BC_Dirichlet
	BC_Slip
	BC_Far
	BC_Wall
	BC_Cyl
	BC_Neuman
	BC_Out
	BC_Periodic
	BC_Sym
	BC_Empty
)

var bcNames = [...]string{"None", "In", "Dirichlet", "Slip", "Far", "Wall",
	"Cyl", "Neuman", "Out", "Periodic", "Sym", "Empty"}

func (bf BCFLAG) String() string {
	if int(bf) >= len(bcNames) {
		return "Unknown"
	}
	return bcNames[bf]
}

var BCNameMap = map[string]BCFLAG{
	"inflow":    BC_In,
	"in":        BC_In,
	"out":       BC_Out,
	"outflow":   BC_Out,
	"wall":      BC_Wall,
	"far":       BC_Far,
	"cyl":       BC_Cyl,
	"dirichlet": BC_Dirichlet,
	"neuman":    BC_Neuman,
	"slip":      BC_Slip,
	"periodic":  BC_Periodic,
	"sym":       BC_Sym,
	"symmetry":  BC_Sym,
	"empty":     BC_Empty,
}

/*
BCTAG carries a boundary patch label of the form "Name" or "Name-Label",
where Name selects the boundary condition type, case insensitive, and the
optional Label distinguishes multiple patches of the same type, for
instance "Periodic-1" and "Periodic-2" for the two sides of a periodic pair
*/
type BCTAG string

func NewBCTAG(label string) (bt BCTAG) {
	bt = BCTAG(strings.Trim(label, " "))
	return
}

func (bt BCTAG) GetFLAG() (bf BCFLAG) {
	base := string(bt)
	if ind := strings.Index(base, "-"); ind != -1 {
		base = base[:ind]
	}
	bf = BCNameMap[strings.ToLower(base)]
	return
}

func (bt BCTAG) GetLabel() (label string) {
	if ind := strings.Index(string(bt), "-"); ind != -1 {
		label = string(bt)[ind+1:]
	}
	return
}
