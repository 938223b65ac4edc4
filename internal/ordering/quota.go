package ordering

import "github.com/mansoorceksport/mealturn/internal/domain"

// TurnQuota is how many dishes may be selected per order type
type TurnQuota struct {
	Normal int
	NoRice int
}

// Quota sums remaining turns per package type. Packages without a type
// count as normal, packages of an unknown type are not counted and
// negative balances count as zero.
func Quota(packages []domain.UserPackage) TurnQuota {
	var q TurnQuota
	for _, p := range packages {
		turns := p.RemainingTurns
		if turns < 0 {
			turns = 0
		}
		switch p.PackageType {
		case domain.PackageTypeNormal, "":
			q.Normal += turns
		case domain.PackageTypeNoRice:
			q.NoRice += turns
		}
	}
	return q
}

// For returns the quota of one order type
func (q TurnQuota) For(t domain.PackageType) int {
	if t.Normalize() == domain.PackageTypeNoRice {
		return q.NoRice
	}
	return q.Normal
}

// Total is the number of turns across both types
func (q TurnQuota) Total() int {
	return q.Normal + q.NoRice
}
