package ordering

import (
	"testing"

	"github.com/mansoorceksport/mealturn/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestQuotaSumsPerType(t *testing.T) {
	packages := []domain.UserPackage{
		{PackageType: domain.PackageTypeNormal, RemainingTurns: 3},
		{PackageType: "", RemainingTurns: 2},
		{PackageType: domain.PackageTypeNoRice, RemainingTurns: 4},
		{PackageType: domain.PackageTypeNoRice, RemainingTurns: 1},
		{PackageType: domain.PackageTypeNormal, RemainingTurns: -2},
	}

	q := Quota(packages)

	assert.Equal(t, 5, q.Normal)
	assert.Equal(t, 5, q.NoRice)
	assert.Equal(t, 5, q.For(domain.PackageTypeNormal))
	assert.Equal(t, 5, q.For(domain.PackageTypeNoRice))
	assert.Equal(t, 10, q.Total())
}

func TestQuotaEmpty(t *testing.T) {
	assert.Equal(t, TurnQuota{}, Quota(nil))
}

func TestQuotaIgnoresUnknownTypes(t *testing.T) {
	packages := []domain.UserPackage{
		{PackageType: "premium", RemainingTurns: 5},
		{PackageType: domain.PackageTypeNoRice, RemainingTurns: 1},
	}

	assert.Equal(t, TurnQuota{Normal: 0, NoRice: 1}, Quota(packages))
}
