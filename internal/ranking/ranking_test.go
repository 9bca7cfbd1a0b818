package ranking

import (
	"testing"

	"PortfolioDesk/internal/model"

	"github.com/stretchr/testify/assert"
)

func sample() []model.Position {
	return []model.Position{
		{Name: "Çelik", CostBasis: 100, CurrentValue: 150},
		{Name: "Banka", CostBasis: 300, CurrentValue: 250},
		{Name: "Zeytin", CostBasis: 200, CurrentValue: 250},
		{Name: "Demir", CostBasis: 50, CurrentValue: 100},
		{Name: "Altın", CostBasis: 400, CurrentValue: 600},
	}
}

func names(ps []model.Position) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestSort_Keys(t *testing.T) {
	in := sample()

	assert.Equal(t, []string{"Altın", "Çelik", "Zeytin", "Demir", "Banka"}, names(Sort(in, ProfitLossDesc)),
		"ties keep feed order")
	assert.Equal(t, []string{"Banka", "Çelik", "Zeytin", "Demir", "Altın"}, names(Sort(in, ProfitLossAsc)))
	assert.Equal(t, []string{"Altın", "Banka", "Zeytin", "Çelik", "Demir"}, names(Sort(in, CostDesc)))
	assert.Equal(t, []string{"Altın", "Banka", "Zeytin", "Çelik", "Demir"}, names(Sort(in, ValueDesc)))
	assert.Equal(t, []string{"Altın", "Banka", "Çelik", "Demir", "Zeytin"}, names(Sort(in, NameAsc)),
		"Ç sorts after C under Turkish collation")
}

func TestSort_DefaultAndUnknownKeepOrder(t *testing.T) {
	in := sample()
	assert.Equal(t, names(in), names(Sort(in, Default)))
	assert.Equal(t, names(in), names(Sort(in, Key("bogus"))))
}

func TestSort_DoesNotMutate(t *testing.T) {
	in := sample()
	before := names(in)
	_ = Sort(in, NameDesc)
	assert.Equal(t, before, names(in))
}

func TestSort_Idempotent(t *testing.T) {
	for _, opt := range Keys() {
		once := Sort(sample(), opt.Key)
		twice := Sort(once, opt.Key)
		assert.Equal(t, names(once), names(twice), "key %s", opt.Key)
	}
}

func TestSort_NameAscDescAreReverses(t *testing.T) {
	asc := names(Sort(sample(), NameAsc))
	desc := names(Sort(sample(), NameDesc))
	for i := range asc {
		assert.Equal(t, asc[i], desc[len(desc)-1-i])
	}
}

func TestFilterByName(t *testing.T) {
	in := sample()
	assert.Equal(t, []string{"Altın"}, names(FilterByName(in, "ALTIN")))
	assert.Equal(t, []string{"Çelik"}, names(FilterByName(in, "çel")))
	assert.Len(t, FilterByName(in, "  "), len(in))
	assert.Empty(t, FilterByName(in, "yok"))
}
