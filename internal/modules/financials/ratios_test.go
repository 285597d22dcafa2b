package financials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEPS(t *testing.T) {
	assert.Nil(t, EPS(1000, 0))

	got := EPS(1000, 100)
	require.NotNil(t, got)
	assert.Equal(t, 10.0, *got)
}

func TestPBR(t *testing.T) {
	assert.Nil(t, PBR(50000, 0))

	got := PBR(50000, 25000)
	require.NotNil(t, got)
	assert.Equal(t, 2.0, *got)
}

func TestBookValuePerShare(t *testing.T) {
	assert.Equal(t, 250.0, BookValuePerShare(25000, 100))
	assert.Equal(t, 0.0, BookValuePerShare(25000, 0))
}

func TestROAAndROE(t *testing.T) {
	roa := ROA(100, 2000)
	require.NotNil(t, roa)
	assert.Equal(t, 5.0, *roa)
	assert.Nil(t, ROA(100, 0))

	roe := ROE(100, 500)
	require.NotNil(t, roe)
	assert.Equal(t, 20.0, *roe)
	assert.Nil(t, ROE(100, 0))
}

func TestEnterpriseValue(t *testing.T) {
	marketCap, debt, cash := 1000.0, 400.0, 100.0

	assert.Equal(t, 1300.0, EnterpriseValue(&marketCap, &debt, &cash))
	assert.Equal(t, 0.0, EnterpriseValue(&marketCap, &debt, nil), "all three inputs required")
	assert.Equal(t, 0.0, EnterpriseValue(nil, nil, nil))
}

func TestEVToEBITDA(t *testing.T) {
	assert.Nil(t, EVToEBITDA(1300, 0))
	assert.Nil(t, EVToEBITDA(1300, -50), "only defined for positive EBITDA")

	got := EVToEBITDA(1300, 130)
	require.NotNil(t, got)
	assert.Equal(t, 10.0, *got)
}

func TestMarginAndDebtRatios(t *testing.T) {
	om := OperatingMargin(25, 200)
	require.NotNil(t, om)
	assert.Equal(t, 12.5, *om)
	assert.Nil(t, OperatingMargin(25, 0))

	dr := DebtRatio(400, 500)
	require.NotNil(t, dr)
	assert.Equal(t, 80.0, *dr)
	assert.Nil(t, DebtRatio(400, 0))

	cr := CurrentRatio(300, 150)
	require.NotNil(t, cr)
	assert.Equal(t, 200.0, *cr)
	assert.Nil(t, CurrentRatio(300, 0))
}
