package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSideFromTradeType(t *testing.T) {
	assert.Equal(t, SideBuy, SideFromTradeType(1))
	assert.Equal(t, SideSell, SideFromTradeType(2))
	assert.Equal(t, SideBuy, SideFromTradeType(11))
	assert.Equal(t, SideSell, SideFromTradeType(12))
	assert.Equal(t, SideErr, SideFromTradeType(0))
	assert.Equal(t, SideErr, SideFromTradeType(4))
	assert.Equal(t, SideErr, SideFromTradeType(10))
}

func TestParseSide(t *testing.T) {
	assert.Equal(t, SideBuy, ParseSide("BUY"))
	assert.Equal(t, SideSell, ParseSide("SELL"))
	assert.Equal(t, SideErr, ParseSide("HOLD"))
	assert.Equal(t, SideErr, ParseSide(""))
}
