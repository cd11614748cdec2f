package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDoubt_HasText(t *testing.T) {
	assert.False(t, NoDoubt().HasText())
	assert.False(t, AmbiguousDoubt().HasText())
	assert.False(t, TextDoubt("").HasText())
	assert.True(t, TextDoubt("análise nodal").HasText())
}

func TestDoubt_String(t *testing.T) {
	assert.Equal(t, "none", NoDoubt().String())
	assert.Equal(t, "ambiguous", AmbiguousDoubt().String())
	assert.Equal(t, `text("lei de ohm")`, TextDoubt("lei de ohm").String())
}

func TestModuleRange_IsValid(t *testing.T) {
	assert.True(t, RangeMain.IsValid())
	assert.True(t, RangeLabs.IsValid())
	assert.False(t, ModuleRange("extra").IsValid())
}

func TestDefaultModuleNames_LabsLast(t *testing.T) {
	assert.Len(t, DefaultModuleNames, 12)
	assert.Equal(t, "Domínio Elétrico Labs", DefaultModuleNames[len(DefaultModuleNames)-1])
}
