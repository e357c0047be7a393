package skills

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_ValuesInDeclarationOrder(t *testing.T) {
	s, err := NewTestTypeSet(Edge, Positive)
	require.NoError(t, err)

	assert.Equal(t, []TestType{Positive, Edge}, s.Values())
	assert.Equal(t, []string{"positive", "edge"}, s.Strings())
	assert.True(t, s.Has(Edge))
	assert.False(t, s.Has(Negative))
	assert.Equal(t, 2, s.Len())
}

func TestSet_RejectsUnknown(t *testing.T) {
	_, err := NewFrontEndSet("cypress")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "selenium, playwright")
}

func TestSet_CheckboxToggle(t *testing.T) {
	s := NewSet(BackEndOptions)
	require.NoError(t, s.Set(Postman, true))
	require.NoError(t, s.Set(RestAssured, true))
	require.NoError(t, s.Set(Postman, false))

	assert.Equal(t, []BackEnd{RestAssured}, s.Values())
}

func TestSet_JSON(t *testing.T) {
	empty := NewSet(FrontEndOptions)
	assert.Equal(t, "[]", empty.JSON())

	s, err := NewFrontEndSet(Playwright, Selenium)
	require.NoError(t, err)
	assert.Equal(t, `["selenium","playwright"]`, s.JSON())

	body, err := json.Marshal(map[string]any{"testTypes": s})
	require.NoError(t, err)
	assert.JSONEq(t, `{"testTypes":["selenium","playwright"]}`, string(body))
}

func TestSet_Parse(t *testing.T) {
	s := NewSet(TestTypeOptions)
	require.NoError(t, s.Parse(" Negative, ,edge"))
	assert.Equal(t, []string{"negative", "edge"}, s.Strings())

	assert.Error(t, s.Parse("boundary"))
}
