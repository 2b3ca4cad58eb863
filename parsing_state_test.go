package xsd2jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflare-ai/go-xsd2jsonschema/jsonschema"
)

func TestParsingStateStack(t *testing.T) {
	p := NewParsingState()
	assert.Nil(t, p.Top())
	assert.Nil(t, p.ExitState())
	assert.ErrorIs(t, p.PushSchema(jsonschema.New()), ErrUnexpectedState)

	_, err := p.CurrentState()
	assert.ErrorIs(t, err, ErrUnexpectedState)

	p.EnterState(&Frame{Name: "schema"})
	_, err = p.CurrentState()
	assert.ErrorIs(t, err, ErrUnexpectedState)
	assert.False(t, p.IsTopLevelEntity())

	p.EnterState(&Frame{Name: "complexType"})
	assert.True(t, p.IsTopLevelEntity())
	parent, err := p.CurrentState()
	require.NoError(t, err)
	assert.Equal(t, "schema", parent.Name)

	working := jsonschema.New()
	require.NoError(t, p.PushSchema(working))
	assert.Same(t, working, p.Top().WorkingSchema)

	p.EnterState(&Frame{Name: "choice"})
	p.EnterState(&Frame{Name: "element"})
	assert.True(t, p.InChoice())
	assert.False(t, p.InSequence())
	assert.False(t, p.IsTopLevelEntity())
	assert.Equal(t, 4, p.Depth())
	assert.Equal(t, "schema > complexType > choice > element", p.String())

	assert.Equal(t, "element", p.ExitState().Name)
	assert.Equal(t, "choice", p.ExitState().Name)
	frame := p.ExitState()
	assert.Equal(t, "complexType", frame.Name)
	assert.Same(t, working, frame.WorkingSchema)

	p.Reset()
	assert.Equal(t, 0, p.Depth())
	assert.Equal(t, "", p.String())
}

func TestParsingStatePredicates(t *testing.T) {
	for _, name := range []string{"sequence", "element", "attribute", "documentation", "appinfo"} {
		p := NewParsingState()
		p.EnterState(&Frame{Name: name})
		p.EnterState(&Frame{Name: "child"})
		assert.Equal(t, name == "sequence", p.InSequence(), name)
		assert.Equal(t, name == "element", p.InElement(), name)
		assert.Equal(t, name == "attribute", p.InAttribute(), name)
		assert.Equal(t, name == "documentation", p.InDocumentation(), name)
		assert.Equal(t, name == "appinfo", p.InAppInfo(), name)
	}
}
