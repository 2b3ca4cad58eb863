package xsd2jsonschema

import (
	"fmt"
	"strings"

	"github.com/agentflare-ai/go-xmldom"

	"github.com/agentflare-ai/go-xsd2jsonschema/jsonschema"
)

// Frame is one entry of the parsing-state stack.
type Frame struct {
	// Name is the local name of the XSD element being visited.
	Name string
	Node xmldom.Element
	// WorkingSchema, when set, becomes the working schema again once this
	// frame is exited.
	WorkingSchema *jsonschema.Schema

	// patternsDone is set once the pattern facets below this node have
	// been combined.
	patternsDone bool
}

// ParsingState tracks the XSD elements enclosing the node being visited.
// One instance serves one traversal at a time.
type ParsingState struct {
	frames []*Frame
}

func NewParsingState() *ParsingState {
	return &ParsingState{}
}

// EnterState pushes a frame.
func (p *ParsingState) EnterState(f *Frame) {
	p.frames = append(p.frames, f)
}

// ExitState pops and returns the top frame, or nil when empty.
func (p *ParsingState) ExitState() *Frame {
	if len(p.frames) == 0 {
		return nil
	}
	top := p.frames[len(p.frames)-1]
	p.frames = p.frames[:len(p.frames)-1]
	return top
}

// PushSchema records s on the top frame as the working schema to restore
// when that frame is exited.
func (p *ParsingState) PushSchema(s *jsonschema.Schema) error {
	if len(p.frames) == 0 {
		return fmt.Errorf("push schema with no states at all: %w", ErrUnexpectedState)
	}
	p.frames[len(p.frames)-1].WorkingSchema = s
	return nil
}

// CurrentState returns the parent of the node being visited, i.e. the frame
// second from the top.
func (p *ParsingState) CurrentState() (*Frame, error) {
	switch len(p.frames) {
	case 0:
		return nil, fmt.Errorf("no states at all: %w", ErrUnexpectedState)
	case 1:
		return nil, fmt.Errorf("not yet inside a state: %w", ErrUnexpectedState)
	}
	return p.frames[len(p.frames)-2], nil
}

// Top returns the frame of the node being visited.
func (p *ParsingState) Top() *Frame {
	if len(p.frames) == 0 {
		return nil
	}
	return p.frames[len(p.frames)-1]
}

// Depth returns the number of frames.
func (p *ParsingState) Depth() int {
	return len(p.frames)
}

func (p *ParsingState) currentName() string {
	f, err := p.CurrentState()
	if err != nil {
		return ""
	}
	return f.Name
}

func (p *ParsingState) InChoice() bool        { return p.currentName() == "choice" }
func (p *ParsingState) InSequence() bool      { return p.currentName() == "sequence" }
func (p *ParsingState) InElement() bool       { return p.currentName() == "element" }
func (p *ParsingState) InAttribute() bool     { return p.currentName() == "attribute" }
func (p *ParsingState) InDocumentation() bool { return p.currentName() == "documentation" }
func (p *ParsingState) InAppInfo() bool       { return p.currentName() == "appinfo" }

// IsTopLevelEntity reports whether the node being visited is a direct child
// of xs:schema.
func (p *ParsingState) IsTopLevelEntity() bool {
	return len(p.frames) == 2
}

// Reset empties the stack.
func (p *ParsingState) Reset() {
	p.frames = p.frames[:0]
}

// String renders the stack bottom to top, e.g. "schema > complexType > sequence".
func (p *ParsingState) String() string {
	names := make([]string, len(p.frames))
	for i, f := range p.frames {
		names[i] = f.Name
	}
	return strings.Join(names, " > ")
}
