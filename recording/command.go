// Package recording provides a render.Backend that records every call
// instead of drawing.
//
// The recorder is the mock GPU of the scene engine's tests and the trace
// backend of the command-line tools: it keeps the command stream, the
// resources that are still alive and the state each draw was issued with.
// Upload failures can be injected to exercise error paths.
//
// # Example
//
//	rec := recording.New()
//	eng, _ := voxscene.New(rec)
//	eng.RunFrame(ctx)
//	for _, d := range rec.Draws() {
//	    fmt.Println(d.Pipeline, d.Count)
//	}
package recording

import (
	"fmt"

	"github.com/gogpu/voxscene/render"
)

// CommandType identifies a recorded backend call.
type CommandType uint8

const (
	// Resource commands
	CmdCreateBuffer CommandType = iota
	CmdDestroyBuffer
	CmdCreateTexture
	CmdDestroyTexture
	CmdCreatePipeline
	CmdDestroyPipeline

	// Pass commands
	CmdBeginPass
	CmdApplyPipeline
	CmdApplyBindings
	CmdApplyUniforms
	CmdDraw
	CmdEndPass
)

var commandTypeNames = [...]string{
	CmdCreateBuffer:    "CreateBuffer",
	CmdDestroyBuffer:   "DestroyBuffer",
	CmdCreateTexture:   "CreateTexture",
	CmdDestroyTexture:  "DestroyTexture",
	CmdCreatePipeline:  "CreatePipeline",
	CmdDestroyPipeline: "DestroyPipeline",
	CmdBeginPass:       "BeginPass",
	CmdApplyPipeline:   "ApplyPipeline",
	CmdApplyBindings:   "ApplyBindings",
	CmdApplyUniforms:   "ApplyUniforms",
	CmdDraw:            "Draw",
	CmdEndPass:         "EndPass",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is one recorded call. Only the fields relevant to Type are set.
type Command struct {
	Type CommandType

	Buffer   render.BufferID
	Texture  render.TextureID
	Pipeline render.PipelineID
	Bindings render.Bindings
	Uniforms render.Uniforms

	Label string
	Bytes int // payload size of resource uploads

	First, Count int
}

// String formats the command for traces.
func (c Command) String() string {
	switch c.Type {
	case CmdCreateBuffer, CmdDestroyBuffer:
		return fmt.Sprintf("%s buf=%d %q %dB", c.Type, c.Buffer, c.Label, c.Bytes)
	case CmdCreateTexture, CmdDestroyTexture:
		return fmt.Sprintf("%s tex=%d %q %dB", c.Type, c.Texture, c.Label, c.Bytes)
	case CmdCreatePipeline, CmdDestroyPipeline, CmdApplyPipeline:
		return fmt.Sprintf("%s pipe=%d %s", c.Type, c.Pipeline, c.Label)
	case CmdApplyBindings:
		return fmt.Sprintf("%s vb=%d ib=%d tex=%v", c.Type, c.Bindings.VertexBuffer, c.Bindings.IndexBuffer, c.Bindings.Textures)
	case CmdApplyUniforms:
		return fmt.Sprintf("%s %T", c.Type, c.Uniforms)
	case CmdDraw:
		return fmt.Sprintf("%s first=%d count=%d", c.Type, c.First, c.Count)
	}
	return c.Type.String()
}
