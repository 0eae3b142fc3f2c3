// rastercfg.go - TOML-encoded RenderState presets, loaded/saved the way
// noisetorch's config.go handles its settings file.
package rastercfg

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/lumenray/raster/raster/pipeline"
)

// Preset is the TOML-serializable form of a pipeline.RenderState: TOML has
// no notion of our enum types, so each field round-trips through its name.
type Preset struct {
	CullMode      string
	FrontFace     string
	DepthTest     bool
	DepthWrite    bool
	DepthCompare  string
	BlendEnable   bool
	BlendSrc      string
	BlendDst      string
	BlendEquation string
	LineWidth     float32
	PointSize     float32
	SampleShading bool
}

// DefaultPreset mirrors pipeline.Default().
func DefaultPreset() Preset {
	return fromRenderState(pipeline.Default())
}

// LoadFile reads a Preset from a TOML file.
func LoadFile(path string) (Preset, error) {
	var p Preset
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return Preset{}, fmt.Errorf("rastercfg: decode %s: %w", path, err)
	}
	return p, nil
}

// SaveFile writes p to path as TOML.
func SaveFile(path string, p Preset) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(&p); err != nil {
		return fmt.Errorf("rastercfg: encode: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// RenderState resolves the preset's named fields into a pipeline.RenderState,
// falling back to Default()'s value for any name it does not recognize.
func (p Preset) RenderState() pipeline.RenderState {
	rs := pipeline.Default()
	rs.DepthTest = p.DepthTest
	rs.DepthWrite = p.DepthWrite
	rs.BlendEnable = p.BlendEnable
	rs.LineWidth = p.LineWidth
	rs.PointSize = p.PointSize
	rs.SampleShading = p.SampleShading

	if v, ok := cullModes[p.CullMode]; ok {
		rs.CullMode = v
	}
	if v, ok := frontFaces[p.FrontFace]; ok {
		rs.FrontFace = v
	}
	if v, ok := depthCompares[p.DepthCompare]; ok {
		rs.DepthCompare = v
	}
	if v, ok := blendFactors[p.BlendSrc]; ok {
		rs.BlendSrc = v
	}
	if v, ok := blendFactors[p.BlendDst]; ok {
		rs.BlendDst = v
	}
	if v, ok := blendEquations[p.BlendEquation]; ok {
		rs.BlendEq = v
	}
	return rs
}

func fromRenderState(rs pipeline.RenderState) Preset {
	return Preset{
		CullMode:      cullModeNames[rs.CullMode],
		FrontFace:     frontFaceNames[rs.FrontFace],
		DepthTest:     rs.DepthTest,
		DepthWrite:    rs.DepthWrite,
		DepthCompare:  depthCompareNames[rs.DepthCompare],
		BlendEnable:   rs.BlendEnable,
		BlendSrc:      blendFactorNames[rs.BlendSrc],
		BlendDst:      blendFactorNames[rs.BlendDst],
		BlendEquation: blendEquationNames[rs.BlendEq],
		LineWidth:     rs.LineWidth,
		PointSize:     rs.PointSize,
		SampleShading: rs.SampleShading,
	}
}

var cullModes = map[string]pipeline.CullMode{
	"None": pipeline.CullNone, "Back": pipeline.CullBack, "Front": pipeline.CullFront,
}
var cullModeNames = map[pipeline.CullMode]string{
	pipeline.CullNone: "None", pipeline.CullBack: "Back", pipeline.CullFront: "Front",
}

var frontFaces = map[string]pipeline.FrontFace{"CCW": pipeline.CCW, "CW": pipeline.CW}
var frontFaceNames = map[pipeline.FrontFace]string{pipeline.CCW: "CCW", pipeline.CW: "CW"}

var depthCompares = map[string]pipeline.DepthCompare{
	"Less": pipeline.DepthLess, "LEqual": pipeline.DepthLEqual,
	"Greater": pipeline.DepthGreater, "GEqual": pipeline.DepthGEqual,
	"Equal": pipeline.DepthEqual, "NotEqual": pipeline.DepthNotEqual,
	"Always": pipeline.DepthAlways, "Never": pipeline.DepthNever,
}
var depthCompareNames = map[pipeline.DepthCompare]string{
	pipeline.DepthLess: "Less", pipeline.DepthLEqual: "LEqual",
	pipeline.DepthGreater: "Greater", pipeline.DepthGEqual: "GEqual",
	pipeline.DepthEqual: "Equal", pipeline.DepthNotEqual: "NotEqual",
	pipeline.DepthAlways: "Always", pipeline.DepthNever: "Never",
}

var blendFactors = map[string]pipeline.BlendFactor{
	"Zero": pipeline.BlendZero, "One": pipeline.BlendOne,
	"SrcAlpha": pipeline.BlendSrcAlpha, "OneMinusSrcAlpha": pipeline.BlendOneMinusSrcAlpha,
	"DstAlpha": pipeline.BlendDstAlpha, "OneMinusDstAlpha": pipeline.BlendOneMinusDstAlpha,
}
var blendFactorNames = map[pipeline.BlendFactor]string{
	pipeline.BlendZero: "Zero", pipeline.BlendOne: "One",
	pipeline.BlendSrcAlpha: "SrcAlpha", pipeline.BlendOneMinusSrcAlpha: "OneMinusSrcAlpha",
	pipeline.BlendDstAlpha: "DstAlpha", pipeline.BlendOneMinusDstAlpha: "OneMinusDstAlpha",
}

var blendEquations = map[string]pipeline.BlendEquation{
	"Add": pipeline.BlendAdd, "Sub": pipeline.BlendSub, "RevSub": pipeline.BlendRevSub,
	"Min": pipeline.BlendMin, "Max": pipeline.BlendMax,
}
var blendEquationNames = map[pipeline.BlendEquation]string{
	pipeline.BlendAdd: "Add", pipeline.BlendSub: "Sub", pipeline.BlendRevSub: "RevSub",
	pipeline.BlendMin: "Min", pipeline.BlendMax: "Max",
}
