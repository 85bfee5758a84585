// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// DiceVertexShader transforms die and ground vertices.
//
//go:embed dice.vert
var DiceVertexShader string

// DiceFragmentShader shades dice and the ground with two directional
// lights and distance fog.
//
//go:embed dice.frag
var DiceFragmentShader string
