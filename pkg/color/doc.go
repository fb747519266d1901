// Package color implements 8 bit color math for addressable LED strips.
//
// Hue values use the rainbow wheel: 0 red, 32 orange, 64 yellow, 96 green,
// 128 aqua, 160 blue, 192 purple, 224 pink.
package color
