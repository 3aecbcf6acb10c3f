//go:build !nogpu

package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/naga"

	"github.com/refarde/imglykit"
)

//go:embed shaders/colormatrix.wgsl
var colorMatrixShaderSource string

// compileColorMatrixShader compiles the embedded WGSL kernel to SPIR-V.
// SPIR-V is little-endian 32-bit words.
func compileColorMatrixShader() ([]uint32, error) {
	spirvBytes, err := naga.Compile(colorMatrixShaderSource)
	if err != nil {
		return nil, fmt.Errorf("compile colormatrix shader: %w", err)
	}
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirvCode, nil
}

// colorMatrixParams mirrors the Params uniform block in colormatrix.wgsl.
// The two pad words keep the vec4 rows on 16-byte boundaries as WGSL
// uniform layout requires.
type colorMatrixParams struct {
	Width  uint32
	Height uint32
	Pad0   uint32
	Pad1   uint32
	RowR   [4]float32
	RowG   [4]float32
	RowB   [4]float32
	RowA   [4]float32
	Offset [4]float32
}

// colorMatrixParamsSize is the serialized size of colorMatrixParams:
// four u32 words plus five vec4<f32> rows.
const colorMatrixParamsSize = 16 + 5*16

// paramsFromMatrix splits a 4x5 row-major matrix into the 4x4 linear
// part (one vec4 per output channel) and the constant column.
func paramsFromMatrix(width, height int, m imglykit.ColorMatrix) colorMatrixParams {
	return colorMatrixParams{
		Width:  uint32(width),
		Height: uint32(height),
		RowR:   [4]float32{float32(m[0]), float32(m[1]), float32(m[2]), float32(m[3])},
		RowG:   [4]float32{float32(m[5]), float32(m[6]), float32(m[7]), float32(m[8])},
		RowB:   [4]float32{float32(m[10]), float32(m[11]), float32(m[12]), float32(m[13])},
		RowA:   [4]float32{float32(m[15]), float32(m[16]), float32(m[17]), float32(m[18])},
		Offset: [4]float32{float32(m[4]), float32(m[9]), float32(m[14]), float32(m[19])},
	}
}

// toBytes serializes the params for the uniform buffer upload.
func (p *colorMatrixParams) toBytes() []byte {
	buf := make([]byte, colorMatrixParamsSize)
	off := writeUint32(buf, 0, p.Width)
	off = writeUint32(buf, off, p.Height)
	off = writeUint32(buf, off, p.Pad0)
	off = writeUint32(buf, off, p.Pad1)
	for _, row := range [5][4]float32{p.RowR, p.RowG, p.RowB, p.RowA, p.Offset} {
		for _, v := range row {
			off = writeFloat32(buf, off, v)
		}
	}
	return buf
}

func writeUint32(buf []byte, off int, v uint32) int {
	binary.LittleEndian.PutUint32(buf[off:], v)
	return off + 4
}

func writeFloat32(buf []byte, off int, v float32) int {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
	return off + 4
}

// packPixels converts RGBA8 bytes into the packed u32 layout the kernel
// reads: r | g<<8 | b<<16 | a<<24 per pixel, little endian.
func packPixels(data []uint8, pixelCount int) []byte {
	out := make([]byte, pixelCount*4)
	for i := 0; i < pixelCount; i++ {
		srcIdx := i * 4
		r := uint32(data[srcIdx+0])
		g := uint32(data[srcIdx+1])
		b := uint32(data[srcIdx+2])
		a := uint32(data[srcIdx+3])
		packed := r | (g << 8) | (b << 16) | (a << 24)
		binary.LittleEndian.PutUint32(out[i*4:], packed)
	}
	return out
}

// unpackPixels writes packed u32 pixels back into RGBA8 bytes.
func unpackPixels(packed []byte, dst []uint8, pixelCount int) {
	for i := 0; i < pixelCount; i++ {
		val := binary.LittleEndian.Uint32(packed[i*4:])
		dstIdx := i * 4
		dst[dstIdx+0] = uint8(val & 0xFF)
		dst[dstIdx+1] = uint8((val >> 8) & 0xFF)
		dst[dstIdx+2] = uint8((val >> 16) & 0xFF)
		dst[dstIdx+3] = uint8((val >> 24) & 0xFF)
	}
}
